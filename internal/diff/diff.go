// Package diff computes line-level edit scripts between two text documents.
// It is used to visualize what changed between an original resume and its
// tailored rewrite.
package diff

import "strings"

// SegmentType classifies a line in an edit script.
type SegmentType string

// Segment types for diff output
const (
	// SegmentUnchanged marks a line present in both documents
	SegmentUnchanged SegmentType = "unchanged"
	// SegmentAdded marks a line present only in the after document
	SegmentAdded SegmentType = "added"
	// SegmentRemoved marks a line present only in the before document
	SegmentRemoved SegmentType = "removed"
)

// Segment is one line of an edit script.
type Segment struct {
	Type  SegmentType `json:"type"`
	Value string      `json:"value"`
}

// splitLines normalizes CRLF line endings to LF, splits on newlines, and
// trims trailing whitespace from each line. Trailing-whitespace-only
// differences are therefore invisible in the diff; this is a documented
// policy so cosmetic editor noise never shows up as a change.
func splitLines(value string) []string {
	normalized := strings.ReplaceAll(value, "\r\n", "\n")
	lines := strings.Split(normalized, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return lines
}

// ComputeLineDiff returns the edit script transforming before into after at
// line granularity, based on a longest-common-subsequence alignment.
//
// The DP table is computed over the full (m+1)x(n+1) grid: dp[i][j] holds
// the LCS length of before[i:] and after[j:]. Reconstruction walks
// front-to-back and, when the two branches tie, prefers consuming a before
// line (a removal). The tie-break is deliberate and must not change: it
// keeps output reproducible across runs.
//
// The function is pure; O(m*n) time and space, which is fine for
// resume-length documents.
func ComputeLineDiff(before, after string) []Segment {
	beforeLines := splitLines(before)
	afterLines := splitLines(after)
	m := len(beforeLines)
	n := len(afterLines)

	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}
	for i := m - 1; i >= 0; i-- {
		for j := n - 1; j >= 0; j-- {
			if beforeLines[i] == afterLines[j] {
				dp[i][j] = 1 + dp[i+1][j+1]
			} else {
				dp[i][j] = max(dp[i+1][j], dp[i][j+1])
			}
		}
	}

	result := make([]Segment, 0, max(m, n))
	i, j := 0, 0
	for i < m && j < n {
		switch {
		case beforeLines[i] == afterLines[j]:
			result = append(result, Segment{Type: SegmentUnchanged, Value: beforeLines[i]})
			i++
			j++
		case dp[i+1][j] >= dp[i][j+1]:
			result = append(result, Segment{Type: SegmentRemoved, Value: beforeLines[i]})
			i++
		default:
			result = append(result, Segment{Type: SegmentAdded, Value: afterLines[j]})
			j++
		}
	}

	// Flush whatever remains of either document.
	for ; i < m; i++ {
		result = append(result, Segment{Type: SegmentRemoved, Value: beforeLines[i]})
	}
	for ; j < n; j++ {
		result = append(result, Segment{Type: SegmentAdded, Value: afterLines[j]})
	}

	return result
}
