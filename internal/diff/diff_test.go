package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeLineDiff_IdenticalInput(t *testing.T) {
	text := "Summary\nBuilt things\nShipped more things"

	segments := ComputeLineDiff(text, text)

	require.Len(t, segments, 3)
	for _, seg := range segments {
		assert.Equal(t, SegmentUnchanged, seg.Type)
	}
	assert.Equal(t, "Summary", segments[0].Value)
	assert.Equal(t, "Shipped more things", segments[2].Value)
}

func TestComputeLineDiff_AppendedLine(t *testing.T) {
	before := "line one\nline two"
	after := before + "\nline three"

	segments := ComputeLineDiff(before, after)

	require.Len(t, segments, 3)
	assert.Equal(t, SegmentUnchanged, segments[0].Type)
	assert.Equal(t, SegmentUnchanged, segments[1].Type)
	assert.Equal(t, SegmentAdded, segments[2].Type)
	assert.Equal(t, "line three", segments[2].Value)
}

func TestComputeLineDiff_RemovedLine(t *testing.T) {
	before := "keep\ndrop\nkeep too"
	after := "keep\nkeep too"

	segments := ComputeLineDiff(before, after)

	require.Len(t, segments, 3)
	assert.Equal(t, SegmentUnchanged, segments[0].Type)
	assert.Equal(t, Segment{Type: SegmentRemoved, Value: "drop"}, segments[1])
	assert.Equal(t, SegmentUnchanged, segments[2].Type)
}

func TestComputeLineDiff_ReplacedLineEmitsRemovalFirst(t *testing.T) {
	segments := ComputeLineDiff("old line", "new line")

	require.Len(t, segments, 2)
	assert.Equal(t, Segment{Type: SegmentRemoved, Value: "old line"}, segments[0])
	assert.Equal(t, Segment{Type: SegmentAdded, Value: "new line"}, segments[1])
}

func TestComputeLineDiff_SymmetricUnderSwap(t *testing.T) {
	before := "a\nb\nc\nd"
	after := "a\nx\nc\ny\nz"

	forward := ComputeLineDiff(before, after)
	backward := ComputeLineDiff(after, before)

	// Flipping added/removed in the forward diff must reproduce the
	// backward diff's multiset of lines per type.
	count := func(segs []Segment, st SegmentType) map[string]int {
		m := make(map[string]int)
		for _, s := range segs {
			if s.Type == st {
				m[s.Value]++
			}
		}
		return m
	}
	assert.Equal(t, count(forward, SegmentAdded), count(backward, SegmentRemoved))
	assert.Equal(t, count(forward, SegmentRemoved), count(backward, SegmentAdded))
	assert.Equal(t, count(forward, SegmentUnchanged), count(backward, SegmentUnchanged))
}

func TestComputeLineDiff_NormalizesCRLFAndTrailingWhitespace(t *testing.T) {
	before := "first line  \r\nsecond line\t"
	after := "first line\nsecond line"

	segments := ComputeLineDiff(before, after)

	require.Len(t, segments, 2)
	for _, seg := range segments {
		assert.Equal(t, SegmentUnchanged, seg.Type)
	}
}

func TestComputeLineDiff_EmptyInputs(t *testing.T) {
	// Empty string still splits into one empty line, matching the
	// normalization contract.
	segments := ComputeLineDiff("", "")
	require.Len(t, segments, 1)
	assert.Equal(t, SegmentUnchanged, segments[0].Type)
	assert.Equal(t, "", segments[0].Value)
}

func TestComputeLineDiff_DisjointDocuments(t *testing.T) {
	segments := ComputeLineDiff("a\nb", "c\nd")

	require.Len(t, segments, 4)
	// Removal-first tie-break: all before lines come out ahead of the
	// added lines when nothing matches.
	assert.Equal(t, SegmentRemoved, segments[0].Type)
	assert.Equal(t, SegmentRemoved, segments[1].Type)
	assert.Equal(t, SegmentAdded, segments[2].Type)
	assert.Equal(t, SegmentAdded, segments[3].Type)
}
