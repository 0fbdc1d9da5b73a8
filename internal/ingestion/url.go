// Package ingestion fetches a job posting URL and extracts its text so it
// can feed the generation pipeline in place of pasted text. Static HTML
// only; postings behind client-side rendering must be pasted.
package ingestion

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var (
	// ErrInvalidURL is returned when the URL is malformed or not HTTP(S)
	ErrInvalidURL = fmt.Errorf("invalid URL")
	// ErrFetchFailed is returned when the HTTP request fails
	ErrFetchFailed = fmt.Errorf("fetch failed")
	// ErrExtractionFailed is returned when no usable text could be extracted
	ErrExtractionFailed = fmt.Errorf("content extraction failed")
)

// noiseSelectors are stripped before text extraction.
var noiseSelectors = []string{"script", "style", "noscript", "nav", "header", "footer", "iframe", "form"}

// contentSelectors are tried in order; the first match wins, falling back
// to the whole body.
var contentSelectors = []string{"main", "article", "[role=main]", "body"}

var whitespaceRun = regexp.MustCompile(`[ \t]+`)
var blankLines = regexp.MustCompile(`\n{3,}`)

const fetchTimeout = 15 * time.Second

// FetchJobDescription retrieves urlStr and returns the posting's visible
// text, whitespace-collapsed.
func FetchJobDescription(ctx context.Context, urlStr string) (string, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, urlStr)
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", "resume-tailor/1.0")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	text := ExtractText(doc)
	if text == "" {
		return "", fmt.Errorf("%w: no text content at %s", ErrExtractionFailed, urlStr)
	}
	return text, nil
}

// ExtractText pulls the main visible text out of a parsed document.
func ExtractText(doc *goquery.Document) string {
	for _, selector := range noiseSelectors {
		doc.Find(selector).Remove()
	}

	var raw string
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			raw = sel.First().Text()
			break
		}
	}

	return cleanText(raw)
}

// cleanText collapses runs of spaces and blank lines and trims each line.
func cleanText(raw string) string {
	raw = whitespaceRun.ReplaceAllString(raw, " ")
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	out := strings.Join(lines, "\n")
	out = blankLines.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
