package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>Job</title><style>body { color: red }</style></head>
<body>
<nav>Home | Jobs | About</nav>
<main>
  <h1>Senior Go Engineer</h1>
  <p>We build resume   tooling in Go and Postgres.</p>
  <script>trackPageView();</script>
</main>
<footer>Copyright</footer>
</body>
</html>`

func TestFetchJobDescription(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(samplePage))
	}))
	defer server.Close()

	text, err := FetchJobDescription(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "Senior Go Engineer")
	assert.Contains(t, text, "We build resume tooling in Go and Postgres.")
	assert.NotContains(t, text, "trackPageView")
	assert.NotContains(t, text, "Home | Jobs")
	assert.NotContains(t, text, "Copyright")
}

func TestFetchJobDescription_InvalidURL(t *testing.T) {
	_, err := FetchJobDescription(context.Background(), "ftp://example.com/job")
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func TestFetchJobDescription_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := FetchJobDescription(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestExtractText_FallsBackToBody(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<html><body><p>Just a body paragraph.</p></body></html>`))
	require.NoError(t, err)

	assert.Equal(t, "Just a body paragraph.", ExtractText(doc))
}
