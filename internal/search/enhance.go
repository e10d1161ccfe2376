package search

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/kshitizz36/BreakoutAI-AI-Agent/internal/model"
)

// maxFetchBody bounds how much of a page body is read before parsing.
const maxFetchBody = 512 * 1024

// enhancer fetches result pages concurrently and fills in their cleaned
// visible text. Results are written back by index, so output order stays
// deterministic regardless of fetch completion order.
type enhancer struct {
	http    *http.Client
	limit   int
	limiter *rate.Limiter
}

func newEnhancer(contentLimit int, timeout time.Duration, fetchRPS float64) *enhancer {
	e := &enhancer{
		// Redirects are followed by default; timeout bounds the whole fetch.
		http:  &http.Client{Timeout: timeout},
		limit: contentLimit,
	}
	if fetchRPS > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(fetchRPS), max(int(fetchRPS), 1))
	}
	return e
}

// enhance fetches content for every result in place. Each fetch failure
// is contained to its slot: the result keeps an empty Content and the
// search still succeeds.
func (e *enhancer) enhance(ctx context.Context, results []model.SearchResult) {
	g, gCtx := errgroup.WithContext(ctx)

	for i := range results {
		i := i
		g.Go(func() error {
			content, err := e.fetch(gCtx, results[i].Link)
			if err != nil {
				zap.L().Warn("content enhancement failed",
					zap.String("link", results[i].Link),
					zap.Error(err),
				)
				return nil
			}
			results[i].Content = content
			return nil
		})
	}

	_ = g.Wait()
}

// fetch retrieves one page and reduces it to truncated visible text.
func (e *enhancer) fetch(ctx context.Context, link string) (string, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return "", eris.Wrap(err, "enhance: rate limit")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", eris.Wrap(err, "enhance: create request")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; InfoExtractorBot/1.0)")

	resp, err := e.http.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "enhance: fetch")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", eris.Errorf("enhance: status %d", resp.StatusCode)
	}

	text, err := visibleText(io.LimitReader(resp.Body, maxFetchBody))
	if err != nil {
		return "", err
	}

	return truncate(text, e.limit), nil
}

// visibleText parses HTML and extracts human-visible text: script, style
// and noscript subtrees are dropped, everything else is flattened and
// whitespace-collapsed.
func visibleText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", eris.Wrap(err, "enhance: parse html")
	}

	doc.Find("script, style, noscript").Remove()
	return strings.Join(strings.Fields(doc.Text()), " "), nil
}

// truncate cuts s to at most limit bytes without splitting a rune.
func truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := s[:limit]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}
