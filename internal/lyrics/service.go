package lyrics

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sukalov/hymnal/internal/logger"
	"github.com/sukalov/hymnal/internal/lyrics/parsers/amdm"
	"github.com/sukalov/hymnal/internal/songs"
)

// ErrUnsupportedSource is returned for pages no parser understands.
var ErrUnsupportedSource = errors.New("unsupported URL source")

// Result is a song imported from a chord site. Number, language and key are
// left for the editor to fill in.
type Result struct {
	URL       string       `json:"url"`
	Source    string       `json:"source"`
	Title     string       `json:"title"`
	Lines     []songs.Line `json:"lines"`
	FetchedAt time.Time    `json:"fetched_at"`
}

// Song returns the import as a song draft.
func (r *Result) Song() songs.Song {
	return songs.Song{Title: r.Title, Lines: r.Lines}
}

// Extractor reads one source.
type Extractor interface {
	Extract(ctx context.Context, url string) (*amdm.Result, error)
}

// Service handles lyrics extraction for different sources
type Service struct {
	extractors map[string]Extractor
}

// NewService creates a new lyrics service
func NewService() *Service {
	return &Service{
		extractors: map[string]Extractor{"amdm.ru": amdm.NewParser()},
	}
}

// Register adds or replaces the extractor for host and its subdomains.
func (s *Service) Register(host string, x Extractor) {
	s.extractors[host] = x
}

// Import fetches rawURL and reads it with the extractor for its host.
func (s *Service) Import(ctx context.Context, rawURL string) (*Result, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}

	source, x := s.lookup(u.Hostname())
	if x == nil {
		logger.Error(fmt.Sprintf("Unsupported URL source: %s", rawURL))
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, rawURL)
	}

	res, err := x.Extract(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", rawURL, err)
	}

	return &Result{
		URL:       res.URL,
		Source:    source,
		Title:     res.Title,
		Lines:     res.Lines,
		FetchedAt: res.FetchedAt,
	}, nil
}

func (s *Service) lookup(host string) (string, Extractor) {
	for source, x := range s.extractors {
		if host == source || strings.HasSuffix(host, "."+source) {
			return source, x
		}
	}
	return "", nil
}
