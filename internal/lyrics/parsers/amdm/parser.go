package amdm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/sukalov/hymnal/internal/logger"
	"github.com/sukalov/hymnal/internal/lyrics/chordsheet"
)

// ErrNoChordsBlock is returned when a page has no chords block.
var ErrNoChordsBlock = errors.New("could not find target element with chords and lyrics")

// Parser handles the HTML parsing and lyrics extraction
type Parser struct {
	client *Client
	config *ProcessingConfig
}

// NewParser creates a new AmDm parser
func NewParser() *Parser {
	return &Parser{
		client: NewClient(),
		config: &ProcessingConfig{
			UnwantedSections: []SectionType{SectionIntro, SectionSolo, SectionOutro},
		},
	}
}

// Extract fetches an AmDm.ru page and reads its chords block into lines.
func (p *Parser) Extract(ctx context.Context, url string) (*Result, error) {
	logger.Debug(fmt.Sprintf("Extract: fetching page %s", url))

	body, err := p.client.FetchPage(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	result, err := p.Parse(body)
	if err != nil {
		logger.Error(fmt.Sprintf("Extract: failed to read %s\nError: %v", url, err))
		return nil, err
	}
	result.URL = url
	result.FetchedAt = time.Now()

	logger.Debug(fmt.Sprintf("Extract: read %d lines from %s", len(result.Lines), url))
	return result, nil
}

// Parse reads a song from page HTML.
func (p *Parser) Parse(r io.Reader) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	block := doc.Find(chordsBlockSelector).First()
	if block.Length() == 0 {
		return nil, ErrNoChordsBlock
	}

	lines := chordsheet.Parse(chordsBlockText(block), chordsheet.Options{
		SkipSections: p.config.skipSections(),
	})
	return &Result{
		Title: strings.TrimSpace(doc.Find("h1").First().Text()),
		Lines: lines,
	}, nil
}
