package amdm

import (
	"time"

	"github.com/sukalov/hymnal/internal/songs"
)

// Result is a song read from an AmDm.ru page.
type Result struct {
	URL       string       `json:"url"`
	Title     string       `json:"title"`
	Lines     []songs.Line `json:"lines"`
	FetchedAt time.Time    `json:"fetched_at"`
}

// SectionType represents different song sections
type SectionType string

const (
	SectionVerse  SectionType = "Куплет"
	SectionChorus SectionType = "Припев"
	SectionBridge SectionType = "Переход"
	SectionIntro  SectionType = "Вступление"
	SectionSolo   SectionType = "Проигрыш"
	SectionOutro  SectionType = "Кода"
)

// ProcessingConfig holds configuration for text processing
type ProcessingConfig struct {
	UnwantedSections []SectionType
}

func (c *ProcessingConfig) skipSections() []string {
	names := make([]string, 0, len(c.UnwantedSections))
	for _, s := range c.UnwantedSections {
		names = append(names, string(s))
	}
	return names
}
