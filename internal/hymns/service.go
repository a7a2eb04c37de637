package hymns

import (
	"context"
	"fmt"

	"github.com/sukalov/hymnal/internal/db"
	"github.com/sukalov/hymnal/internal/logger"
	"github.com/sukalov/hymnal/internal/songs"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

var ErrNotFound = db.ErrNotFound

type Store interface {
	Save(ctx context.Context, song songs.Song) error
	GetByNumber(ctx context.Context, language string, number int) (songs.Song, error)
	GetByTitle(ctx context.Context, language, title string) (songs.Song, error)
	Delete(ctx context.Context, language string, number int) (songs.Song, error)
	DeleteEverywhere(ctx context.Context, number int) ([]songs.Song, error)
	QueryByTitle(ctx context.Context, language, prefix string, skip, limit int) ([]songs.Song, error)
	QueryByNumber(ctx context.Context, language string, prefix, skip, limit int) ([]songs.Song, error)
	Languages(ctx context.Context) ([]string, error)
}

type Cache interface {
	CacheSong(ctx context.Context, song songs.Song) error
	CachedSong(ctx context.Context, language string, number int) (songs.Song, bool, error)
	InvalidateSong(ctx context.Context, language string, number int) error
}

// Service stores and looks up hymns. The cache is optional.
type Service struct {
	store Store
	cache Cache
}

func NewService(store Store, cache Cache) *Service {
	return &Service{store: store, cache: cache}
}

// AddSong validates and saves song, replacing any song with the same
// language and number.
func (s *Service) AddSong(ctx context.Context, song songs.Song) (songs.Song, error) {
	if err := songs.Validate(song); err != nil {
		return songs.Song{}, err
	}
	if err := s.store.Save(ctx, song); err != nil {
		logger.Error(fmt.Sprintf("AddSong: failed to save %s/%d\nError: %v", song.Language, song.Number, err))
		return songs.Song{}, err
	}
	s.invalidate(ctx, song.Language, song.Number)
	logger.Success(fmt.Sprintf("AddSong: saved %s/%d %q (%d lines)", song.Language, song.Number, song.Title, len(song.Lines)))
	return song, nil
}

// UpdateSong merges partial into the stored song and saves the result.
func (s *Service) UpdateSong(ctx context.Context, language string, number int, partial songs.PartialSong) (songs.Song, error) {
	original, err := s.store.GetByNumber(ctx, language, number)
	if err != nil {
		return songs.Song{}, err
	}
	return s.AddSong(ctx, partial.Apply(original))
}

// DeleteSong removes the song from one language, or from all of them when
// language is empty.
func (s *Service) DeleteSong(ctx context.Context, language string, number int) ([]songs.Song, error) {
	var removed []songs.Song
	if language == "" {
		all, err := s.store.DeleteEverywhere(ctx, number)
		if err != nil {
			return nil, err
		}
		removed = all
	} else {
		song, err := s.store.Delete(ctx, language, number)
		if err != nil {
			return nil, err
		}
		removed = []songs.Song{song}
	}

	for _, song := range removed {
		s.invalidate(ctx, song.Language, song.Number)
	}
	logger.Info(fmt.Sprintf("DeleteSong: removed %d song(s) numbered %d", len(removed), number))
	return removed, nil
}

func (s *Service) GetSongByNumber(ctx context.Context, language string, number int) (songs.Song, error) {
	if s.cache != nil {
		song, ok, err := s.cache.CachedSong(ctx, language, number)
		if err != nil {
			logger.Error(fmt.Sprintf("GetSongByNumber: cache lookup failed for %s/%d\nError: %v", language, number, err))
		} else if ok {
			return song, nil
		}
	}

	song, err := s.store.GetByNumber(ctx, language, number)
	if err != nil {
		return songs.Song{}, err
	}

	if s.cache != nil {
		if err := s.cache.CacheSong(ctx, song); err != nil {
			logger.Error(fmt.Sprintf("GetSongByNumber: failed to cache %s/%d\nError: %v", language, number, err))
		}
	}
	return song, nil
}

func (s *Service) GetSongByTitle(ctx context.Context, language, title string) (songs.Song, error) {
	return s.store.GetByTitle(ctx, language, title)
}

func (s *Service) QuerySongsByTitle(ctx context.Context, language, q string, skip, limit int) (songs.PaginatedResponse, error) {
	skip, limit = page(skip, limit)
	data, err := s.store.QueryByTitle(ctx, language, q, skip, limit)
	if err != nil {
		return songs.PaginatedResponse{}, err
	}
	return songs.PaginatedResponse{Skip: skip, Limit: limit, Data: data}, nil
}

func (s *Service) QuerySongsByNumber(ctx context.Context, language string, q, skip, limit int) (songs.PaginatedResponse, error) {
	skip, limit = page(skip, limit)
	data, err := s.store.QueryByNumber(ctx, language, q, skip, limit)
	if err != nil {
		return songs.PaginatedResponse{}, err
	}
	return songs.PaginatedResponse{Skip: skip, Limit: limit, Data: data}, nil
}

func (s *Service) Languages(ctx context.Context) ([]string, error) {
	return s.store.Languages(ctx)
}

func (s *Service) invalidate(ctx context.Context, language string, number int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSong(ctx, language, number); err != nil {
		logger.Error(fmt.Sprintf("failed to invalidate cached song %s/%d\nError: %v", language, number, err))
	}
}

func page(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return skip, limit
}
