package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sukalov/hymnal/internal/songs"
	"github.com/sukalov/hymnal/internal/utils/e"
)

var ErrNotFound = errors.New("song not found")

const schema = `
CREATE TABLE IF NOT EXISTS songs (
	language   TEXT    NOT NULL,
	number     INTEGER NOT NULL,
	title      TEXT    NOT NULL,
	song_key   TEXT    NOT NULL,
	lines      TEXT    NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (language, number)
);
CREATE INDEX IF NOT EXISTS songs_language_title ON songs (language, title);
`

const songColumns = `language, number, title, song_key, lines`

// Store keeps songs in a SQL table keyed by language and number.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return nil
}

// Save inserts the song or replaces the one with the same language and number.
func (s *Store) Save(ctx context.Context, song songs.Song) error {
	lines, err := json.Marshal(song.Lines)
	if err != nil {
		return fmt.Errorf("failed to encode lines: %w", err)
	}

	query := `
		INSERT INTO songs (language, number, title, song_key, lines, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (language, number) DO UPDATE SET
			title = excluded.title,
			song_key = excluded.song_key,
			lines = excluded.lines,
			updated_at = excluded.updated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		song.Language,
		song.Number,
		song.Title,
		song.Key,
		string(lines),
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save song %s/%d: %w", song.Language, song.Number, err)
	}
	return nil
}

func (s *Store) GetByNumber(ctx context.Context, language string, number int) (songs.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE language = ? AND number = ?`
	return scanSong(s.db.QueryRowContext(ctx, query, language, number))
}

func (s *Store) GetByTitle(ctx context.Context, language, title string) (songs.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE language = ? AND title = ? ORDER BY number LIMIT 1`
	return scanSong(s.db.QueryRowContext(ctx, query, language, title))
}

// Delete removes one song and returns it.
func (s *Store) Delete(ctx context.Context, language string, number int) (songs.Song, error) {
	song, err := s.GetByNumber(ctx, language, number)
	if err != nil {
		return songs.Song{}, err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM songs WHERE language = ? AND number = ?`, language, number); err != nil {
		return songs.Song{}, fmt.Errorf("failed to delete song %s/%d: %w", language, number, err)
	}
	return song, nil
}

// DeleteEverywhere removes the song with number from every language.
func (s *Store) DeleteEverywhere(ctx context.Context, number int) ([]songs.Song, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `SELECT `+songColumns+` FROM songs WHERE number = ? ORDER BY language`, number)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	removed, err := scanSongs(rows)
	if err != nil {
		return nil, err
	}
	if len(removed) == 0 {
		return nil, ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM songs WHERE number = ?`, number); err != nil {
		return nil, fmt.Errorf("failed to delete song %d: %w", number, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return removed, nil
}

// QueryByTitle returns songs whose title starts with prefix, ordered by title.
func (s *Store) QueryByTitle(ctx context.Context, language, prefix string, skip, limit int) ([]songs.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs
		WHERE language = ? AND title LIKE ? ESCAPE '\'
		ORDER BY title, number LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, language, likePrefix(prefix), limit, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return scanSongs(rows)
}

// QueryByNumber returns songs whose number, written in decimal, starts with prefix.
func (s *Store) QueryByNumber(ctx context.Context, language string, prefix int, skip, limit int) ([]songs.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs
		WHERE language = ? AND CAST(number AS TEXT) LIKE ?
		ORDER BY number LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, language, strconv.Itoa(prefix)+"%", limit, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return scanSongs(rows)
}

// Languages lists the languages that have at least one song.
func (s *Store) Languages(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT language FROM songs ORDER BY language`)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	languages := []string{}
	for rows.Next() {
		var language string
		if err := rows.Scan(&language); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		languages = append(languages, language)
	}
	return languages, e.WrapIfErr("error during rows iteration", rows.Err())
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSong(row scanner) (songs.Song, error) {
	var song songs.Song
	var lines string
	if err := row.Scan(&song.Language, &song.Number, &song.Title, &song.Key, &lines); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return songs.Song{}, ErrNotFound
		}
		return songs.Song{}, fmt.Errorf("error scanning row: %w", err)
	}
	if err := json.Unmarshal([]byte(lines), &song.Lines); err != nil {
		return songs.Song{}, fmt.Errorf("failed to decode lines of %s/%d: %w", song.Language, song.Number, err)
	}
	return song, nil
}

func scanSongs(rows *sql.Rows) ([]songs.Song, error) {
	defer rows.Close()

	result := []songs.Song{}
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return result, nil
}

func likePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix) + "%"
}
