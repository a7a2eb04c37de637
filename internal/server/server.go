// Package server exposes the hymns service and the editor codec over HTTP.
package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sukalov/hymnal/internal/hymns"
	"github.com/sukalov/hymnal/internal/logger"
	"github.com/sukalov/hymnal/internal/lyrics"
	"github.com/sukalov/hymnal/internal/songs"
)

// Songs is the part of hymns.Service the server calls.
type Songs interface {
	AddSong(ctx context.Context, song songs.Song) (songs.Song, error)
	UpdateSong(ctx context.Context, language string, number int, partial songs.PartialSong) (songs.Song, error)
	DeleteSong(ctx context.Context, language string, number int) ([]songs.Song, error)
	GetSongByNumber(ctx context.Context, language string, number int) (songs.Song, error)
	QuerySongsByTitle(ctx context.Context, language, q string, skip, limit int) (songs.PaginatedResponse, error)
	QuerySongsByNumber(ctx context.Context, language string, q, skip, limit int) (songs.PaginatedResponse, error)
	GetSongByTitle(ctx context.Context, language, title string) (songs.Song, error)
	Languages(ctx context.Context) ([]string, error)
}

// Drafts keeps unsubmitted editor content between requests.
type Drafts interface {
	SaveDraft(ctx context.Context, sessionID, html string) error
	GetDraft(ctx context.Context, sessionID string) (string, bool, error)
	DeleteDraft(ctx context.Context, sessionID string) error
}

// Importer reads songs from chord sites.
type Importer interface {
	Import(ctx context.Context, url string) (*lyrics.Result, error)
}

var _ Songs = (*hymns.Service)(nil)

type Server struct {
	songs      Songs
	drafts     Drafts
	importer   Importer
	adminToken string
	engine     *gin.Engine
}

// New builds the router. Admin routes answer 401 to every request when
// adminToken is empty. drafts and importer may be nil, in which case their
// routes answer 503.
func New(songs Songs, drafts Drafts, importer Importer, adminToken string) *Server {
	s := &Server{
		songs:      songs,
		drafts:     drafts,
		importer:   importer,
		adminToken: adminToken,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.SetHTMLTemplate(template.Must(template.New("edit").Parse(editPage)))

	api := r.Group("/api")
	api.GET("/languages", s.listLanguages)
	api.GET("/:language/search", s.searchSongs)
	api.GET("/:language/title/:title", s.getSongByTitle)
	api.GET("/:language/:number", s.getSong)

	admin := r.Group("/admin", s.requireAdmin)
	admin.POST("/", s.createSong)
	admin.PUT("/:language/:number", s.updateSong)
	admin.DELETE("/:language/:number", s.deleteSong)
	admin.GET("/:language/:number/edit", s.editSong)

	admin.POST("/editor/annotate", s.annotate)
	admin.POST("/editor/decode", s.decode)
	admin.POST("/import", s.importSong)

	admin.POST("/drafts", s.createDraft)
	admin.PUT("/drafts/:id", s.saveDraft)
	admin.GET("/drafts/:id", s.getDraft)
	admin.DELETE("/drafts/:id", s.deleteDraft)

	s.engine = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("HTTP server listening on %s", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requireAdmin(c *gin.Context) {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if s.adminToken == "" || !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Next()
}
