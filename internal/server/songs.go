package server

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sukalov/hymnal/internal/editor"
	"github.com/sukalov/hymnal/internal/songs"
)

func songRef(c *gin.Context) (string, int, bool) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number <= 0 {
		badRequest(c, fmt.Sprintf("number %q is not a whole number", c.Param("number")))
		return "", 0, false
	}
	return c.Param("language"), number, true
}

func (s *Server) getSong(c *gin.Context) {
	language, number, ok := songRef(c)
	if !ok {
		return
	}
	song, err := s.songs.GetSongByNumber(c.Request.Context(), language, number)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, song)
}

func (s *Server) getSongByTitle(c *gin.Context) {
	song, err := s.songs.GetSongByTitle(c.Request.Context(), c.Param("language"), c.Param("title"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, song)
}

func (s *Server) listLanguages(c *gin.Context) {
	languages, err := s.songs.Languages(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, languages)
}

// searchSongs looks songs up by title prefix, or by number prefix when
// number is given instead.
func (s *Server) searchSongs(c *gin.Context) {
	var query struct {
		Title  string `form:"title"`
		Number *int   `form:"number"`
		Skip   int    `form:"skip"`
		Limit  int    `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, "invalid query parameters")
		return
	}

	ctx, language := c.Request.Context(), c.Param("language")
	var (
		res songs.PaginatedResponse
		err error
	)
	switch {
	case query.Number != nil:
		res, err = s.songs.QuerySongsByNumber(ctx, language, *query.Number, query.Skip, query.Limit)
	case query.Title != "":
		res, err = s.songs.QuerySongsByTitle(ctx, language, query.Title, query.Skip, query.Limit)
	default:
		badRequest(c, "title or number is required")
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) createSong(c *gin.Context) {
	var song songs.Song
	if err := c.ShouldBindJSON(&song); err != nil {
		badRequest(c, "invalid song payload")
		return
	}
	saved, err := s.songs.AddSong(c.Request.Context(), song)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Redirect(http.StatusFound, editPath(saved.Language, saved.Number))
}

func (s *Server) updateSong(c *gin.Context) {
	language, number, ok := songRef(c)
	if !ok {
		return
	}
	var partial songs.PartialSong
	if err := c.ShouldBindJSON(&partial); err != nil {
		badRequest(c, "invalid song payload")
		return
	}
	song, err := s.songs.UpdateSong(c.Request.Context(), language, number, partial)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, song)
}

// deleteSong removes one language's song, or every language's song with
// the number when everywhere=true.
func (s *Server) deleteSong(c *gin.Context) {
	language, number, ok := songRef(c)
	if !ok {
		return
	}
	if everywhere, _ := strconv.ParseBool(c.Query("everywhere")); everywhere {
		language = ""
	}
	removed, err := s.songs.DeleteSong(c.Request.Context(), language, number)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, removed)
}

type editView struct {
	Song   songs.Song
	Editor template.HTML
}

func (s *Server) editSong(c *gin.Context) {
	language, number, ok := songRef(c)
	if !ok {
		return
	}
	song, err := s.songs.GetSongByNumber(c.Request.Context(), language, number)
	if err != nil {
		writeError(c, err)
		return
	}
	markup, err := editor.OuterHTML(editor.Render(song.Lines))
	if err != nil {
		writeError(c, err)
		return
	}
	c.HTML(http.StatusOK, "edit", editView{Song: song, Editor: template.HTML(markup)})
}

func editPath(language string, number int) string {
	return fmt.Sprintf("/admin/%s/%d/edit", url.PathEscape(language), number)
}
