package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sukalov/hymnal/internal/editor"
	"github.com/sukalov/hymnal/internal/songs"
)

type annotateRequest struct {
	HTML      string `json:"html"`
	Selection struct {
		Text  string `json:"text"`
		Start int    `json:"start"`
	} `json:"selection"`
	Tone string `json:"tone"`
}

type editorResponse struct {
	HTML  string       `json:"html"`
	Lines []songs.Line `json:"lines"`
}

// annotate applies a tone to the selection and returns the editor's new
// inner HTML together with its decoded lines.
func (s *Server) annotate(c *gin.Context) {
	var req annotateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid annotate payload")
		return
	}

	root, err := editor.ParseString(req.HTML)
	if err != nil {
		writeError(c, err)
		return
	}
	sel := editor.Selection{Text: req.Selection.Text, Start: req.Selection.Start}
	if err := editor.Encode(root, sel, req.Tone); err != nil {
		writeError(c, err)
		return
	}

	inner, err := editor.InnerHTML(root)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, editorResponse{HTML: inner, Lines: editor.Decode(root)})
}

func (s *Server) decode(c *gin.Context) {
	var req struct {
		HTML string `json:"html"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid decode payload")
		return
	}
	lines, err := editor.DecodeString(req.HTML)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lines": lines})
}

// importSong fetches a chord sheet and returns it as an unsaved song with
// its editor markup.
func (s *Server) importSong(c *gin.Context) {
	if s.importer == nil {
		writeError(c, errUnavailable)
		return
	}
	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "url is required")
		return
	}

	res, err := s.importer.Import(c.Request.Context(), req.URL)
	if err != nil {
		writeError(c, err)
		return
	}
	inner, err := editor.InnerHTML(editor.Render(res.Lines))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"song": res.Song(), "source": res.Source, "html": inner})
}
