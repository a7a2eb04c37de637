package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sukalov/hymnal/internal/redis"
)

var errDraftNotFound = errors.New("draft not found")

type draft struct {
	ID   string `json:"id"`
	HTML string `json:"html"`
}

func (s *Server) bindDraft(c *gin.Context) (draft, bool) {
	if s.drafts == nil {
		writeError(c, errUnavailable)
		return draft{}, false
	}
	var d draft
	if err := c.ShouldBindJSON(&d); err != nil {
		badRequest(c, "invalid draft payload")
		return draft{}, false
	}
	return d, true
}

func (s *Server) createDraft(c *gin.Context) {
	d, ok := s.bindDraft(c)
	if !ok {
		return
	}
	d.ID = redis.NewSessionID()
	if err := s.drafts.SaveDraft(c.Request.Context(), d.ID, d.HTML); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (s *Server) saveDraft(c *gin.Context) {
	d, ok := s.bindDraft(c)
	if !ok {
		return
	}
	d.ID = c.Param("id")
	if err := s.drafts.SaveDraft(c.Request.Context(), d.ID, d.HTML); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (s *Server) getDraft(c *gin.Context) {
	if s.drafts == nil {
		writeError(c, errUnavailable)
		return
	}
	html, ok, err := s.drafts.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": errDraftNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, draft{ID: c.Param("id"), HTML: html})
}

func (s *Server) deleteDraft(c *gin.Context) {
	if s.drafts == nil {
		writeError(c, errUnavailable)
		return
	}
	if err := s.drafts.DeleteDraft(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
