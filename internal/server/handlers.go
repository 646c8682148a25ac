package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vestalabs/vesta/internal/corpus"
	"github.com/vestalabs/vesta/internal/model"
)

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.store.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "corpus unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleEvidence(c *gin.Context) {
	label := c.Query("label")
	if label == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "label is required"})
		return
	}
	category := c.Query("category")

	k := s.defaultK
	if raw := c.Query("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "k must be a positive integer"})
			return
		}
		k = n
	}

	results, err := s.retriever.Retrieve(c.Request.Context(), label, category, k)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"label": label, "category": category, "results": results})
}

// siteRiskRequest is the POST /site-risk body.
type siteRiskRequest struct {
	Hazards model.Registry `json:"hazards"`
}

func (s *Server) handleSiteRisk(c *gin.Context) {
	var req siteRiskRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := s.assessor.Assess(c.Request.Context(), req.Hazards)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleAllStats(c *gin.Context) {
	all, err := s.stats.All(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": all})
}

func (s *Server) handleCategoryStats(c *gin.Context) {
	category := c.Param("category")
	st, ok, err := s.stats.Category(c.Request.Context(), category)
	if err != nil {
		s.fail(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown category"})
		return
	}
	c.JSON(http.StatusOK, st)
}

// fail maps a corpus failure to 503 and everything else to 500.
func (s *Server) fail(c *gin.Context, err error) {
	slog.Error("request failed", "path", c.Request.URL.Path, "error", err)
	if errors.Is(err, corpus.ErrUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "corpus unavailable"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
