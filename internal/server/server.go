// Package server exposes retrieval, scoring, and statistics over HTTP.
package server

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/vestalabs/vesta/internal/corpus"
	"github.com/vestalabs/vesta/internal/model"
	"github.com/vestalabs/vesta/internal/retrieve"
	"github.com/vestalabs/vesta/internal/score"
	"github.com/vestalabs/vesta/internal/stats"
)

// Server wires the HTTP API over an injected corpus handle.
type Server struct {
	cfg       model.ServerConfig
	store     *corpus.Store
	retriever *retrieve.Retriever
	assessor  *score.Assessor
	stats     *stats.Service
	defaultK  int
	engine    *gin.Engine
}

// New creates a configured server.
func New(cfg *model.Config, store *corpus.Store, statsSvc *stats.Service) *Server {
	s := &Server{
		cfg:       cfg.Server,
		store:     store,
		retriever: retrieve.NewRetriever(store),
		assessor:  score.NewAssessor(store),
		stats:     statsSvc,
		defaultK:  cfg.Retrieval.DefaultK,
	}
	s.engine = s.router()
	return s
}

func (s *Server) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())
	r.Use(rateLimit(s.cfg.RequestsPerSecond, s.cfg.Burst))

	r.GET("/healthz", s.handleHealth)

	api := r.Group("/api/v1")
	api.GET("/evidence", s.handleEvidence)
	api.POST("/site-risk", s.handleSiteRisk)
	api.GET("/stats", s.handleAllStats)
	api.GET("/stats/:category", s.handleCategoryStats)

	return r
}

// Run blocks serving HTTP until the listener fails.
func (s *Server) Run() error {
	slog.Info("serving", "addr", s.cfg.Addr)
	return s.engine.Run(s.cfg.Addr)
}
