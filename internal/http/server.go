package http

import (
	"github.com/gin-gonic/gin"

	"github.com/verdantstack/farmops-backend/internal/platform/logger"
)

// Server owns the configured gin engine and is the single listen entry
// point for the API.
type Server struct {
	engine *gin.Engine
	log    *logger.Logger
}

func NewServer(cfg RouterConfig) *Server {
	return &Server{engine: NewRouter(cfg), log: cfg.Log}
}

// Engine exposes the underlying handler for tests and embedding.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) Run(address string) error {
	if s.log != nil {
		s.log.Info("HTTP server listening", "address", address)
	}
	return s.engine.Run(address)
}
