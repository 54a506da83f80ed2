package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/codescope-ai/codescope/internal/config"
	"github.com/codescope-ai/codescope/internal/indexer"
	"github.com/codescope-ai/codescope/internal/llm"
	"github.com/codescope-ai/codescope/internal/retriever"
)

// Server exposes indexing and retrieval over HTTP.
type Server struct {
	cfg        *config.Config
	indexer    *indexer.Service
	retriever  *retriever.Retriever
	chat       llm.Provider
	logger     *zap.Logger
	router     chi.Router
	httpServer *http.Server
}

// New wires the API server. chat may be nil; the chat endpoint then
// reports that no model is configured.
func New(cfg *config.Config, idx *indexer.Service, ret *retriever.Retriever, chat llm.Provider, logger *zap.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		indexer:   idx,
		retriever: ret,
		chat:      chat,
		logger:    logger,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", handleHealth(s.cfg))
	r.Post("/index", handleIndexStart(s.indexer, s.cfg, s.logger))
	r.Get("/index/status", handleIndexStatus(s.indexer, s.cfg))
	r.Delete("/index", handleIndexClear(s.indexer, s.logger))
	r.Post("/search", handleSearch(s.retriever))
	r.Post("/chat", handleChat(s.retriever, s.chat, s.cfg.ChatModel))

	return r
}

// Router returns the chi router, used by tests.
func (s *Server) Router() chi.Router { return s.router }

// Start listens on the configured port until the server is shut down.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("server listening", zap.String("addr", addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
