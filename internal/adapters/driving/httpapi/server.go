// Package httpapi exposes the question answering pipeline over HTTP.
//
// Paths and JSON field names are stable; browser and Streamlit front-ends
// depend on them:
//
//	GET  /                   HTML index of the endpoints
//	POST /upload-documents/  multipart form, one or more "files" parts
//	POST /ask/               form field "question"
//	GET  /status/            service status
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Upload limits.
const (
	DefaultMaxUploadBytes = 100 << 20
	multipartMemory       = 32 << 20
)

// ErrMissingRAGService is returned when no pipeline is provided.
var ErrMissingRAGService = errors.New("httpapi: rag service is required")

// Server serves the HTTP API.
type Server struct {
	rag            driving.RAGService
	maxUploadBytes int64
	handler        http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithMaxUploadBytes caps the size of an upload request body.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// NewServer creates the API server.
func NewServer(rag driving.RAGService, opts ...Option) (*Server, error) {
	if rag == nil {
		return nil, ErrMissingRAGService
	}

	s := &Server{
		rag:            rag,
		maxUploadBytes: DefaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /upload-documents/{$}", s.handleUpload)
	mux.HandleFunc("POST /upload-documents", s.handleUpload)
	mux.HandleFunc("POST /ask/{$}", s.handleAsk)
	mux.HandleFunc("POST /ask", s.handleAsk)
	mux.HandleFunc("GET /status/{$}", s.handleStatus)
	mux.HandleFunc("GET /status", s.handleStatus)

	s.handler = withRequestID(withCORS(mux))
	return s, nil
}

// Handler returns the API handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves on addr until ctx is cancelled or the listener fails.
func (s *Server) Run(ctx context.Context, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown: %v", err)
		}
	}()

	logger.Info("HTTP API listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
