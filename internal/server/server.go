// Package server is the HTTP serving mode: a chi router wrapping the
// streamable MCP handler, with request logging and optional API-key auth.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	router chi.Router
	log    *slog.Logger
}

// New creates a Server exposing the given MCP server at /mcp. When apiKey is
// non-empty, MCP requests must carry it in the X-API-Key header; /healthz is
// always open.
func New(mcp *mcpserver.MCPServer, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    log,
	}
	s.routes(mcp, apiKey)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes(mcp *mcpserver.MCPServer, apiKey string) {
	s.router.Use(RequestID)
	s.router.Use(RequestLogging(s.log))

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	streamable := mcpserver.NewStreamableHTTPServer(mcp)
	s.router.Group(func(r chi.Router) {
		if apiKey != "" {
			r.Use(APIKeyAuth(apiKey))
		}
		r.Handle("/mcp", streamable)
		r.Handle("/mcp/*", streamable)
	})
}
