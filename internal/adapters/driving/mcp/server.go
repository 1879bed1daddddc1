// Package mcp exposes the lifelog archive over the Model Context Protocol
// so AI assistants can search and read entries directly.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driving"
)

const (
	serverName    = "pensieve"
	serverVersion = "0.1.0"

	shutdownGrace = 5 * time.Second
)

// ErrNilSearcher is returned by New when no search service is supplied.
var ErrNilSearcher = errors.New("mcp: search service must not be nil")

// Server bridges the driving ports onto an MCP session. Search is
// mandatory; entry access and ingestion are wired in through options
// and their tools are only advertised when present.
type Server struct {
	search  driving.SearchService
	entries driving.EntryService
	ingest  driving.IngestOrchestrator

	impl *mcp.Server
}

// Option configures optional capabilities on a Server.
type Option func(*Server)

// WithEntries enables the entry retrieval tools and archive resources.
func WithEntries(svc driving.EntryService) Option {
	return func(s *Server) { s.entries = svc }
}

// WithIngest enables the on-demand sync tool.
func WithIngest(orc driving.IngestOrchestrator) Option {
	return func(s *Server) { s.ingest = orc }
}

// New builds a Server around the given search service and options.
func New(search driving.SearchService, opts ...Option) (*Server, error) {
	if search == nil {
		return nil, ErrNilSearcher
	}

	s := &Server{search: search}
	for _, opt := range opts {
		opt(s)
	}

	s.impl = mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, nil)

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve speaks the protocol over stdio until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	return s.impl.Run(ctx, &mcp.StdioTransport{})
}

// ListenAndServe exposes the server as streamable HTTP on addr. It
// blocks until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.impl
	}, nil)

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("mcp http listener: %w", err)
	}
	return nil
}
