// Package server hosts the authgate HTTP API behind the auth middleware.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/samber/mo"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Default timeouts used when none is configured.
const (
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 30 * time.Second
	DefaultIdleTimeout  = 120 * time.Second
)

// Server wraps http.Server with authgate configuration.
type Server struct {
	httpServer *http.Server
	addr       string
}

// NewServer creates a Server. If enableHTTP2 is true, cleartext HTTP/2
// (h2c) is served alongside HTTP/1.1. A present timeout replaces the
// default read and write timeouts.
func NewServer(addr string, handler http.Handler, enableHTTP2 bool, timeout mo.Option[time.Duration]) *Server {
	finalHandler := handler
	if enableHTTP2 {
		finalHandler = h2c.NewHandler(handler, &http2.Server{})
	}

	return &Server{
		addr: addr,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           finalHandler,
			ReadHeaderTimeout: DefaultReadTimeout,
			ReadTimeout:       timeout.OrElse(DefaultReadTimeout),
			WriteTimeout:      timeout.OrElse(DefaultWriteTimeout),
			IdleTimeout:       DefaultIdleTimeout,
		},
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// ListenAndServe starts the server (blocks). It returns nil after Shutdown.
func (s *Server) ListenAndServe() error {
	return ignoreClosed(s.httpServer.ListenAndServe())
}

// Serve accepts connections on l (blocks). It returns nil after Shutdown.
func (s *Server) Serve(l net.Listener) error {
	return ignoreClosed(s.httpServer.Serve(l))
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
