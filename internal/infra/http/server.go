package http

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Server owns the listening socket. Shutdown is abrupt by contract: Close drops
// in-flight requests instead of draining them.
type Server struct {
	server *http.Server
	log    *zerolog.Logger

	mu sync.Mutex
	ln net.Listener
}

func NewServer(port int, handler http.Handler, logger *zerolog.Logger) *Server {
	compLog := logger.With().Str("component", "listener").Logger()
	return &Server{
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: &compLog,
	}
}

// Listen binds the port so bind errors surface before Serve runs in the background.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.server.Addr, err)
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	s.log.Info().Str("addr", ln.Addr().String()).Msg("HTTP server listening")
	return nil
}

// Serve blocks until Close; it returns nil after a normal close.
func (s *Server) Serve() error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		return errors.New("http server: Serve called before Listen")
	}
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return s.server.Addr
	}
	return s.ln.Addr().String()
}

func (s *Server) Close() error {
	s.log.Info().Msg("HTTP server closing")
	return s.server.Close()
}
