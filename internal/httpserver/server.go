package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dkrasnov/skyportal/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Server wraps http.Server with context-driven lifecycle management.
type Server struct {
	httpServer *http.Server
	log        logging.Logger
}

func NewServer(addr string, handler http.Handler, log logging.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests for up
// to shutdownTimeout before returning.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.log.Info(ctx, "http server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info(ctx, "http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
