package httpbase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"
)

const shutdownTimeout = 5 * time.Second

// GracefulServer implements an HTTP server with graceful shutdown.
// Graceful shutdown is actually hard to implement correctly
// due to an API design flaw of the Go http package,
// ref: https://nanmu.me/zh-cn/posts/2021/go-http-server-shudown-done-right/
type GracefulServer struct {
	server *http.Server
}

type GraceServerOpt struct {
	Host string
	Port int
}

// NewGracefulServer returns a server with graceful shutdown
func NewGracefulServer(opt GraceServerOpt, handler http.Handler) (server *GracefulServer) {
	server = &GracefulServer{
		server: &http.Server{
			Addr:              net.JoinHostPort(opt.Host, strconv.Itoa(opt.Port)),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
	return
}

func (s *GracefulServer) Addr() string {
	return s.server.Addr
}

// Run starts the http server and blocks until SIGINT or SIGTERM.
func (s *GracefulServer) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.Serve(ctx)
}

// Serve starts the http server and blocks until ctx is done or listening fails.
// In-flight requests get a few seconds to finish.
func (s *GracefulServer) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.server.Addr, err)
	}
	return s.serve(ctx, ln)
}

func (s *GracefulServer) serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	// Initializing the server in a goroutine so that
	// it won't block the graceful shutdown handling below
	go func() {
		slog.Info("http server started", slog.String("addr", ln.Addr().String()))
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("listen failed", slog.Any("error", err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down gracefully, press Ctrl+C again to force")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server failed to shutdown", slog.Any("error", err))
		return err
	}

	slog.Info("server stopped")
	return nil
}
