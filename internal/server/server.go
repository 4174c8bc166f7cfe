package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/illarion/sealnote/internal/logging"
)

// Timeouts for Run; zero values fall back to the defaults below
type Timeouts struct {
	Read     time.Duration
	Write    time.Duration
	Shutdown time.Duration
}

const (
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Run serves handler on addr until ctx is cancelled, then shuts down
// gracefully. It returns nil after a clean shutdown.
func Run(ctx context.Context, addr string, handler http.Handler, timeouts Timeouts, log *slog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return Serve(ctx, ln, handler, timeouts, log)
}

// Serve is Run on an existing listener
func Serve(ctx context.Context, ln net.Listener, handler http.Handler, timeouts Timeouts, log *slog.Logger) error {
	if log == nil {
		log = logging.Discard()
	}
	if timeouts.Read <= 0 {
		timeouts.Read = DefaultReadTimeout
	}
	if timeouts.Write <= 0 {
		timeouts.Write = DefaultWriteTimeout
	}
	if timeouts.Shutdown <= 0 {
		timeouts.Shutdown = DefaultShutdownTimeout
	}

	srv := &http.Server{
		Handler:           handler,
		ReadTimeout:       timeouts.Read,
		ReadHeaderTimeout: timeouts.Read,
		WriteTimeout:      timeouts.Write,
		IdleTimeout:       2 * timeouts.Write,
	}

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		log.InfoContext(ctx, "starting server", slog.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	eg.Go(func() error {
		<-egCtx.Done()

		log.Info("shutting down server gracefully", slog.Duration("timeout", timeouts.Shutdown))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", logging.Error(err))
			return err
		}
		log.Info("server shutdown complete")
		return nil
	})

	return eg.Wait()
}
