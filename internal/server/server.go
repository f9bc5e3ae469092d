package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/neboloop/cryptoportal/internal/config"
	"github.com/neboloop/cryptoportal/internal/handler"
	"github.com/neboloop/cryptoportal/internal/handler/auth"
	"github.com/neboloop/cryptoportal/internal/logging"
	"github.com/neboloop/cryptoportal/internal/middleware"
	"github.com/neboloop/cryptoportal/internal/svc"
	"github.com/neboloop/cryptoportal/internal/web"
)

// ServerOptions holds optional dependencies for the server
type ServerOptions struct {
	SvcCtx   *svc.ServiceContext // Pre-initialized service context
	Quiet    bool                // Suppress access logs and startup messages
	Listener net.Listener        // Serve on this listener instead of binding c.Addr()
}

// Run starts the web front end with the given configuration.
// It blocks until the context is cancelled or the server fails.
func Run(ctx context.Context, c config.Config, opts ...ServerOptions) error {
	var o ServerOptions
	if len(opts) > 0 {
		o = opts[0]
	}

	svcCtx := o.SvcCtx
	if svcCtx == nil {
		var err error
		svcCtx, err = svc.NewServiceContext(c)
		if err != nil {
			return err
		}
	}

	ln := o.Listener
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", c.Addr())
		if err != nil {
			return fmt.Errorf("listen on %s: %w", c.Addr(), err)
		}
	}

	httpServer := &http.Server{
		Handler:           NewRouter(svcCtx, o.Quiet),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if !o.Quiet {
		logging.Infof("Server ready at http://%s%s", ln.Addr(), web.ResetPath)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	if !o.Quiet {
		logging.Info("Shutting down server gracefully...")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// NewRouter builds the HTTP routes of the web front end.
func NewRouter(svcCtx *svc.ServiceContext, quiet bool) http.Handler {
	c := svcCtx.Config
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if !quiet {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)

	r.Get("/health", handler.HealthCheckHandler(svcCtx))

	r.Group(func(r chi.Router) {
		if c.IsSecurityHeadersEnabled() {
			r.Use(middleware.Security(middleware.PageSecurityHeaders(c.Security.ContentSecurityPolicy)))
		}
		r.Get(web.ResetPath, auth.ResetPasswordPageHandler(svcCtx))

		// Submissions with stricter rate limiting
		r.Group(func(r chi.Router) {
			if c.IsRateLimitEnabled() {
				authLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
					Requests: c.Security.AuthRateLimitRequests,
					Interval: time.Duration(c.Security.AuthRateLimitInterval) * time.Second,
				})
				r.Use(authLimiter.Middleware())
			}
			r.Post(web.ResetPath, auth.ResetPasswordHandler(svcCtx))
		})
	})

	return r
}
