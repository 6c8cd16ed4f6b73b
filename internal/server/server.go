// Package server assembles the HTTP handler that serves every splitledger
// service together with health and metrics endpoints.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

// Deps are the collaborators the handler is built from.
type Deps struct {
	Store          storage.Store
	Authenticator  *auth.PasswordAuthenticator
	JWT            *auth.JWTManager
	Registry       *prometheus.Registry
	Logger         *slog.Logger
	AllowedOrigins []string
}

// NewHandler returns the root handler: Connect services, /healthz and /metrics,
// wrapped in request logging and CORS.
func NewHandler(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := middleware.NewMetrics(d.Registry)

	opts := handlerOptions(metrics, d.JWT, logger)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(service.NewAuthService(d.Authenticator, d.JWT, d.Store, logger), opts))
	mux.Handle(apiconnect.NewGroupServiceHandler(service.NewGroupService(d.Store, d.Authenticator, logger), opts))
	mux.Handle(apiconnect.NewEntryServiceHandler(service.NewEntryService(d.Store, logger), opts))
	mux.Handle(apiconnect.NewSplitServiceHandler(service.NewSplitService(d.Store, metrics, logger), opts))

	mux.Handle("GET /metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{Registry: d.Registry}))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	return loggingMiddleware(logger, corsMiddleware(d.AllowedOrigins, mux))
}

// handlerOptions builds the interceptor chain shared by every service.
// Metrics run first so rejected calls are counted; logging runs after auth so
// the acting user is known. Panics are recovered innermost and surface to the
// chain as CodeInternal.
func handlerOptions(metrics *middleware.Metrics, jwt *auth.JWTManager, logger *slog.Logger) connect.HandlerOption {
	return connect.WithHandlerOptions(
		connect.WithInterceptors(
			metrics.Interceptor(),
			middleware.RequireAuth(jwt,
				apiconnect.AuthServiceRegisterProcedure,
				apiconnect.AuthServiceLoginProcedure,
			),
			middleware.LoggingInterceptor(logger),
			middleware.ValidationInterceptor(),
		),
		connect.WithRecover(recoverPanic(logger)),
	)
}

func recoverPanic(logger *slog.Logger) func(context.Context, connect.Spec, http.Header, any) error {
	return func(ctx context.Context, spec connect.Spec, _ http.Header, r any) error {
		logger.ErrorContext(ctx, "Handler panicked",
			"procedure", spec.Procedure,
			"panic", r,
			"stack", string(debug.Stack()),
		)
		return connect.NewError(connect.CodeInternal, errors.New("internal error"))
	}
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logger.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush keeps streaming responses working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// corsMiddleware adds CORS headers for browser access from allowed origins.
// "*" allows any origin.
func corsMiddleware(allowed []string, next http.Handler) http.Handler {
	anyOrigin := slices.Contains(allowed, "*")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (anyOrigin || slices.Contains(allowed, origin)) {
			h := w.Header()
			if anyOrigin {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
			h.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
			h.Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
