// Package server exposes the HUD over HTTP for renderers and tooling.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osse101/InventoryHUD_Go/internal/handler"
	"github.com/osse101/InventoryHUD_Go/internal/logger"
	"github.com/osse101/InventoryHUD_Go/internal/metrics"
)

// Store is the inventory mirror as the HTTP surface sees it
type Store interface {
	handler.StateReader
	handler.InventoryReader
	handler.Modifiers
}

// Crafting is the queue of the open bench
type Crafting interface {
	handler.CraftQueue
	handler.CraftingStatus
}

// Session is the host session the renderer talks to
type Session interface {
	handler.EventInjector
	handler.SessionInfo
	handler.ContextActions
}

// Deps are the components behind the routes
type Deps struct {
	Store    Store
	Dropper  handler.Dropper
	Crafting Crafting
	Shop     handler.Shop
	Session  Session
	Health   handler.HealthChecker
	Events   http.Handler
}

// Options configure the listener and its middleware
type Options struct {
	Port           int
	APIKey         string
	TrustedProxies []string
	RateLimit      int
	RateWindow     time.Duration
	BridgeMode     string
	Clock          clockwork.Clock
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(opts Options, deps Deps) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           newRouter(opts, deps),
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

func newRouter(opts Options, deps Deps) chi.Router {
	r := chi.NewRouter()
	monitor := NewActivityMonitor(opts.Clock, opts.RateLimit, opts.RateWindow)

	// outermost first
	r.Use(loggingMiddleware)
	r.Use(SecurityHeadersMiddleware())
	r.Use(RateLimitMiddleware(opts.TrustedProxies, monitor))
	r.Use(AuthMiddleware(opts.APIKey, opts.TrustedProxies, monitor))
	r.Use(RequestSizeLimitMiddleware(maxRequestBytes))
	r.Use(metrics.Middleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(deps.Health))
	r.Get("/version", handler.HandleVersion(opts.BridgeMode))
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/state", handler.HandleGetState(deps.Store, deps.Crafting, deps.Shop, deps.Session))
	r.Get("/events", deps.Events.ServeHTTP)
	r.Post("/nui/{"+handler.URLParamEvent+"}", handler.HandleNUIEvent(deps.Session))

	r.Route("/actions", func(r chi.Router) {
		r.Post("/drop", handler.HandleDrop(deps.Dropper, deps.Store))
		r.Post("/split", handler.HandleSplit(deps.Dropper))
		r.Post("/craft", handler.HandleCraft(deps.Crafting))
		r.Post("/craft/{"+handler.URLParamIndex+"}/cancel", handler.HandleCancelCraft(deps.Crafting))
		r.Post("/cart", handler.HandleCart(deps.Shop, deps.Store))
		r.Post("/checkout", handler.HandleCheckout(deps.Shop))
		r.Post("/context", handler.HandleContextAction(deps.Session))
	})

	return r
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Flush keeps the event stream working through the wrapper
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
