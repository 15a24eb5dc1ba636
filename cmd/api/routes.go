package main

import (
	"net/http"
	"sync/atomic"

	"bookrest/internal/book"
	"bookrest/internal/config"
	"bookrest/internal/httpx"

	"go.uber.org/zap"
)

func newRouter(bookHandler *book.HTTPHandler, ready *atomic.Bool) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !ready.Load() {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	bookHandler.Register(router)
	return router
}

// withMiddleware wraps h in the request pipeline. The returned limiter must be
// closed on shutdown.
func withMiddleware(h http.Handler, cfg config.Config, logger *zap.Logger) (http.Handler, *httpx.RateLimitMiddleware) {
	limiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)
	return httpx.Chain(h,
		httpx.RecoveryMiddleware(logger),
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(logger),
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.CORSMiddleware(cfg.AllowedOrigins),
		limiter.Middleware,
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
	), limiter
}
