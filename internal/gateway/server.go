// internal/gateway/server.go
package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"irisgate/pkg/middleware"
)

// Handler assembles the full middleware chain and route table.
func (g *Gateway) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recover(g.log))
	r.Use(middleware.Tracing())
	r.Use(g.cors)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.HandleFunc("/*", g.dispatch)
	return r
}

// cors attaches the cross-origin headers to every response and short-circuits
// preflight before classification, per the response policy.
func (g *Gateway) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allow := AllowOrigin(r.Header.Get("Origin"), g.apex)
		w.Header().Set("Access-Control-Allow-Origin", allow)
		// The allow-origin value varies with Origin even when it falls back to
		// the wildcard, so shared caches must always key on it.
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
