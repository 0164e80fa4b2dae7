// Package api serves section presentations over HTTP.
package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"sectionview/internal/editor"
	"sectionview/internal/netz"
)

// Presenter is the part of the editor manager the handlers use.
type Presenter interface {
	Present(ctx context.Context, req editor.Request) (*editor.Presentation, error)
	Network() *netz.Network
	LoadedAt() time.Time
}

type Options struct {
	Presenter   Presenter
	Metrics     http.Handler // mounted on /metrics when set
	CORSOrigins []string
	// OnPresent is called with every successful presentation, e.g. to
	// broadcast it over NATS.
	OnPresent func(*editor.Presentation)
}

func NewRouter(opts Options) http.Handler {
	h := &Handler{presenter: opts.Presenter, onPresent: opts.OnPresent}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/healthz", h.Health)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}
	r.Route("/api/sections/{sectionId}", func(r chi.Router) {
		r.Get("/presentation", h.GetPresentation)
		r.Post("/presentation", h.PostPresentation)
	})
	return r
}

// Serve starts srv in the background and shuts it down when ctx ends.
func Serve(ctx context.Context, addr string, handler http.Handler) *http.Server {
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http server error: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	return srv
}
