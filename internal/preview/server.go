// Package preview serves the live card registry over HTTP so the
// dashboard can be watched in a browser while `watch` runs.
package preview

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/policyvote/internal/live"
	"github.com/ziadkadry99/policyvote/internal/notice"
	"github.com/ziadkadry99/policyvote/internal/view"
)

// Config holds server configuration.
type Config struct {
	Addr     string
	AllowAll bool // allow all CORS origins
}

// Server renders the registry on every request.
type Server struct {
	cfg        Config
	registry   *view.Registry
	renderer   *view.HTMLRenderer
	notices    *notice.Board
	channel    *live.Channel
	router     chi.Router
	httpServer *http.Server
}

// New creates a preview server. notices and channel may be nil.
func New(cfg Config, registry *view.Registry, renderer *view.HTMLRenderer, notices *notice.Board, channel *live.Channel) *Server {
	s := &Server{
		cfg:      cfg,
		registry: registry,
		renderer: renderer,
		notices:  notices,
		channel:  channel,
	}
	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/", s.handlePage)
	r.Route("/api", func(r chi.Router) {
		r.Get("/cards", s.handleCards)
		r.Get("/cards/{id}", s.handleCard)
		r.Get("/status", s.handleStatus)
	})
	return r
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// Start listens on the configured address until Shutdown. It may run
// on its own goroutine; after Shutdown it returns http.ErrServerClosed.
func (s *Server) Start() error {
	log.Printf("preview: listening on %s", s.cfg.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server. Calling it before Start
// makes a later Start return immediately.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Render(w, s.registry.Cards()); err != nil {
		log.Printf("preview: render: %v", err)
	}
}

type cardJSON struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Status          string   `json:"status"`
	Upvotes         int      `json:"upvotes"`
	Downvotes       int      `json:"downvotes"`
	State           string   `json:"state"`
	ButtonsDisabled bool     `json:"buttons_disabled"`
	Support         *float64 `json:"support,omitempty"`
	Oppose          *float64 `json:"oppose,omitempty"`
	LastError       string   `json:"last_error,omitempty"`
}

func toJSON(c view.Card) cardJSON {
	out := cardJSON{
		ID:              c.Policy.ID,
		Title:           c.Policy.Title,
		Status:          string(c.Policy.Status),
		Upvotes:         c.Policy.Upvotes,
		Downvotes:       c.Policy.Downvotes,
		State:           c.State.String(),
		ButtonsDisabled: c.ButtonsDisabled(),
		LastError:       c.LastError,
	}
	if bar := c.Bar(); !bar.Empty {
		out.Support = &bar.Support
		out.Oppose = &bar.Oppose
	}
	return out
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	cards := s.registry.Cards()
	out := make([]cardJSON, 0, len(cards))
	for _, c := range cards {
		out = append(out, toJSON(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) {
	c, ok := s.registry.Card(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "policy not found"})
		return
	}
	writeJSON(w, http.StatusOK, toJSON(c))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{"cards": s.registry.Len()}
	if s.channel != nil {
		out["live"] = s.channel.State().String()
	}
	if s.notices != nil {
		if n, ok := s.notices.Current(); ok {
			out["notice"] = map[string]string{"kind": string(n.Kind), "message": n.Message}
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("preview: encoding response: %v", err)
	}
}
