// Package server exposes the mirror over HTTP.
package server

import (
	"context"
	"net/http"
	"sync/atomic"

	"mirarr/internal/contracts"
	"mirarr/internal/downloads"
	"mirarr/internal/syncer"
	"mirarr/internal/utils/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server wires the store, orchestrator and download manager into HTTP
// handlers. One sync may run at a time; syncing guards concurrent starts.
type Server struct {
	store   contracts.Store
	orch    *syncer.Orchestrator
	dl      *downloads.Manager
	syncing atomic.Bool
}

// New returns a server over the given dependencies.
func New(store contracts.Store, orch *syncer.Orchestrator, dl *downloads.Manager) *Server {
	return &Server{
		store: store,
		orch:  orch,
		dl:    dl,
	}
}

// Router returns the HTTP handler with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/channel", s.handleGetChannel)

		r.Route("/videos", func(r chi.Router) {
			r.Get("/", s.handleListVideos)
			r.Post("/download-all", s.handleDownloadAll)
			r.Get("/{id}", s.handleGetVideo)
			r.Get("/{id}/comments", s.handleListComments)
			r.Get("/{id}/comments/export", s.handleExportComments)
			r.Post("/{id}/download", s.handleDownloadVideo)
		})

		r.Route("/search", func(r chi.Router) {
			r.Get("/videos", s.handleSearchVideos)
			r.Get("/comments", s.handleSearchComments)
		})

		r.Route("/sync", func(r chi.Router) {
			r.Get("/status", s.handleSyncStatus)
			r.Post("/start", s.handleSyncStart)
		})

		r.Route("/downloads", func(r chi.Router) {
			r.Get("/status", s.handleDownloadsStatus)
			r.Delete("/queue", s.handleClearQueue)
		})
	})

	// Serve downloaded media files directly.
	r.Handle("/downloads/*", http.StripPrefix("/downloads/",
		http.FileServer(http.Dir(s.dl.Dir()))))

	return r
}

// StartSync begins a sync run in the background if none is active.
// Returns false when a run is already in flight.
func (s *Server) StartSync(full bool) bool {
	if !s.syncing.CompareAndSwap(false, true) {
		return false
	}

	go func() {
		defer s.syncing.Store(false)

		ctx := context.Background()
		var err error
		if full {
			_, err = s.orch.FullSync(ctx)
		} else {
			_, err = s.orch.IncrementalSync(ctx)
		}
		if err != nil {
			logging.E("Background sync failed: %v", err)
		}
	}()

	return true
}

// Syncing reports whether a sync run is in flight.
func (s *Server) Syncing() bool {
	return s.syncing.Load()
}
