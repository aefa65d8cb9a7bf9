// Package web serves the JSON API behind the parts search page: catalog
// search and export, upload reconciliation and manual matching.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"partsearch/internal"
	"partsearch/internal/catalog"
	"partsearch/internal/config"
	"partsearch/internal/logging"
	"partsearch/internal/reconcile"
	"partsearch/internal/web/middleware"
)

// CatalogLoader produces a fresh catalog index.
type CatalogLoader interface {
	Load(ctx context.Context) (*catalog.Index, error)
}

// AuditStore keeps the history of reconciled uploads.
type AuditStore interface {
	InsertRun(run internal.RunRecord) error
	InsertManualMatch(traceID string, m internal.ManualMatch) error
	ListRuns(limit int) ([]internal.RunRecord, error)
	GetRun(traceID string) (*internal.RunRecord, error)
	ListManualMatches(traceID string) ([]internal.ManualMatch, error)
	GetMetadata(key string) (*string, error)
}

// Server owns the catalog and the single reconciliation session. Both are
// replaced wholesale under mu; the index itself is never modified.
type Server struct {
	cfg    config.Config
	loader CatalogLoader
	store  AuditStore
	rules  []reconcile.HeaderRule
	router *chi.Mux
	server *http.Server

	mu         sync.Mutex
	index      *catalog.Index
	catalogErr error
	session    reconcile.Session
}

// NewServer builds the router. store may be nil. Call ReloadCatalog before
// serving; until then search reports the catalog as unavailable.
func NewServer(cfg config.Config, loader CatalogLoader, store AuditStore) *Server {
	s := &Server{
		cfg:        cfg,
		loader:     loader,
		store:      store,
		rules:      reconcile.RulesFromConfig(cfg),
		router:     chi.NewRouter(),
		catalogErr: catalog.ErrLoad,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Timeout(60 * time.Second))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalogStatus)
		r.Post("/catalog/reload", s.handleCatalogReload)

		r.Get("/search", s.handleSearch)
		r.Get("/search/export", s.handleSearchExport)

		r.Post("/upload", s.handleUpload)
		r.Get("/upload", s.handleUploadSummary)
		r.Delete("/upload", s.handleClearUpload)
		r.Get("/upload/download", s.handleDownload)

		r.Post("/matching/open", s.handleMatchingOpen)
		r.Post("/matching/close", s.handleMatchingClose)
		r.Post("/matching/select", s.handleMatchingSelect)
		r.Get("/matching/suggest", s.handleMatchingSuggest)
		r.Post("/matching/commit", s.handleMatchingCommit)

		r.Get("/runs", s.handleRuns)
		r.Get("/runs/{traceId}", s.handleRun)
	})
}

// ReloadCatalog loads the catalog and swaps it in. On failure the previous
// index stays in place and the error is kept for status reporting.
func (s *Server) ReloadCatalog(ctx context.Context) error {
	idx, err := s.loader.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.catalogErr = err
		return err
	}
	s.index = idx
	s.catalogErr = nil
	return nil
}

func (s *Server) catalogIndex() (*catalog.Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index == nil {
		return nil, s.catalogErr
	}
	return s.index, nil
}

func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logging.FromContext(context.Background()).Info("starting server", "addr", addr)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(context.Background()).Error("json encode error", "error", err)
	}
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func writeWorkbook(w http.ResponseWriter, fileName string, blob []byte) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	_, _ = w.Write(blob)
}
