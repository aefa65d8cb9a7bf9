package web

import (
	"net/http"

	"partsearch/internal/catalog"
	"partsearch/internal/logging"
	"partsearch/internal/sheet"
)

// catalogStatus reports the live index plus what the last successful load
// recorded in the audit store.
type catalogStatus struct {
	Loaded          bool   `json:"loaded"`
	Records         int    `json:"records"`
	LastLoad        string `json:"lastLoad,omitempty"`
	LastLoadRecords string `json:"lastLoadRecords,omitempty"`
	Error           string `json:"error,omitempty"`
	Code            string `json:"code,omitempty"`
}

func (s *Server) handleCatalogStatus(w http.ResponseWriter, r *http.Request) {
	status := catalogStatus{}
	idx, err := s.catalogIndex()
	if err != nil {
		msg := MapError(err)
		status.Error, status.Code = msg.Message, msg.Code
	} else {
		status.Loaded, status.Records = true, idx.Len()
	}

	if s.store != nil {
		status.LastLoad = s.metadata(r, "catalog.last_load")
		status.LastLoadRecords = s.metadata(r, "catalog.records")
	}
	writeJSON(w, status)
}

func (s *Server) metadata(r *http.Request, key string) string {
	value, err := s.store.GetMetadata(key)
	if err != nil {
		logging.FromContext(r.Context()).Warn("read metadata failed", "key", key, "error", err)
		return ""
	}
	if value == nil {
		return ""
	}
	return *value
}

func (s *Server) handleCatalogReload(w http.ResponseWriter, r *http.Request) {
	if err := s.ReloadCatalog(r.Context()); err != nil {
		respondError(w, r, err)
		return
	}
	s.handleCatalogStatus(w, r)
}

type searchResponse struct {
	Query   string `json:"query"`
	Scope   string `json:"scope"`
	Count   int    `json:"count"`
	Results any    `json:"results"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	idx, err := s.catalogIndex()
	if err != nil {
		respondError(w, r, err)
		return
	}

	query := r.URL.Query().Get("q")
	scope := catalog.ParseScope(r.URL.Query().Get("scope"))
	results := idx.Filter(query, scope, idx.Preview())

	writeJSON(w, searchResponse{Query: query, Scope: string(scope), Count: len(results), Results: results})
}

// handleSearchExport downloads the current search results.
func (s *Server) handleSearchExport(w http.ResponseWriter, r *http.Request) {
	idx, err := s.catalogIndex()
	if err != nil {
		respondError(w, r, err)
		return
	}

	query := r.URL.Query().Get("q")
	scope := catalog.ParseScope(r.URL.Query().Get("scope"))
	results := idx.Filter(query, scope, idx.Preview())

	blob, err := sheet.Serialize(catalog.SearchExport(results))
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("search exported", "query", query, "scope", scope, "rows", len(results))
	writeWorkbook(w, catalog.SearchExportFileName, blob)
}
