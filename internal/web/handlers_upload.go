package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"partsearch/internal"
	"partsearch/internal/logging"
	"partsearch/internal/reconcile"
	"partsearch/internal/sheet"
	"partsearch/internal/util"
)

type uploadSummary struct {
	Active          bool                   `json:"active"`
	ID              string                 `json:"id,omitempty"`
	FileName        string                 `json:"fileName,omitempty"`
	ExportName      string                 `json:"exportName,omitempty"`
	MatchedRows     int                    `json:"matchedRows"`
	UnmatchedRows   int                    `json:"unmatchedRows"`
	UniqueUnmatched int                    `json:"uniqueUnmatched"`
	Unmatched       []string               `json:"unmatched"`
	Matches         []internal.ManualMatch `json:"matches"`
	MatchingOpen    bool                   `json:"matchingOpen"`
	Selected        string                 `json:"selected,omitempty"`
}

func summarize(session reconcile.Session) uploadSummary {
	if !session.Active() {
		return uploadSummary{Unmatched: []string{}, Matches: []internal.ManualMatch{}}
	}
	return uploadSummary{
		Active:          true,
		ID:              session.ID,
		FileName:        session.FileName,
		ExportName:      reconcile.ExportName(session.FileName),
		MatchedRows:     session.MatchedRows,
		UnmatchedRows:   session.UnmatchedRows,
		UniqueUnmatched: session.UniqueUnmatched,
		Unmatched:       session.Preview(),
		Matches:         session.Matches,
		MatchingOpen:    session.MatchingOpen,
		Selected:        session.Selected,
	}
}

// handleUpload reconciles an uploaded part list against the catalog and makes
// it the current session. A failed upload leaves the previous session as is.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	idx, err := s.catalogIndex()
	if err != nil {
		respondError(w, r, err)
		return
	}

	maxSize := s.cfg.UploadMaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		respondError(w, r, fmt.Errorf("%w: file too large or invalid form: %v", errBadRequest, err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, fmt.Errorf("%w: no file provided", errBadRequest))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		respondError(w, r, err)
		return
	}

	fileName := util.SanitizeFileName(header.Filename)
	logger := logging.WithFields(r.Context(), "file", fileName, "bytes", len(content))

	rows, err := sheet.Parse(filepath.Base(header.Filename), content)
	if err != nil {
		respondError(w, r, err)
		return
	}

	res, cols, err := reconcile.Process(rows, s.rules, idx)
	if err != nil {
		respondError(w, r, err)
		return
	}

	session := reconcile.NewSession(fileName, rows, cols, res)
	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	logger.Info("upload reconciled",
		"session", session.ID,
		"matched_rows", res.MatchedRows,
		"unmatched_rows", res.UnmatchedRows,
		"unique_unmatched", len(res.Unmatched),
	)
	s.recordRun(r.Context(), session)

	writeJSON(w, summarize(session))
}

func (s *Server) handleUploadSummary(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	session := s.session
	s.mu.Unlock()
	writeJSON(w, summarize(session))
}

func (s *Server) handleClearUpload(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.session = s.session.Clear()
	session := s.session
	s.mu.Unlock()
	writeJSON(w, summarize(session))
}

// handleDownload returns the reconciled workbook, including the manual
// matches sheet once any part was matched by hand.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	session := s.session
	s.mu.Unlock()

	if !session.Active() {
		respondError(w, r, errNoUpload)
		return
	}

	blob, err := sheet.Serialize(session.Workbook())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeWorkbook(w, reconcile.ExportName(session.FileName), blob)
}

// recordRun stores the session counters. Audit failures never fail the request.
func (s *Server) recordRun(ctx context.Context, session reconcile.Session) {
	if s.store == nil {
		return
	}
	err := s.store.InsertRun(internal.RunRecord{
		TraceID:         session.ID,
		FileName:        session.FileName,
		MatchedRows:     session.MatchedRows,
		UnmatchedRows:   session.UnmatchedRows,
		UniqueUnmatched: session.UniqueUnmatched,
	})
	if err != nil {
		logging.FromContext(ctx).Warn("record run failed", "session", session.ID, "error", err)
	}
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, []internal.RunRecord{})
		return
	}
	runs, err := s.store.ListRuns(50)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, runs)
}

type runDetail struct {
	Run     internal.RunRecord     `json:"run"`
	Matches []internal.ManualMatch `json:"matches"`
}

// handleRun returns one reconciliation run with its manual matches.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	traceID := chi.URLParam(r, "traceId")
	if s.store == nil {
		respondError(w, r, fmt.Errorf("%w: %s", errUnknownRun, traceID))
		return
	}

	run, err := s.store.GetRun(traceID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if run == nil {
		respondError(w, r, fmt.Errorf("%w: %s", errUnknownRun, traceID))
		return
	}

	matches, err := s.store.ListManualMatches(traceID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, runDetail{Run: *run, Matches: matches})
}
