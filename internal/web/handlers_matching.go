package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"partsearch/internal"
	"partsearch/internal/logging"
	"partsearch/internal/reconcile"
)

type matchingState struct {
	Open        bool                  `json:"open"`
	Unmatched   []string              `json:"unmatched"`
	Selected    string                `json:"selected,omitempty"`
	Suggestions []internal.PartRecord `json:"suggestions"`
}

func matchingOf(session reconcile.Session) matchingState {
	state := matchingState{
		Open:        session.MatchingOpen,
		Unmatched:   session.Unmatched,
		Selected:    session.Selected,
		Suggestions: session.Suggestions,
	}
	if state.Unmatched == nil {
		state.Unmatched = []string{}
	}
	if state.Suggestions == nil {
		state.Suggestions = []internal.PartRecord{}
	}
	return state
}

// transition applies fn to the active session and stores the result.
func (s *Server) transition(fn func(reconcile.Session) reconcile.Session) (reconcile.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.session.Active() {
		return reconcile.Session{}, errNoUpload
	}
	s.session = fn(s.session)
	return s.session, nil
}

func (s *Server) handleMatchingOpen(w http.ResponseWriter, r *http.Request) {
	session, err := s.transition(reconcile.Session.OpenMatching)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, matchingOf(session))
}

func (s *Server) handleMatchingClose(w http.ResponseWriter, r *http.Request) {
	session, err := s.transition(reconcile.Session.CloseMatching)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, matchingOf(session))
}

type selectRequest struct {
	Part string `json:"part"`
}

func (s *Server) handleMatchingSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Part) == "" {
		respondError(w, r, fmt.Errorf("%w: part is required", errBadRequest))
		return
	}

	session, err := s.transition(func(cur reconcile.Session) reconcile.Session {
		return cur.Select(req.Part)
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, matchingOf(session))
}

func (s *Server) handleMatchingSuggest(w http.ResponseWriter, r *http.Request) {
	idx, err := s.catalogIndex()
	if err != nil {
		respondError(w, r, err)
		return
	}

	query := r.URL.Query().Get("q")
	scope := reconcile.ParseSuggestScope(r.URL.Query().Get("scope"))

	session, err := s.transition(func(cur reconcile.Session) reconcile.Session {
		return cur.Suggest(query, scope, idx.Parts())
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, matchingOf(session))
}

type commitRequest struct {
	Part     string `json:"part"`
	RecordID *int   `json:"recordId"`
}

type commitResponse struct {
	Match   internal.ManualMatch `json:"match"`
	Summary uploadSummary        `json:"summary"`
}

// handleMatchingCommit assigns the tariff of a chosen catalog record to every
// row carrying the unmatched part number.
func (s *Server) handleMatchingCommit(w http.ResponseWriter, r *http.Request) {
	idx, err := s.catalogIndex()
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Part == "" || req.RecordID == nil {
		respondError(w, r, fmt.Errorf("%w: part and recordId are required", errBadRequest))
		return
	}

	record, ok := idx.Part(*req.RecordID)
	if !ok {
		respondError(w, r, fmt.Errorf("%w: id=%d", errUnknownRecord, *req.RecordID))
		return
	}

	var match internal.ManualMatch
	session, err := s.transition(func(cur reconcile.Session) reconcile.Session {
		next, m := cur.Commit(req.Part, record)
		match = m
		return next
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.WithFields(r.Context(), "session", session.ID).Info("manual match committed",
		"part", match.PartNumber,
		"tariff", match.Tariff,
		"matched_from", match.MatchedFrom,
		"rows_updated", match.RowsUpdated,
	)
	if s.store != nil {
		if err := s.store.InsertManualMatch(session.ID, match); err != nil {
			logging.FromContext(r.Context()).Warn("record manual match failed", "session", session.ID, "error", err)
		}
	}
	s.recordRun(r.Context(), session)

	writeJSON(w, commitResponse{Match: match, Summary: summarize(session)})
}
