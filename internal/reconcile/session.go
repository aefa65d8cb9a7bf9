package reconcile

import (
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"

	"partsearch/internal"
	"partsearch/internal/sheet"
)

const (
	UpdatedSheetName = "Updated Data"
	MatchesSheetName = "Newly Matched"
	exportSuffix     = "_with_tariffs.xlsx"
)

var matchesHeader = []string{
	"Part Number", "Tariff Code", "Matched From", "Description 1", "Description 2", "Vendor Name", "Rows Updated",
}

// Session is the state of one reconciled upload. Transitions return a new
// Session and never modify the receiver, including its rows.
type Session struct {
	ID       string
	FileName string
	Columns  Columns
	Rows     []sheet.Row

	MatchedRows     int
	UnmatchedRows   int
	UniqueUnmatched int
	Unmatched       []string
	Matches         []internal.ManualMatch

	MatchingOpen bool
	Selected     string
	Suggestions  []internal.PartRecord
}

func NewSession(fileName string, rows []sheet.Row, cols Columns, res Result) Session {
	return Session{
		ID:              uuid.New().String(),
		FileName:        fileName,
		Columns:         cols,
		Rows:            rows,
		MatchedRows:     res.MatchedRows,
		UnmatchedRows:   res.UnmatchedRows,
		UniqueUnmatched: len(res.Unmatched),
		Unmatched:       res.Unmatched,
		Matches:         []internal.ManualMatch{},
	}
}

// Active reports whether the session holds an upload.
func (s Session) Active() bool {
	return s.ID != ""
}

func (s Session) Preview() []string {
	return Result{Unmatched: s.Unmatched}.Preview()
}

func (s Session) OpenMatching() Session {
	if !s.Active() {
		return s
	}
	s.MatchingOpen = true
	return s
}

func (s Session) CloseMatching() Session {
	s.MatchingOpen = false
	s.Selected = ""
	s.Suggestions = nil
	return s
}

func (s Session) Select(part string) Session {
	s.Selected = part
	s.Suggestions = nil
	return s
}

func (s Session) Suggest(query string, scope internal.SuggestScope, parts []internal.PartRecord) Session {
	s.Suggestions = SuggestCandidates(query, scope, parts)
	return s
}

// Commit assigns record's tariff to every row whose trimmed part number is
// exactly part. The unmatched tallies drop by one whatever the number of rows
// touched, even when none were.
func (s Session) Commit(part string, record internal.PartRecord) (Session, internal.ManualMatch) {
	rows := make([]sheet.Row, len(s.Rows))
	copy(rows, s.Rows)

	updated := 0
	for i := 1; i < len(rows); i++ {
		if rows[i].Text(s.Columns.Primary) != part {
			continue
		}
		rows[i] = rows[i].With(s.Columns.Tariff, record.Tariff)
		updated++
	}

	match := internal.ManualMatch{
		PartNumber:   part,
		Tariff:       record.Tariff,
		MatchedFrom:  record.PrimaryCode,
		Description1: record.Description1,
		Description2: record.Description2,
		VendorName:   record.VendorName,
		RowsUpdated:  updated,
	}
	if updated == 0 {
		slog.Warn("manual match touched no rows", "session", s.ID, "part", part)
	}

	s.Rows = rows
	s.Matches = append(slices.Clone(s.Matches), match)
	s.Unmatched = slices.DeleteFunc(slices.Clone(s.Unmatched), func(v string) bool { return v == part })
	s.MatchedRows += updated
	s.UnmatchedRows--
	s.UniqueUnmatched--
	s.Selected = ""
	s.Suggestions = nil
	return s, match
}

// Clear drops the upload and everything derived from it.
func (s Session) Clear() Session {
	return Session{}
}

// Workbook lays the session out for download: the updated rows, then the
// manual matches when there are any.
func (s Session) Workbook() []sheet.NamedSheet {
	sheets := []sheet.NamedSheet{{Name: UpdatedSheetName, Rows: s.Rows}}
	if len(s.Matches) == 0 {
		return sheets
	}

	records := make([]map[string]any, 0, len(s.Matches))
	for _, m := range s.Matches {
		records = append(records, map[string]any{
			"Part Number":   m.PartNumber,
			"Tariff Code":   m.Tariff,
			"Matched From":  m.MatchedFrom,
			"Description 1": m.Description1,
			"Description 2": m.Description2,
			"Vendor Name":   m.VendorName,
			"Rows Updated":  m.RowsUpdated,
		})
	}
	return append(sheets, sheet.NamedSheet{Name: MatchesSheetName, Rows: sheet.FromRecords(matchesHeader, records)})
}

// ExportName derives the download name from the uploaded file name by
// replacing its extension.
func ExportName(uploadName string) string {
	ext := filepath.Ext(uploadName)
	if ext == "." {
		ext = ""
	}
	return strings.TrimSuffix(uploadName, ext) + exportSuffix
}
