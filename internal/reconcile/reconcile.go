package reconcile

import (
	"errors"

	"partsearch/internal/sheet"
)

// PreviewLimit bounds how many unmatched part numbers are shown at once.
const PreviewLimit = 20

var ErrEmptyInput = errors.New("uploaded file is empty")

// TariffLookup resolves a part number to its tariff code.
type TariffLookup interface {
	Lookup(code string) (string, bool)
}

type Result struct {
	MatchedRows   int      `json:"matchedRows"`
	UnmatchedRows int      `json:"unmatchedRows"`
	Unmatched     []string `json:"unmatched"`
}

// Preview returns at most PreviewLimit unmatched part numbers.
func (r Result) Preview() []string {
	if len(r.Unmatched) <= PreviewLimit {
		return r.Unmatched
	}
	return r.Unmatched[:PreviewLimit]
}

// Process checks the upload, locates its columns and reconciles it.
// Rows are left untouched when any step before Reconcile fails.
func Process(rows []sheet.Row, rules []HeaderRule, lookup TariffLookup) (Result, Columns, error) {
	if len(rows) == 0 {
		return Result{}, Columns{}, ErrEmptyInput
	}
	cols, err := LocateColumns(rows[0], rules)
	if err != nil {
		return Result{}, Columns{}, err
	}
	res, err := Reconcile(rows, cols, lookup)
	if err != nil {
		return Result{}, Columns{}, err
	}
	return res, cols, nil
}

// Reconcile writes the resolved tariff into every data row whose part number
// the lookup knows. Rows are modified in place; rows shorter than the tariff
// column are extended. Blank part numbers are neither matched nor unmatched.
func Reconcile(rows []sheet.Row, cols Columns, lookup TariffLookup) (Result, error) {
	if len(rows) == 0 {
		return Result{}, ErrEmptyInput
	}

	res := Result{Unmatched: []string{}}
	seen := map[string]struct{}{}
	for i := 1; i < len(rows); i++ {
		part := rows[i].Text(cols.Primary)
		if part == "" {
			continue
		}
		if tariff, ok := lookup.Lookup(part); ok {
			rows[i] = rows[i].Set(cols.Tariff, tariff)
			res.MatchedRows++
			continue
		}
		if _, dup := seen[part]; !dup {
			seen[part] = struct{}{}
			res.Unmatched = append(res.Unmatched, part)
		}
	}

	// recount against the final lookup state rather than accumulate above
	for _, row := range rows[1:] {
		part := row.Text(cols.Primary)
		if part == "" {
			continue
		}
		if _, ok := lookup.Lookup(part); !ok {
			res.UnmatchedRows++
		}
	}
	return res, nil
}
