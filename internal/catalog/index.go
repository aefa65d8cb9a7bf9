package catalog

import (
	"partsearch/internal"
	"partsearch/internal/util"
)

const (
	// PreviewLimit is the size of the default view shown for an empty query.
	PreviewLimit = 50
	// ResultLimit caps how many matches Filter returns.
	ResultLimit = 100
)

// Index holds the catalog in its original order plus tariff lookups keyed
// by normalized primary code and vendor item. It is read-only after Build.
type Index struct {
	parts     []internal.PartRecord
	byID      map[int]int
	byPrimary map[string]string
	byVendor  map[string]string
}

func BuildIndex(parts []internal.PartRecord) *Index {
	idx := &Index{
		parts:     parts,
		byID:      make(map[int]int, len(parts)),
		byPrimary: make(map[string]string, len(parts)),
		byVendor:  make(map[string]string, len(parts)),
	}

	for i, p := range parts {
		idx.byID[p.ID] = i
		if key := util.NormalizeCode(p.PrimaryCode); key != "" {
			idx.byPrimary[key] = p.Tariff
		}
		if key := util.NormalizeCode(p.VendorItem); key != "" {
			idx.byVendor[key] = p.Tariff
		}
	}

	return idx
}

// Lookup resolves a part number to a tariff, trying primary codes before
// vendor items. A code whose tariff is blank counts as a miss.
func (idx *Index) Lookup(code string) (string, bool) {
	key := util.NormalizeCode(code)
	if key == "" {
		return "", false
	}
	if tariff := idx.byPrimary[key]; tariff != "" {
		return tariff, true
	}
	if tariff := idx.byVendor[key]; tariff != "" {
		return tariff, true
	}
	return "", false
}

func (idx *Index) Parts() []internal.PartRecord {
	return idx.parts
}

func (idx *Index) Len() int {
	return len(idx.parts)
}

// Part returns the record with the given ordinal id.
func (idx *Index) Part(id int) (internal.PartRecord, bool) {
	pos, ok := idx.byID[id]
	if !ok {
		return internal.PartRecord{}, false
	}
	return idx.parts[pos], true
}

// Preview is the default view: the first PreviewLimit records.
func (idx *Index) Preview() []internal.PartRecord {
	if len(idx.parts) <= PreviewLimit {
		return idx.parts
	}
	return idx.parts[:PreviewLimit]
}
