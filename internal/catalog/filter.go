package catalog

import (
	"partsearch/internal"
	"partsearch/internal/util"
)

// Filter returns records in catalog order where every query token is found,
// case-insensitively, in at least one field of the scope. A blank query
// returns fallback unchanged. Results stop at ResultLimit.
func (idx *Index) Filter(query string, scope internal.SearchScope, fallback []internal.PartRecord) []internal.PartRecord {
	tokens := util.Tokenize(query)
	if len(tokens) == 0 {
		return fallback
	}

	out := make([]internal.PartRecord, 0)
	for _, p := range idx.parts {
		if matchesAll(tokens, scopeFields(p, scope)) {
			out = append(out, p)
			if len(out) == ResultLimit {
				break
			}
		}
	}
	return out
}

func scopeFields(p internal.PartRecord, scope internal.SearchScope) []string {
	switch scope {
	case internal.ScopePrimary:
		return []string{p.PrimaryCode}
	case internal.ScopeVendor:
		return []string{p.VendorItem}
	case internal.ScopeDescription:
		return []string{p.Description1, p.Description2}
	case internal.ScopeTariff:
		return []string{p.Tariff}
	default:
		return []string{p.PrimaryCode, p.VendorItem, p.Description1, p.Description2, p.Tariff, p.VendorName}
	}
}

func matchesAll(tokens, fields []string) bool {
	for _, token := range tokens {
		hit := false
		for _, field := range fields {
			if util.ContainsToken(field, token) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// ParseScope maps a request value to a search scope, defaulting to all.
func ParseScope(value string) internal.SearchScope {
	switch internal.SearchScope(value) {
	case internal.ScopePrimary, internal.ScopeVendor, internal.ScopeDescription, internal.ScopeTariff:
		return internal.SearchScope(value)
	default:
		return internal.ScopeAll
	}
}
