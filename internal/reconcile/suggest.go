package reconcile

import (
	"regexp"

	"partsearch/internal"
	"partsearch/internal/util"
)

// SuggestLimit caps the candidates offered for one manual match.
const SuggestLimit = 10

// SuggestCandidates searches the catalog for records that could resolve an
// unmatched part. Every token must hit one scope field. A purely numeric
// token only matches as a whole number, optionally followed by a -digits
// suffix, so "17" finds "17" and "17-2" but not "170".
func SuggestCandidates(query string, scope internal.SuggestScope, parts []internal.PartRecord) []internal.PartRecord {
	tokens := util.Tokenize(query)
	out := []internal.PartRecord{}
	if len(tokens) == 0 {
		return out
	}

	matchers := make([]func(string) bool, 0, len(tokens))
	for _, token := range tokens {
		matchers = append(matchers, tokenMatcher(token))
	}

	for _, p := range parts {
		if candidateMatches(matchers, suggestFields(p, scope)) {
			out = append(out, p)
			if len(out) == SuggestLimit {
				break
			}
		}
	}
	return out
}

func tokenMatcher(token string) func(string) bool {
	if util.IsDigits(token) {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(token) + `(-\d+)?\b`)
		return func(field string) bool {
			return field != "" && re.MatchString(field)
		}
	}
	return func(field string) bool {
		return util.ContainsToken(field, token)
	}
}

func suggestFields(p internal.PartRecord, scope internal.SuggestScope) []string {
	if scope == internal.SuggestDescription {
		return []string{p.Description1, p.Description2}
	}
	return []string{p.PrimaryCode, p.VendorItem, p.Description1, p.Description2}
}

func candidateMatches(matchers []func(string) bool, fields []string) bool {
	for _, match := range matchers {
		hit := false
		for _, field := range fields {
			if match(field) {
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

// ParseSuggestScope maps a request value to a suggestion scope, defaulting to broad.
func ParseSuggestScope(value string) internal.SuggestScope {
	if internal.SuggestScope(value) == internal.SuggestDescription {
		return internal.SuggestDescription
	}
	return internal.SuggestBroad
}
