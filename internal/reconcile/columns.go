// Package reconcile fills tariff codes into uploaded part lists from the
// catalog and tracks the manual matching of whatever the lookup missed.
package reconcile

import (
	"errors"
	"fmt"

	"partsearch/internal/config"
	"partsearch/internal/sheet"
	"partsearch/internal/util"
)

type ColumnKind string

const (
	ColumnPrimary ColumnKind = "primary"
	ColumnTariff  ColumnKind = "tariff"
)

var ErrColumnNotFound = errors.New("required column not found")

// ColumnNotFoundError names the column kind that no header cell satisfied.
type ColumnNotFoundError struct {
	Kind ColumnKind
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("%s column not found in header", e.Kind)
}

func (e *ColumnNotFoundError) Unwrap() error {
	return ErrColumnNotFound
}

// HeaderRule selects the first header cell whose upper-cased text contains
// every token.
type HeaderRule struct {
	Kind   ColumnKind
	Tokens []string
}

type Columns struct {
	Primary int
	Tariff  int
}

func DefaultRules() []HeaderRule {
	return []HeaderRule{
		{Kind: ColumnPrimary, Tokens: []string{"PRIMARY", "PART"}},
		{Kind: ColumnTariff, Tokens: []string{"TARIFF", "NUM"}},
	}
}

func RulesFromConfig(cfg config.Config) []HeaderRule {
	rules := DefaultRules()
	if len(cfg.PrimaryHeaderTokens) > 0 {
		rules[0].Tokens = cfg.PrimaryHeaderTokens
	}
	if len(cfg.TariffHeaderTokens) > 0 {
		rules[1].Tokens = cfg.TariffHeaderTokens
	}
	return rules
}

// LocateColumns finds the primary part and tariff columns in header.
// The primary column is resolved first, so a header missing both reports
// the primary column.
func LocateColumns(header sheet.Row, rules []HeaderRule) (Columns, error) {
	primary := locate(header, rules, ColumnPrimary)
	if primary < 0 {
		return Columns{}, &ColumnNotFoundError{Kind: ColumnPrimary}
	}
	tariff := locate(header, rules, ColumnTariff)
	if tariff < 0 {
		return Columns{}, &ColumnNotFoundError{Kind: ColumnTariff}
	}
	return Columns{Primary: primary, Tariff: tariff}, nil
}

func locate(header sheet.Row, rules []HeaderRule, kind ColumnKind) int {
	for _, rule := range rules {
		if rule.Kind != kind {
			continue
		}
		for col := range header {
			if util.HeaderHasAll(header.Text(col), rule.Tokens) {
				return col
			}
		}
	}
	return -1
}
