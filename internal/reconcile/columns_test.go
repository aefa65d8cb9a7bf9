package reconcile

import (
	"errors"
	"testing"

	"partsearch/internal/config"
	"partsearch/internal/sheet"
)

func TestLocateColumns(t *testing.T) {
	cases := []struct {
		name    string
		header  sheet.Row
		want    Columns
		missing ColumnKind
	}{
		{name: "plain", header: sheet.Row{"PRIMARY PART NUMBER", "TARIFF NUM"}, want: Columns{Primary: 0, Tariff: 1}},
		{name: "any order and case", header: sheet.Row{"qty", "Tariff Number", nil, "part (primary)"}, want: Columns{Primary: 3, Tariff: 1}},
		{name: "first qualifying wins", header: sheet.Row{"Primary Part", "Primary Part #", "Tariff Num", "TARIFF NUM 2"}, want: Columns{Primary: 0, Tariff: 2}},
		{name: "missing tariff", header: sheet.Row{"PRIMARY PART NUMBER", "TARIFF"}, missing: ColumnTariff},
		{name: "missing primary", header: sheet.Row{"PART NUMBER", "TARIFF NUM"}, missing: ColumnPrimary},
		{name: "both missing reports primary", header: sheet.Row{"A", "B"}, missing: ColumnPrimary},
		{name: "empty header", header: sheet.Row{}, missing: ColumnPrimary},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := LocateColumns(tc.header, DefaultRules())
			if tc.missing != "" {
				var notFound *ColumnNotFoundError
				if !errors.As(err, &notFound) || notFound.Kind != tc.missing {
					t.Fatalf("want missing %s, got %v", tc.missing, err)
				}
				if !errors.Is(err, ErrColumnNotFound) {
					t.Fatalf("error should wrap ErrColumnNotFound: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Fatalf("got %+v want %+v", got, tc.want)
			}
		})
	}
}

func TestRulesFromConfig(t *testing.T) {
	rules := RulesFromConfig(config.Config{PrimaryHeaderTokens: []string{"ITEM"}, TariffHeaderTokens: []string{"HS"}})
	got, err := LocateColumns(sheet.Row{"HS Code", "Item"}, rules)
	if err != nil {
		t.Fatal(err)
	}
	if got.Primary != 1 || got.Tariff != 0 {
		t.Fatalf("got %+v", got)
	}

	rules = RulesFromConfig(config.Config{})
	if len(rules[0].Tokens) != 2 || rules[1].Tokens[0] != "TARIFF" {
		t.Fatalf("empty config should keep defaults: %+v", rules)
	}
}
