package util

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNormalizeCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "  e100 ", want: "E100"},
		{in: "ab-12x", want: "AB-12X"},
		{in: "   ", want: ""},
	}
	for _, tc := range cases {
		if got := NormalizeCode(tc.in); got != tc.want {
			t.Fatalf("NormalizeCode(%q)=%q want %q", tc.in, got, tc.want)
		}
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("  M20 \t Gland\n110 ")
	want := []string{"m20", "gland", "110"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
	if len(Tokenize("   ")) != 0 {
		t.Fatal("blank input should yield no tokens")
	}
}

func TestIsDigits(t *testing.T) {
	cases := map[string]bool{"4017": true, "17a": false, "": false, "4017-2": false}
	for in, want := range cases {
		if got := IsDigits(in); got != want {
			t.Fatalf("IsDigits(%q)=%v", in, got)
		}
	}
}

func TestHeaderHasAll(t *testing.T) {
	cases := []struct {
		header string
		tokens []string
		want   bool
	}{
		{header: "Primary Part Number", tokens: []string{"PRIMARY", "PART"}, want: true},
		{header: "PART (primary)", tokens: []string{"PRIMARY", "PART"}, want: true},
		{header: "Part Number", tokens: []string{"PRIMARY", "PART"}, want: false},
		{header: "Tariff num.", tokens: []string{"TARIFF", "NUM"}, want: true},
		{header: "", tokens: []string{"TARIFF"}, want: false},
	}
	for _, tc := range cases {
		if got := HeaderHasAll(tc.header, tc.tokens); got != tc.want {
			t.Fatalf("HeaderHasAll(%q)=%v want %v", tc.header, got, tc.want)
		}
	}
}

func TestSanitizeFileName(t *testing.T) {
	if got := SanitizeFileName(` a"b/c.xlsx `); got != "a_b_c.xlsx" {
		t.Fatalf("got %q", got)
	}
}

func TestSanitizeFileNameKeepsExtensionWhenTruncating(t *testing.T) {
	got := SanitizeFileName(strings.Repeat("ü", 200) + ".csv")
	if !utf8.ValidString(got) {
		t.Fatalf("invalid utf-8: %q", got)
	}
	if utf8.RuneCountInString(got) != maxFileNameRunes {
		t.Fatalf("runes=%d", utf8.RuneCountInString(got))
	}
	if !strings.HasSuffix(got, ".csv") || !strings.HasPrefix(got, "üü") {
		t.Fatalf("got %q", got)
	}

	long := strings.Repeat("a", 116) + ".csv"
	if got := SanitizeFileName(long); got != long {
		t.Fatalf("name under the limit changed: %q", got)
	}
}
