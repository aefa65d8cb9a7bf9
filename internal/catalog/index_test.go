package catalog

import (
	"testing"

	"partsearch/internal"
)

func TestBuildIndexLookup(t *testing.T) {
	parts := []internal.PartRecord{
		{ID: 0, PrimaryCode: " e100 ", VendorItem: "V-1", Tariff: "8501.10"},
		{ID: 1, PrimaryCode: "E200", VendorItem: "  ", Tariff: "8536.90"},
		{ID: 2, PrimaryCode: "", VendorItem: "sup-9", Tariff: "7318.15"},
		{ID: 3, PrimaryCode: "E300", Tariff: ""},
	}
	idx := BuildIndex(parts)

	cases := []struct {
		code   string
		want   string
		wantOK bool
	}{
		{code: "E100", want: "8501.10", wantOK: true},
		{code: "  e100", want: "8501.10", wantOK: true},
		{code: "v-1", want: "8501.10", wantOK: true},
		{code: "SUP-9", want: "7318.15", wantOK: true},
		{code: "E300", wantOK: false},
		{code: "", wantOK: false},
		{code: "Z999", wantOK: false},
	}
	for _, tc := range cases {
		got, ok := idx.Lookup(tc.code)
		if ok != tc.wantOK || got != tc.want {
			t.Fatalf("Lookup(%q)=(%q,%v) want (%q,%v)", tc.code, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestBuildIndexPrimaryBeforeVendor(t *testing.T) {
	idx := BuildIndex([]internal.PartRecord{
		{ID: 0, PrimaryCode: "A1", Tariff: "1111"},
		{ID: 1, PrimaryCode: "B2", VendorItem: "A1", Tariff: "2222"},
	})
	if got, _ := idx.Lookup("a1"); got != "1111" {
		t.Fatalf("primary map should win, got %q", got)
	}
}

func TestBuildIndexLastWriteWins(t *testing.T) {
	idx := BuildIndex([]internal.PartRecord{
		{ID: 0, PrimaryCode: "E100", Tariff: "old"},
		{ID: 1, PrimaryCode: "e100 ", Tariff: "new"},
	})
	if got, _ := idx.Lookup("E100"); got != "new" {
		t.Fatalf("got %q", got)
	}
}

func TestBuildIndexIdempotent(t *testing.T) {
	parts := []internal.PartRecord{
		{ID: 0, PrimaryCode: "E100", VendorItem: "V1", Tariff: "1"},
		{ID: 1, PrimaryCode: "E100", VendorItem: "V2", Tariff: "2"},
	}
	a := BuildIndex(parts)
	b := BuildIndex(parts)
	for _, code := range []string{"E100", "V1", "V2", "nope"} {
		ta, oka := a.Lookup(code)
		tb, okb := b.Lookup(code)
		if ta != tb || oka != okb {
			t.Fatalf("lookup %q differs: (%q,%v) vs (%q,%v)", code, ta, oka, tb, okb)
		}
	}
}

func TestBuildIndexEmpty(t *testing.T) {
	idx := BuildIndex(nil)
	if idx.Len() != 0 || len(idx.Preview()) != 0 {
		t.Fatal("expected empty index")
	}
	if _, ok := idx.Lookup("E100"); ok {
		t.Fatal("empty index should miss")
	}
}

func TestPartAndPreview(t *testing.T) {
	parts := make([]internal.PartRecord, 0, 120)
	for i := 0; i < 120; i++ {
		parts = append(parts, internal.PartRecord{ID: i})
	}
	idx := BuildIndex(parts)
	if len(idx.Preview()) != PreviewLimit {
		t.Fatalf("preview=%d", len(idx.Preview()))
	}
	if p, ok := idx.Part(77); !ok || p.ID != 77 {
		t.Fatalf("Part(77)=%+v %v", p, ok)
	}
	if _, ok := idx.Part(500); ok {
		t.Fatal("unknown id should miss")
	}
}
