package catalog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"partsearch/internal"
	"partsearch/internal/logging"
	"partsearch/internal/sheet"
)

type stubFetcher struct {
	name string
	blob []byte
	err  error
}

func (s stubFetcher) Fetch(context.Context) ([]byte, error) { return s.blob, s.err }
func (s stubFetcher) Location() string                      { return s.name }

type memMeta map[string]string

func (m memMeta) SetMetadata(key, value string) error {
	m[key] = value
	return nil
}

func TestLoaderBuildsIndex(t *testing.T) {
	blob, err := sheet.Serialize(CatalogExport([]internal.PartRecord{
		{PrimaryCode: "E100", Tariff: "8547.20"},
		{PrimaryCode: "E200", VendorItem: "K-1", Tariff: "8536.49"},
	}))
	if err != nil {
		t.Fatal(err)
	}

	meta := memMeta{}
	idx, err := NewLoader(stubFetcher{name: "parts_db.xlsx", blob: blob}, meta).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if idx.Len() != 2 {
		t.Fatalf("len=%d", idx.Len())
	}
	if tariff, ok := idx.Lookup("k-1"); !ok || tariff != "8536.49" {
		t.Fatalf("lookup=%q %v", tariff, ok)
	}
	if meta["catalog.records"] != "2" || meta["catalog.source"] != "parts_db.xlsx" || meta["catalog.last_load"] == "" {
		t.Fatalf("metadata=%v", meta)
	}
}

func TestLoaderWrapsFailures(t *testing.T) {
	cases := []struct {
		name    string
		fetcher stubFetcher
	}{
		{name: "fetch error", fetcher: stubFetcher{name: "parts_db.xlsx", err: errors.New("offline")}},
		{name: "corrupt workbook", fetcher: stubFetcher{name: "parts_db.xlsx", blob: []byte("not a zip")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLoader(tc.fetcher, nil).Load(context.Background())
			if !errors.Is(err, ErrLoad) {
				t.Fatalf("want ErrLoad, got %v", err)
			}
		})
	}
}

func TestLoaderEmptySourceGivesEmptyIndex(t *testing.T) {
	idx, err := NewLoader(stubFetcher{name: "parts_db.xlsx"}, nil).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if idx.Len() != 0 {
		t.Fatalf("len=%d", idx.Len())
	}
}

type brokenMeta struct{}

func (brokenMeta) SetMetadata(string, string) error { return errors.New("disk full") }

func TestLoaderLogsMetadataFailures(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(logging.New(&buf, "info", "text"))
	defer slog.SetDefault(prev)

	blob, err := sheet.Serialize(CatalogExport([]internal.PartRecord{{PrimaryCode: "E100", Tariff: "8547.20"}}))
	if err != nil {
		t.Fatal(err)
	}

	idx, err := NewLoader(stubFetcher{name: "parts_db.xlsx", blob: blob}, brokenMeta{}).Load(context.Background())
	if err != nil {
		t.Fatalf("metadata failure must not fail the load: %v", err)
	}
	if idx.Len() != 1 {
		t.Fatalf("len=%d", idx.Len())
	}

	out := buf.String()
	if strings.Count(out, "record catalog metadata failed") != 3 || !strings.Contains(out, "disk full") {
		t.Fatalf("unexpected log output %s", out)
	}
}
