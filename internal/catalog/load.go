package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"partsearch/internal/logging"
	"partsearch/internal/sheet"
)

// ErrLoad wraps every failure to fetch or decode the catalog.
var ErrLoad = errors.New("catalog load failed")

type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
	Location() string
}

type MetadataStore interface {
	SetMetadata(key, value string) error
}

type Loader struct {
	source Fetcher
	meta   MetadataStore
}

// NewLoader wires a catalog source; meta may be nil.
func NewLoader(source Fetcher, meta MetadataStore) *Loader {
	return &Loader{source: source, meta: meta}
}

func (l *Loader) Load(ctx context.Context) (*Index, error) {
	blob, err := l.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrLoad, l.source.Location(), err)
	}

	rows, err := sheet.Parse(l.source.Location(), blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}

	idx := BuildIndex(Decode(rows))
	l.record(ctx, idx)
	return idx, nil
}

// record stamps the load in the metadata store. Failures are logged only.
func (l *Loader) record(ctx context.Context, idx *Index) {
	if l.meta == nil {
		return
	}
	entries := [][2]string{
		{"catalog.last_load", time.Now().UTC().Format(time.RFC3339)},
		{"catalog.records", strconv.Itoa(idx.Len())},
		{"catalog.source", l.source.Location()},
	}
	for _, e := range entries {
		if err := l.meta.SetMetadata(e[0], e[1]); err != nil {
			logging.FromContext(ctx).Warn("record catalog metadata failed", "key", e[0], "error", err)
		}
	}
}
