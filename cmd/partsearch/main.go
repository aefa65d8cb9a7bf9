package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"partsearch/internal"
	"partsearch/internal/catalog"
	"partsearch/internal/config"
	"partsearch/internal/logging"
	"partsearch/internal/reconcile"
	"partsearch/internal/sheet"
	"partsearch/internal/storage"
	"partsearch/internal/web"
)

var commands = []string{"serve", "search", "reconcile", "catalog:export"}

func main() {
	if len(os.Args) < 2 || !isCommand(os.Args[1]) {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	must(err)
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	loader := catalog.NewLoader(catalog.NewSource(cfg), db)

	cmd := os.Args[1]
	switch cmd {
	case "serve":
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		srv := web.NewServer(cfg, loader, db)
		if err := srv.ReloadCatalog(ctx); err != nil {
			slog.Error("catalog load failed, search disabled until reload", "source", cfg.CatalogSource, "error", err)
		}

		go func() {
			<-ctx.Done()
			shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
			defer stop()
			_ = srv.Shutdown(shutdownCtx)
		}()

		if err := srv.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			must(err)
		}
	case "search":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		query := fs.String("q", "", "search text")
		scope := fs.String("scope", "all", "all|primary|vendor|description|tariff")
		out := fs.String("out", "", "optional xlsx path for the results")
		_ = fs.Parse(os.Args[2:])

		idx, err := loader.Load(context.Background())
		must(err)
		results := idx.Filter(*query, catalog.ParseScope(*scope), idx.Preview())

		if strings.TrimSpace(*out) != "" {
			must(writeSheets(*out, catalog.SearchExport(results)))
			fmt.Printf("exported %d results to %s\n", len(results), *out)
			return
		}
		for _, p := range results {
			fmt.Printf("%s\t%s\t%s\t%s\t%s\n", p.PrimaryCode, p.VendorItem, p.Tariff, p.Description1, p.Description2)
		}
		fmt.Printf("%d results\n", len(results))
	case "reconcile":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "uploaded part list (.xlsx, .csv, .html)")
		output := fs.String("output", "", "output xlsx path (default OUTPUT_DIR/<name>_with_tariffs.xlsx)")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}

		idx, err := loader.Load(context.Background())
		must(err)

		content, err := os.ReadFile(*input)
		must(err)
		name := filepath.Base(*input)
		rows, err := sheet.Parse(name, content)
		must(err)

		res, cols, err := reconcile.Process(rows, reconcile.RulesFromConfig(cfg), idx)
		must(err)
		session := reconcile.NewSession(name, rows, cols, res)

		target := *output
		if strings.TrimSpace(target) == "" {
			target = filepath.Join(cfg.OutputDir, reconcile.ExportName(name))
		}
		must(writeSheets(target, session.Workbook()))

		if err := db.InsertRun(internal.RunRecord{
			TraceID:         session.ID,
			FileName:        name,
			MatchedRows:     session.MatchedRows,
			UnmatchedRows:   session.UnmatchedRows,
			UniqueUnmatched: session.UniqueUnmatched,
		}); err != nil {
			slog.Warn("record run failed", "error", err)
		}

		fmt.Printf("reconcile done matched=%d unmatched=%d unique_unmatched=%d output=%s\n",
			res.MatchedRows, res.UnmatchedRows, len(res.Unmatched), target)
		for _, part := range res.Preview() {
			fmt.Printf("  unmatched: %s\n", part)
		}
		if extra := len(res.Unmatched) - len(res.Preview()); extra > 0 {
			fmt.Printf("  ... and %d more\n", extra)
		}
	case "catalog:export":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--out is required"))
		}

		idx, err := loader.Load(context.Background())
		must(err)
		must(writeSheets(*out, catalog.CatalogExport(idx.Parts())))
		fmt.Printf("exported %d catalog records to %s\n", idx.Len(), *out)
	default:
		usage()
		os.Exit(1)
	}
}

func isCommand(name string) bool {
	return slices.Contains(commands, name)
}

func writeSheets(path string, sheets []sheet.NamedSheet) error {
	blob, err := sheet.Serialize(sheets)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, blob, 0o644)
}

func usage() {
	fmt.Println("usage: partsearch <command>")
	fmt.Println("commands:")
	fmt.Println("  serve")
	fmt.Println("  search --q=\"M20 110\" [--scope=all|primary|vendor|description|tariff] [--out=./out/parts_search_results.xlsx]")
	fmt.Println("  reconcile --input=./parts.xlsx [--output=./out/parts_with_tariffs.xlsx]")
	fmt.Println("  catalog:export --out=./out/parts_db.xlsx")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
