package source

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"

	"stockdash/internal/config"
	"stockdash/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func june(d int) time.Time {
	return time.Date(2020, 6, d, 0, 0, 0, 0, time.UTC)
}

func writeParquet[T any](t *testing.T, path string, rows []T) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// ---------------------------------------------------------------------------
// Parquet archive
// ---------------------------------------------------------------------------

func TestParquetArchivePaths(t *testing.T) {
	p := NewParquetArchive("/data")
	if got, want := p.barPath("aapl", 2024), filepath.Join("/data", "us", "daily", "AAPL", "2024.parquet"); got != want {
		t.Errorf("barPath = %s, want %s", got, want)
	}
	if got, want := p.symbolsPath(), filepath.Join("/data", "us", "reference", "symbols.parquet"); got != want {
		t.Errorf("symbolsPath = %s, want %s", got, want)
	}
}

func TestParquetArchiveReadBars(t *testing.T) {
	dir := t.TempDir()
	p := NewParquetArchive(dir)

	ms := func(y int, m time.Month, d int) int64 {
		return time.Date(y, m, d, 4, 0, 0, 0, time.UTC).UnixMilli()
	}
	writeParquet(t, p.barPath("AAPL", 2019), []BarRecord{
		{Symbol: "AAPL", Timestamp: ms(2019, 12, 30), Close: 290},
		{Symbol: "AAPL", Timestamp: ms(2019, 12, 31), Close: 293},
	})
	writeParquet(t, p.barPath("AAPL", 2020), []BarRecord{
		{Symbol: "AAPL", Timestamp: ms(2020, 1, 3), Close: 297},
		{Symbol: "AAPL", Timestamp: ms(2020, 1, 2), Close: 300},
		{Symbol: "AAPL", Timestamp: ms(2020, 1, 6), Close: 299},
	})

	rng := domain.DateRange{
		Start: time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC),
	}
	bars, err := p.ReadBars(context.Background(), "AAPL", rng)
	if err != nil {
		t.Fatalf("ReadBars: %v", err)
	}

	var got []string
	for _, b := range bars {
		got = append(got, b.Timestamp.Format(domain.DateLayout))
	}
	if want := "2019-12-31,2020-01-02,2020-01-03"; strings.Join(got, ",") != want {
		t.Errorf("bars = %v, want %s", got, want)
	}
	if bars[1].Close != 300 {
		t.Errorf("close on 2020-01-02 = %v, want 300", bars[1].Close)
	}
}

func TestParquetArchiveMissingSymbol(t *testing.T) {
	p := NewParquetArchive(t.TempDir())
	bars, err := p.ReadBars(context.Background(), "NONE", domain.DateRange{Start: june(1), End: june(10)})
	if err != nil {
		t.Fatalf("ReadBars: %v", err)
	}
	if len(bars) != 0 {
		t.Errorf("got %d bars, want 0", len(bars))
	}
}

func TestParquetArchiveListSymbols(t *testing.T) {
	dir := t.TempDir()
	p := NewParquetArchive(dir)
	writeParquet(t, p.symbolsPath(), []SymbolRecord{
		{Symbol: "AAPL", Name: "Apple Inc."},
		{Symbol: "MSFT", Name: "Microsoft Corporation"},
	})

	entries, err := p.ListSymbols(context.Background())
	if err != nil {
		t.Fatalf("ListSymbols: %v", err)
	}
	if len(entries) != 2 || entries[1].Symbol != "MSFT" || entries[0].Name != "Apple Inc." {
		t.Errorf("entries = %+v", entries)
	}
}

func TestParquetArchiveListSymbolsMissingFile(t *testing.T) {
	p := NewParquetArchive(t.TempDir())
	if _, err := p.ListSymbols(context.Background()); err == nil {
		t.Fatal("expected error for missing reference file")
	}
}

// ---------------------------------------------------------------------------
// SQLite directory
// ---------------------------------------------------------------------------

func createReferenceDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ref.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE symbols (symbol TEXT, name TEXT)`,
		`INSERT INTO symbols VALUES ('MSFT', 'Microsoft Corporation')`,
		`INSERT INTO symbols VALUES ('AAPL', 'Apple Inc.')`,
		`INSERT INTO symbols VALUES ('NULLNAME', NULL)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("exec %q: %v", s, err)
		}
	}
	return path
}

func TestSQLiteDirectory(t *testing.T) {
	dir, err := OpenSQLiteDirectory(createReferenceDB(t))
	if err != nil {
		t.Fatalf("OpenSQLiteDirectory: %v", err)
	}
	defer dir.Close()

	entries, err := dir.ListSymbols(context.Background())
	if err != nil {
		t.Fatalf("ListSymbols: %v", err)
	}
	want := []domain.SymbolEntry{
		{Symbol: "AAPL", Name: "Apple Inc."},
		{Symbol: "MSFT", Name: "Microsoft Corporation"},
		{Symbol: "NULLNAME", Name: ""},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestSQLiteDirectoryMissingTable(t *testing.T) {
	dir, err := OpenSQLiteDirectory(filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("OpenSQLiteDirectory: %v", err)
	}
	defer dir.Close()

	if _, err := dir.ListSymbols(context.Background()); err == nil {
		t.Fatal("expected error without a symbols table")
	}
}

// ---------------------------------------------------------------------------
// Alpaca
// ---------------------------------------------------------------------------

var aaplBars = []map[string]any{
	{"t": "2020-06-01T04:00:00Z", "o": 317.75, "h": 322.35, "l": 317.21, "c": 321.85, "v": 20197800, "n": 1000, "vw": 320.1},
	{"t": "2020-06-02T04:00:00Z", "o": 320.75, "h": 323.44, "l": 318.93, "c": 323.34, "v": 21910700, "n": 1100, "vw": 321.7},
}

func newAlpacaServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/assets"):
			json.NewEncoder(w).Encode([]map[string]any{
				{"id": "2", "class": "us_equity", "exchange": "NASDAQ", "symbol": "MSFT", "name": "Microsoft Corporation", "status": "active", "tradable": true},
				{"id": "1", "class": "us_equity", "exchange": "NASDAQ", "symbol": "AAPL", "name": "Apple Inc.", "status": "active", "tradable": true},
			})
		case strings.HasSuffix(r.URL.Path, "/stocks/bars"):
			json.NewEncoder(w).Encode(map[string]any{
				"bars":            map[string]any{"AAPL": aaplBars},
				"next_page_token": nil,
			})
		case strings.HasSuffix(r.URL.Path, "/AAPL/bars"):
			json.NewEncoder(w).Encode(map[string]any{
				"symbol":          "AAPL",
				"bars":            aaplBars,
				"next_page_token": nil,
			})
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestAlpacaListSymbols(t *testing.T) {
	srv := newAlpacaServer(t)
	defer srv.Close()

	a := NewAlpaca(AlpacaOpts{APIKey: "k", APISecret: "s", BaseURL: srv.URL, DataURL: srv.URL}, discardLogger())
	entries, err := a.ListSymbols(context.Background())
	if err != nil {
		t.Fatalf("ListSymbols: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Symbol != "AAPL" || entries[0].Name != "Apple Inc." {
		t.Errorf("entries not sorted by symbol: %+v", entries)
	}
}

func TestAlpacaReadBars(t *testing.T) {
	srv := newAlpacaServer(t)
	defer srv.Close()

	a := NewAlpaca(AlpacaOpts{APIKey: "k", APISecret: "s", BaseURL: srv.URL, DataURL: srv.URL}, discardLogger())
	bars, err := a.ReadBars(context.Background(), "AAPL", domain.DateRange{Start: june(1), End: june(2)})
	if err != nil {
		t.Fatalf("ReadBars: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("got %d bars, want 2", len(bars))
	}
	if bars[1].Close != 323.34 || bars[1].Symbol != "AAPL" {
		t.Errorf("bars[1] = %+v", bars[1])
	}
	if bars[0].Volume != 20197800 {
		t.Errorf("volume = %d", bars[0].Volume)
	}
}

func TestAlpacaCancelledContext(t *testing.T) {
	a := NewAlpaca(AlpacaOpts{APIKey: "k", APISecret: "s"}, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.ReadBars(ctx, "AAPL", domain.DateRange{Start: june(1), End: june(2)}); err == nil {
		t.Fatal("expected context error")
	}
	if _, err := a.ListSymbols(ctx); err == nil {
		t.Fatal("expected context error")
	}
}

// ---------------------------------------------------------------------------
// Open
// ---------------------------------------------------------------------------

func TestOpenLocalSources(t *testing.T) {
	cfg := config.Default()
	cfg.Source = config.Source{Symbols: config.SourceSQLite, Prices: config.SourceParquet}
	cfg.Storage.SQLitePath = createReferenceDB(t)
	cfg.Storage.DataDir = t.TempDir()

	set, err := Open(cfg, discardLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer set.Close()

	if set.Directory.Name() != "sqlite" || set.Bars.Name() != "parquet" {
		t.Errorf("sources = %s/%s", set.Directory.Name(), set.Bars.Name())
	}
}

func TestOpenSharesAlpacaClient(t *testing.T) {
	cfg := config.Default()
	cfg.Alpaca.APIKey, cfg.Alpaca.APISecret = "k", "s"

	set, err := Open(cfg, discardLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer set.Close()

	if set.Directory.(*Alpaca) != set.Bars.(*Alpaca) {
		t.Error("expected one Alpaca instance for both roles")
	}
}

func TestOpenUnknownKind(t *testing.T) {
	cfg := config.Default()
	cfg.Source.Prices = "csv"
	cfg.Alpaca.APIKey, cfg.Alpaca.APISecret = "k", "s"
	if _, err := Open(cfg, discardLogger()); err == nil {
		t.Fatal("expected error for unknown price source")
	}
}
