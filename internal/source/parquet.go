package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"stockdash/internal/domain"
)

// Compile-time interface checks.
var _ Directory = (*ParquetArchive)(nil)
var _ BarSource = (*ParquetArchive)(nil)

// ParquetArchive reads a local daily-bar archive laid out as
//
//	<DataDir>/<market>/daily/<SYMBOL>/<YYYY>.parquet
//	<DataDir>/<market>/reference/symbols.parquet
type ParquetArchive struct {
	DataDir string
	Market  domain.Market
}

// NewParquetArchive creates an archive reader rooted at dataDir for US equities.
func NewParquetArchive(dataDir string) *ParquetArchive {
	return &ParquetArchive{DataDir: dataDir, Market: domain.MarketUS}
}

// BarRecord is the Parquet schema for daily bar data.
type BarRecord struct {
	Symbol     string  `parquet:"symbol"`
	Timestamp  int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Open       float64 `parquet:"open"`
	High       float64 `parquet:"high"`
	Low        float64 `parquet:"low"`
	Close      float64 `parquet:"close"`
	Volume     int64   `parquet:"volume"`
	TradeCount int64   `parquet:"trade_count"`
	VWAP       float64 `parquet:"vwap"`
}

// SymbolRecord is the Parquet schema for the symbol reference file.
type SymbolRecord struct {
	Symbol string `parquet:"symbol"`
	Name   string `parquet:"name"`
}

// Name returns the source identifier.
func (p *ParquetArchive) Name() string { return "parquet" }

// ListSymbols reads the symbol reference file.
func (p *ParquetArchive) ListSymbols(_ context.Context) ([]domain.SymbolEntry, error) {
	path := p.symbolsPath()
	records, err := parquet.ReadFile[SymbolRecord](path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	entries := make([]domain.SymbolEntry, len(records))
	for i, r := range records {
		entries[i] = domain.SymbolEntry{Symbol: r.Symbol, Name: r.Name}
	}
	return entries, nil
}

// ReadBars reads the yearly files covering rng and keeps the bars inside it.
// A missing year file means no data for that year; any other read error is
// returned.
func (p *ParquetArchive) ReadBars(ctx context.Context, symbol string, rng domain.DateRange) ([]domain.Bar, error) {
	var bars []domain.Bar
	for year := rng.Start.Year(); year <= rng.End.Year(); year++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		path := p.barPath(symbol, year)
		records, err := parquet.ReadFile[BarRecord](path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		for _, r := range records {
			ts := time.UnixMilli(r.Timestamp).UTC()
			if !rng.Contains(ts) {
				continue
			}
			bars = append(bars, domain.Bar{
				Symbol:     r.Symbol,
				Timestamp:  ts,
				Open:       r.Open,
				High:       r.High,
				Low:        r.Low,
				Close:      r.Close,
				Volume:     r.Volume,
				TradeCount: r.TradeCount,
				VWAP:       r.VWAP,
			})
		}
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp.Before(bars[j].Timestamp) })
	return bars, nil
}

// barPath returns the filesystem path for a bar Parquet file.
func (p *ParquetArchive) barPath(symbol string, year int) string {
	return filepath.Join(p.DataDir, string(p.Market), "daily", strings.ToUpper(symbol), fmt.Sprintf("%d.parquet", year))
}

// symbolsPath returns the filesystem path for the symbol reference file.
func (p *ParquetArchive) symbolsPath() string {
	return filepath.Join(p.DataDir, string(p.Market), "reference", "symbols.parquet")
}
