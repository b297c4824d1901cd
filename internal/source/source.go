// Package source defines the upstream collaborators of the dashboard, the
// symbol directory and the price history source, together with their Alpaca,
// Parquet archive and SQLite reference implementations.
package source

import (
	"context"

	"stockdash/internal/domain"
)

// Directory lists every tradable symbol with its display name. Entries are
// returned as the upstream provides them; cleaning is the catalog's job.
type Directory interface {
	// Name returns the source identifier used in logs.
	Name() string

	// ListSymbols returns all (symbol, name) pairs known upstream.
	ListSymbols(ctx context.Context) ([]domain.SymbolEntry, error)
}

// BarSource returns daily price history for one symbol.
type BarSource interface {
	// Name returns the source identifier used in logs.
	Name() string

	// ReadBars returns daily bars for symbol whose trading date falls within
	// rng (both ends inclusive), in chronological order.
	ReadBars(ctx context.Context, symbol string, rng domain.DateRange) ([]domain.Bar, error)
}
