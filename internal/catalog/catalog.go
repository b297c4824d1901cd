// Package catalog loads the universe of selectable ticker symbols once at
// startup and exposes it read-only to the dashboard.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"stockdash/internal/domain"
	"stockdash/internal/source"
)

// MaxNameLen is the exclusive upper bound on display-name length, in characters.
const MaxNameLen = 40

// ErrEmptyCatalog is returned when no entry survives cleaning.
var ErrEmptyCatalog = errors.New("no selectable symbols after filtering")

// Option is one dropdown choice: the display name shown, the symbol submitted.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Catalog is an immutable, ordered set of symbol entries.
type Catalog struct {
	entries []domain.SymbolEntry
	options []Option
	index   map[string]int
}

// Load fetches the symbol directory and builds a Catalog from it. A fetch
// failure or an empty result is an error; there is no fallback catalog.
func Load(ctx context.Context, dir source.Directory, log *slog.Logger) (*Catalog, error) {
	start := time.Now()
	raw, err := dir.ListSymbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing symbols from %s: %w", dir.Name(), err)
	}

	c := New(raw)
	if c.Len() == 0 {
		return nil, fmt.Errorf("loading catalog from %s: %w", dir.Name(), ErrEmptyCatalog)
	}

	log.Info("catalog loaded",
		"source", dir.Name(),
		"upstream", len(raw),
		"kept", c.Len(),
		"dropped", len(raw)-c.Len(),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return c, nil
}

// New builds a Catalog from raw directory entries after cleaning them.
func New(raw []domain.SymbolEntry) *Catalog {
	entries := Clean(raw)
	c := &Catalog{
		entries: entries,
		options: make([]Option, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		c.options[i] = Option{Label: e.Name, Value: e.Symbol}
		c.index[e.Symbol] = i
	}
	return c
}

// Clean applies the filtering pipeline in order: surrounding whitespace is
// trimmed and entries with an empty symbol or name are dropped, then entries
// whose name has MaxNameLen or more characters are dropped. The first entry
// wins when a symbol repeats. Survivors keep their upstream order in a new
// dense slice.
func Clean(raw []domain.SymbolEntry) []domain.SymbolEntry {
	out := make([]domain.SymbolEntry, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, e := range raw {
		sym := strings.TrimSpace(e.Symbol)
		name := strings.TrimSpace(e.Name)
		if sym == "" || name == "" {
			continue
		}
		if utf8.RuneCountInString(name) >= MaxNameLen {
			continue
		}
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}
		out = append(out, domain.SymbolEntry{Symbol: sym, Name: name})
	}
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Entries returns a copy of the entries in catalog order.
func (c *Catalog) Entries() []domain.SymbolEntry {
	out := make([]domain.SymbolEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Options returns a copy of the dropdown options in catalog order.
func (c *Catalog) Options() []Option {
	out := make([]Option, len(c.options))
	copy(out, c.options)
	return out
}

// Lookup returns the entry for symbol.
func (c *Catalog) Lookup(symbol string) (domain.SymbolEntry, bool) {
	i, ok := c.index[symbol]
	if !ok {
		return domain.SymbolEntry{}, false
	}
	return c.entries[i], true
}
