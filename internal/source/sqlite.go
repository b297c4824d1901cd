package source

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"stockdash/internal/domain"
)

// Compile-time interface check.
var _ Directory = (*SQLiteDirectory)(nil)

// SQLiteDirectory serves the symbol directory from a reference database with
// a table symbols(symbol TEXT, name TEXT).
type SQLiteDirectory struct {
	db *sql.DB
}

// OpenSQLiteDirectory opens the reference database at dbPath.
func OpenSQLiteDirectory(dbPath string) (*SQLiteDirectory, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", dbPath, err)
	}
	return &SQLiteDirectory{db: db}, nil
}

// Name returns the source identifier.
func (s *SQLiteDirectory) Name() string { return "sqlite" }

// ListSymbols returns every row of the symbols table ordered by symbol.
// NULL columns come back as empty strings.
func (s *SQLiteDirectory) ListSymbols(ctx context.Context) ([]domain.SymbolEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT symbol, name FROM symbols ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("query symbols: %w", err)
	}
	defer rows.Close()

	var entries []domain.SymbolEntry
	for rows.Next() {
		var sym, name sql.NullString
		if err := rows.Scan(&sym, &name); err != nil {
			return nil, fmt.Errorf("scan symbol row: %w", err)
		}
		entries = append(entries, domain.SymbolEntry{Symbol: sym.String, Name: name.String})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate symbols: %w", err)
	}
	return entries, nil
}

// Close closes the underlying database connection.
func (s *SQLiteDirectory) Close() error {
	return s.db.Close()
}
