package source

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"stockdash/internal/config"
)

// Set is the pair of upstreams selected by configuration.
type Set struct {
	Directory Directory
	Bars      BarSource

	closers []io.Closer
}

// Open builds the directory and bar source named in cfg.Source. Alpaca and
// Parquet instances are shared when both roles use the same kind.
func Open(cfg *config.Config, log *slog.Logger) (*Set, error) {
	s := &Set{}

	var (
		alpacaSrc  *Alpaca
		parquetSrc *ParquetArchive
	)
	getAlpaca := func() *Alpaca {
		if alpacaSrc == nil {
			alpacaSrc = NewAlpaca(AlpacaOpts{
				APIKey:    cfg.Alpaca.APIKey,
				APISecret: cfg.Alpaca.APISecret,
				BaseURL:   cfg.Alpaca.BaseURL,
				DataURL:   cfg.Alpaca.DataURL,
				Feed:      cfg.Alpaca.Feed,
			}, log)
		}
		return alpacaSrc
	}
	getParquet := func() *ParquetArchive {
		if parquetSrc == nil {
			parquetSrc = NewParquetArchive(cfg.Storage.DataDir)
		}
		return parquetSrc
	}

	switch cfg.Source.Symbols {
	case config.SourceAlpaca:
		s.Directory = getAlpaca()
	case config.SourceParquet:
		s.Directory = getParquet()
	case config.SourceSQLite:
		dir, err := OpenSQLiteDirectory(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		s.Directory = dir
		s.closers = append(s.closers, dir)
	default:
		return nil, fmt.Errorf("unknown symbol source %q", cfg.Source.Symbols)
	}

	switch cfg.Source.Prices {
	case config.SourceAlpaca:
		s.Bars = getAlpaca()
	case config.SourceParquet:
		s.Bars = getParquet()
	default:
		s.Close()
		return nil, fmt.Errorf("unknown price source %q", cfg.Source.Prices)
	}

	log.Info("sources ready", "symbols", s.Directory.Name(), "prices", s.Bars.Name())
	return s, nil
}

// Close releases any resources held by the sources.
func (s *Set) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
