package chart

import (
	"context"
	"fmt"
	"log/slog"

	"stockdash/internal/domain"
	"stockdash/internal/source"
)

// Builder fetches price history for a selection and assembles the chart.
type Builder struct {
	bars source.BarSource
	log  *slog.Logger
}

// NewBuilder creates a Builder reading from bars.
func NewBuilder(bars source.BarSource, log *slog.Logger) *Builder {
	return &Builder{
		bars: bars,
		log:  log.With("component", "chart"),
	}
}

// Build fetches one series per selected symbol, sequentially and in selection
// order, then assembles the Figure. The first fetch error aborts the build.
func (b *Builder) Build(ctx context.Context, sel domain.Selection) (Figure, error) {
	series := make([]Series, 0, len(sel.Symbols))
	for _, sym := range sel.Symbols {
		bars, err := b.bars.ReadBars(ctx, sym, sel.Range)
		if err != nil {
			return Figure{}, fmt.Errorf("fetching %s from %s: %w", sym, b.bars.Name(), err)
		}
		if len(bars) == 0 {
			b.log.Warn("no bars in range", "symbol", sym,
				"start", sel.Range.Start.Format(domain.DateLayout),
				"end", sel.Range.End.Format(domain.DateLayout))
		}
		series = append(series, seriesFromBars(sym, bars))
	}
	return Assemble(series), nil
}

func seriesFromBars(symbol string, bars []domain.Bar) Series {
	ps := domain.SeriesFromBars(symbol, bars)
	s := Series{
		Symbol: symbol,
		Dates:  make([]string, len(ps.Points)),
		Closes: make([]float64, len(ps.Points)),
	}
	for i, p := range ps.Points {
		s.Dates[i] = p.Date
		s.Closes[i] = p.Close
	}
	return s
}
