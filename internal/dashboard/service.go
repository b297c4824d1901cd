// Package dashboard holds the callbacks behind the dashboard page: input
// validation, the update that turns a request into a chart, and the catalog
// options for the symbol dropdown.
package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"stockdash/internal/catalog"
	"stockdash/internal/chart"
	"stockdash/internal/domain"
)

// ChartBuilder assembles a chart for a validated selection.
type ChartBuilder interface {
	Build(ctx context.Context, sel domain.Selection) (chart.Figure, error)
}

// Service answers the page's update and options callbacks. It holds no
// mutable state, so concurrent calls are independent.
type Service struct {
	catalog *catalog.Catalog
	builder ChartBuilder
	log     *slog.Logger
}

// NewService creates a Service over an already loaded catalog.
func NewService(cat *catalog.Catalog, builder ChartBuilder, log *slog.Logger) *Service {
	return &Service{
		catalog: cat,
		builder: builder,
		log:     log.With("component", "dashboard"),
	}
}

// Catalog returns the catalog the service was built with.
func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

// Options returns the dropdown options. The current selection is accepted
// for symmetry with the page callback but does not affect the result.
func (s *Service) Options(_ []string) []catalog.Option {
	return s.catalog.Options()
}

// Update validates req and builds the chart. Idle requests, rejected requests
// and build failures all yield the empty chart, so the page never shows stale
// or partial data after a failed update.
func (s *Service) Update(ctx context.Context, req Request) chart.Figure {
	res := Validate(req)
	switch res.Status {
	case StatusIdle:
		return chart.Empty()
	case StatusRejected:
		s.log.Warn("update rejected", "kind", Kind(res.Err), "error", res.Err, "clicks", req.NClicks)
		return chart.Empty()
	}

	log := s.log.With("request_id", uuid.NewString())
	sel := res.Selection
	start := time.Now()

	fig, err := s.builder.Build(ctx, sel)
	if err != nil {
		log.Error("update failed", "kind", Kind(err), "error", err, "symbols", sel.Symbols)
		return chart.Empty()
	}

	log.Info("chart built",
		"symbols", sel.Symbols,
		"start", sel.Range.Start.Format(domain.DateLayout),
		"end", sel.Range.End.Format(domain.DateLayout),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return fig
}
