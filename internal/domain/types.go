// Package domain defines the core value types shared by the dashboard
// packages: catalog entries, date ranges, selections and price history.
package domain

import "time"

// DateLayout is the calendar-date wire format used everywhere (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// Market identifies the exchange group a symbol trades in.
type Market string

const (
	MarketUS Market = "us"
)

// SymbolEntry is one selectable ticker in the catalog.
type SymbolEntry struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// DateRange is an inclusive range of calendar dates. Both ends are midnight UTC.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls on a calendar day within the range.
func (r DateRange) Contains(t time.Time) bool {
	d := TruncateDay(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Selection is a validated chart request: at least one symbol and a
// well-ordered date range.
type Selection struct {
	Symbols []string
	Range   DateRange
}

// Bar is one daily OHLCV row from an upstream price source.
type Bar struct {
	Symbol     string
	Timestamp  time.Time
	Open       float64
	High       float64
	Low        float64
	Close      float64
	Volume     int64
	TradeCount int64
	VWAP       float64
}

// PricePoint is a (date, closing price) pair.
type PricePoint struct {
	Date  string
	Close float64
}

// PriceSeries is the closing-price history of one symbol, ordered by date.
type PriceSeries struct {
	Symbol string
	Points []PricePoint
}

// SeriesFromBars converts bars into a PriceSeries keyed by trading date.
// Bars are expected in chronological order.
func SeriesFromBars(symbol string, bars []Bar) PriceSeries {
	points := make([]PricePoint, 0, len(bars))
	for _, b := range bars {
		points = append(points, PricePoint{
			Date:  b.Timestamp.UTC().Format(DateLayout),
			Close: b.Close,
		})
	}
	return PriceSeries{Symbol: symbol, Points: points}
}

// ParseDate parses a YYYY-MM-DD string into midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// TruncateDay returns midnight UTC of t's UTC calendar day.
func TruncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
