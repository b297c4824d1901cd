package source

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"stockdash/internal/domain"
)

// Compile-time interface checks.
var _ Directory = (*Alpaca)(nil)
var _ BarSource = (*Alpaca)(nil)

// AlpacaOpts holds credentials and endpoints for the Alpaca APIs.
type AlpacaOpts struct {
	APIKey    string
	APISecret string
	BaseURL   string // trading API, used for the asset directory
	DataURL   string // market-data API, used for bars
	Feed      string // "iex" or "sip"
}

// Alpaca serves the symbol directory from the trading API asset list and
// price history from the market-data bars endpoint.
type Alpaca struct {
	trading *alpaca.Client
	data    *marketdata.Client
	feed    marketdata.Feed
	log     *slog.Logger
}

// NewAlpaca creates an Alpaca source from the given options.
func NewAlpaca(opts AlpacaOpts, log *slog.Logger) *Alpaca {
	tradingOpts := alpaca.ClientOpts{
		APIKey:    opts.APIKey,
		APISecret: opts.APISecret,
	}
	if opts.BaseURL != "" {
		tradingOpts.BaseURL = opts.BaseURL
	}

	dataOpts := marketdata.ClientOpts{
		APIKey:    opts.APIKey,
		APISecret: opts.APISecret,
	}
	if opts.DataURL != "" {
		dataOpts.BaseURL = opts.DataURL
	}

	feed := opts.Feed
	if feed == "" {
		feed = "iex"
	}

	return &Alpaca{
		trading: alpaca.NewClient(tradingOpts),
		data:    marketdata.NewClient(dataOpts),
		feed:    marketdata.Feed(feed),
		log:     log.With("source", "alpaca"),
	}
}

// Name returns the source identifier.
func (a *Alpaca) Name() string { return "alpaca" }

// ListSymbols returns all active US equity assets, sorted by symbol.
func (a *Alpaca) ListSymbols(ctx context.Context) ([]domain.SymbolEntry, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	assets, err := a.trading.GetAssets(alpaca.GetAssetsRequest{
		Status:     "active",
		AssetClass: "us_equity",
	})
	if err != nil {
		return nil, fmt.Errorf("GetAssets: %w", err)
	}

	entries := make([]domain.SymbolEntry, 0, len(assets))
	for _, as := range assets {
		entries = append(entries, domain.SymbolEntry{
			Symbol: as.Symbol,
			Name:   as.Name,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Symbol < entries[j].Symbol
	})

	a.log.Debug("assets listed", "count", len(entries))
	return entries, nil
}

// ReadBars fetches daily bars for symbol over rng. The request end is pushed
// to the following midnight so the bar stamped on rng.End is included.
func (a *Alpaca) ReadBars(ctx context.Context, symbol string, rng domain.DateRange) ([]domain.Bar, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	alpacaBars, err := a.data.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     rng.Start,
		End:       rng.End.AddDate(0, 0, 1),
		Feed:      a.feed,
	})
	if err != nil {
		return nil, fmt.Errorf("GetBars %s: %w", symbol, err)
	}

	bars := make([]domain.Bar, 0, len(alpacaBars))
	for _, ab := range alpacaBars {
		if !rng.Contains(ab.Timestamp) {
			continue
		}
		bars = append(bars, domain.Bar{
			Symbol:     strings.ToUpper(symbol),
			Timestamp:  ab.Timestamp,
			Open:       ab.Open,
			High:       ab.High,
			Low:        ab.Low,
			Close:      ab.Close,
			Volume:     int64(ab.Volume),
			TradeCount: int64(ab.TradeCount),
			VWAP:       ab.VWAP,
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp.Before(bars[j].Timestamp) })
	return bars, nil
}
