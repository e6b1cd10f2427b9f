// Package servicetest provides an in-memory provider and screener for
// front-end tests.
package servicetest

import (
	"context"
	"time"

	"github.com/guttosm/quotepulse/internal/period"
	"github.com/guttosm/quotepulse/internal/screener"
	"github.com/guttosm/quotepulse/internal/service"
	"github.com/guttosm/quotepulse/internal/yahoo"
)

// Now is the fixed clock of gateways built by NewGateway.
var Now = time.Date(2024, 1, 15, 15, 30, 0, 0, time.UTC)

// Provider answers every call with small canned documents. Err, when set,
// fails every call. Quotes overrides QuoteOne per symbol.
type Provider struct {
	Err    error
	Quotes map[string]map[string]any
}

func (p *Provider) QuoteOne(_ context.Context, symbol string) (map[string]any, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	if q, ok := p.Quotes[symbol]; ok {
		return q, nil
	}
	return map[string]any{
		"symbol":             symbol,
		"shortName":          symbol + " Inc.",
		"regularMarketPrice": 100.0,
		"regularMarketTime":  Now,
	}, nil
}

func (p *Provider) Chart(_ context.Context, symbol string, _ yahoo.ChartQuery) (map[string]any, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return map[string]any{
		"meta":   map[string]any{"symbol": symbol},
		"quotes": []any{map[string]any{"date": Now, "close": 1.0}},
		"events": map[string]any{},
	}, nil
}

func (p *Provider) Historical(_ context.Context, _ string, _ period.Range, _ string) ([]map[string]any, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return []map[string]any{{"date": Now, "close": 1.0, "adjClose": 1.0}}, nil
}

func (p *Provider) QuoteSummary(_ context.Context, symbol string, modules []string) (map[string]any, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	out := map[string]any{}
	for _, m := range modules {
		out[m] = map[string]any{"symbol": symbol}
	}
	return out, nil
}

func (p *Provider) Search(_ context.Context, query string, _ yahoo.SearchQuery) (map[string]any, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return map[string]any{
		"quotes": []any{map[string]any{"symbol": "AAPL"}},
		"news":   []any{map[string]any{"title": query + " headline", "providerPublishTime": Now}},
	}, nil
}

func (p *Provider) RecommendationsBySymbol(_ context.Context, symbol string) (map[string]any, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return map[string]any{"symbol": symbol, "recommendedSymbols": []any{}}, nil
}

func (p *Provider) TrendingSymbols(_ context.Context, region string, count int) (map[string]any, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return map[string]any{"region": region, "count": count, "quotes": []any{}}, nil
}

func (p *Provider) Options(_ context.Context, symbol string, _ yahoo.OptionsQuery) (map[string]any, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return map[string]any{"underlyingSymbol": symbol, "options": []any{}}, nil
}

func (p *Provider) Insights(_ context.Context, symbol string, _ yahoo.InsightsQuery) (map[string]any, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return map[string]any{"symbol": symbol}, nil
}

// Screener returns a strategy serving n quotes per call, or err.
func Screener(n int, err error) screener.Strategy {
	return screener.StrategyFunc(func(_ context.Context, q screener.Query) (*screener.RawResult, error) {
		if err != nil {
			return nil, err
		}
		quotes := make([]map[string]any, n)
		for i := range quotes {
			quotes[i] = map[string]any{"symbol": "SYM", "regularMarketChangePercent": float64(n - i)}
		}
		return &screener.RawResult{ID: q.ScrID, Quotes: quotes}, nil
	})
}

// NewGateway builds a gateway over p with a fixed clock.
func NewGateway(p *Provider, s screener.Strategy) *service.Gateway {
	if s == nil {
		s = Screener(3, nil)
	}
	return service.NewGateway(p, s, service.WithClock(func() time.Time { return Now }))
}
