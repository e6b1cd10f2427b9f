package service

import (
	"context"
	"errors"
	"time"

	"github.com/guttosm/quotepulse/internal/domain/models"
	"github.com/guttosm/quotepulse/internal/logger"
	"github.com/guttosm/quotepulse/internal/normalize"
	"github.com/guttosm/quotepulse/internal/period"
	"github.com/guttosm/quotepulse/internal/sanitize"
	"github.com/guttosm/quotepulse/internal/screener"
	"github.com/guttosm/quotepulse/internal/yahoo"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Operation names, shared by every front-end.
const (
	OpGetQuote           = "get_quote"
	OpGetHistoricalData  = "get_historical_data"
	OpSearchSymbols      = "search_symbols"
	OpGetCompanyInfo     = "get_company_info"
	OpGetRecommendations = "get_recommendations"
	OpGetTrendingSymbols = "get_trending_symbols"
	OpGetMarketSummary   = "get_market_summary"
	OpGetNews            = "get_news"
	OpGetOptions         = "get_options"
	OpGetInsights        = "get_insights"
	OpGetDailyGainers    = "get_daily_gainers"
	OpGetDailyLosers     = "get_daily_losers"
	OpGetChart           = "get_chart"
	OpGetQuoteSummary    = "get_quote_summary"
)

var (
	companyStatsModules   = []string{"summaryDetail", "financialData", "defaultKeyStatistics"}
	companyProfileModules = []string{"assetProfile"}
)

// Provider is the upstream market-data source.
type Provider interface {
	QuoteOne(ctx context.Context, symbol string) (map[string]any, error)
	Chart(ctx context.Context, symbol string, q yahoo.ChartQuery) (map[string]any, error)
	Historical(ctx context.Context, symbol string, r period.Range, interval string) ([]map[string]any, error)
	QuoteSummary(ctx context.Context, symbol string, modules []string) (map[string]any, error)
	Search(ctx context.Context, query string, q yahoo.SearchQuery) (map[string]any, error)
	RecommendationsBySymbol(ctx context.Context, symbol string) (map[string]any, error)
	TrendingSymbols(ctx context.Context, region string, count int) (map[string]any, error)
	Options(ctx context.Context, symbol string, q yahoo.OptionsQuery) (map[string]any, error)
	Insights(ctx context.Context, symbol string, q yahoo.InsightsQuery) (map[string]any, error)
}

// Gateway exposes one method per market-data operation. Each method
// validates its parameters, calls the provider and returns a JSON-safe
// result or a classified *Error. A Gateway holds no per-call state and is
// safe for concurrent use.
type Gateway struct {
	provider Provider
	screener screener.Strategy
	now      func() time.Time
	log      zerolog.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithClock sets the time source used for "now" and result timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) {
		g.now = now
	}
}

// NewGateway builds a Gateway. The screener strategy serves the gainers
// and losers operations.
func NewGateway(p Provider, s screener.Strategy, opts ...Option) *Gateway {
	g := &Gateway{
		provider: p,
		screener: s,
		now:      time.Now,
		log:      logger.With("gateway"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) fail(op string, err error) error {
	e := upstream(op, err)
	g.log.Error().Err(err).Str("op", op).Int("status", e.Status).Msg("upstream call failed")
	return e
}

// GetQuote returns the provider quote for a symbol. The canonical quote
// fields are always present: null when missing, shortName defaulting to
// the symbol.
func (g *Gateway) GetQuote(ctx context.Context, p SymbolParams) (map[string]any, error) {
	if err := prepare(OpGetQuote, &p); err != nil {
		return nil, err
	}
	raw, err := g.provider.QuoteOne(ctx, p.Symbol)
	if err != nil {
		return nil, g.fail(OpGetQuote, err)
	}
	out := sanitize.Map(raw)
	if out == nil {
		out = map[string]any{}
	}
	for k, v := range sanitize.Map(normalize.QuoteFields.Apply(raw)) {
		out[k] = v
	}
	return out, nil
}

// GetHistoricalData returns OHLCV rows between period1 and period2.
func (g *Gateway) GetHistoricalData(ctx context.Context, p HistoricalParams) ([]any, error) {
	if err := prepare(OpGetHistoricalData, &p); err != nil {
		return nil, err
	}
	r, err := resolveRange(OpGetHistoricalData, p.Period1, p.Period2, g.now())
	if err != nil {
		return nil, err
	}
	rows, err := g.provider.Historical(ctx, p.Symbol, r, p.Interval)
	if err != nil {
		return nil, g.fail(OpGetHistoricalData, err)
	}
	out := make([]any, len(rows))
	for i, row := range rows {
		out[i] = sanitize.Map(row)
	}
	return out, nil
}

// SearchSymbols runs a free-text symbol search.
func (g *Gateway) SearchSymbols(ctx context.Context, p SearchParams) (map[string]any, error) {
	if err := prepare(OpSearchSymbols, &p); err != nil {
		return nil, err
	}
	res, err := g.provider.Search(ctx, p.Query, yahoo.SearchQuery{})
	if err != nil {
		return nil, g.fail(OpSearchSymbols, err)
	}
	return sanitize.Map(res), nil
}

// GetCompanyInfo joins key statistics with the asset profile. Both calls
// run concurrently; a failed profile call yields a nil profile.
func (g *Gateway) GetCompanyInfo(ctx context.Context, p SymbolParams) (*models.CompanyInfo, error) {
	if err := prepare(OpGetCompanyInfo, &p); err != nil {
		return nil, err
	}

	var stats, profile map[string]any
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		stats, err = g.provider.QuoteSummary(egCtx, p.Symbol, companyStatsModules)
		return err
	})
	eg.Go(func() error {
		res, err := g.provider.QuoteSummary(egCtx, p.Symbol, companyProfileModules)
		if err != nil {
			g.log.Debug().Err(err).Str("symbol", p.Symbol).Msg("asset profile unavailable")
			return nil
		}
		profile = res
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, g.fail(OpGetCompanyInfo, err)
	}

	return &models.CompanyInfo{Quote: sanitize.Map(stats), Profile: sanitize.Map(profile)}, nil
}

// GetRecommendations returns symbols similar to the given one.
func (g *Gateway) GetRecommendations(ctx context.Context, p SymbolParams) (map[string]any, error) {
	if err := prepare(OpGetRecommendations, &p); err != nil {
		return nil, err
	}
	res, err := g.provider.RecommendationsBySymbol(ctx, p.Symbol)
	if err != nil {
		return nil, g.fail(OpGetRecommendations, err)
	}
	return sanitize.Map(res), nil
}

// GetTrendingSymbols returns the trending symbols of a region.
func (g *Gateway) GetTrendingSymbols(ctx context.Context, p TrendingParams) (map[string]any, error) {
	if err := prepare(OpGetTrendingSymbols, &p); err != nil {
		return nil, err
	}
	res, err := g.provider.TrendingSymbols(ctx, p.Region, p.Count)
	if err != nil {
		return nil, g.fail(OpGetTrendingSymbols, err)
	}
	return sanitize.Map(res), nil
}

// GetMarketSummary quotes the major indices concurrently. The output keeps
// the MarketIndices order whatever the completion order.
func (g *Gateway) GetMarketSummary(ctx context.Context, p MarketSummaryParams) (*models.MarketSummary, error) {
	if err := prepare(OpGetMarketSummary, &p); err != nil {
		return nil, err
	}

	indices := make([]models.IndexSnapshot, len(MarketIndices))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, symbol := range MarketIndices {
		eg.Go(func() error {
			raw, err := g.provider.QuoteOne(egCtx, symbol)
			if err != nil {
				return err
			}
			snap, err := normalize.Index(raw)
			if err != nil {
				return err
			}
			indices[i] = snap
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, g.fail(OpGetMarketSummary, err)
	}

	return &models.MarketSummary{Indices: indices, Timestamp: sanitize.ISO(g.now())}, nil
}

// GetNews returns news articles matching a query.
func (g *Gateway) GetNews(ctx context.Context, p NewsParams) ([]any, error) {
	if err := prepare(OpGetNews, &p); err != nil {
		return nil, err
	}
	res, err := g.provider.Search(ctx, p.Query, yahoo.SearchQuery{NewsCount: p.NewsCount, Region: p.Region, Lang: p.Lang})
	if err != nil {
		return nil, g.fail(OpGetNews, err)
	}
	news, _ := sanitize.Value(res["news"]).([]any)
	if news == nil {
		news = []any{}
	}
	return news, nil
}

// GetOptions returns the option chain, optionally for one expiration date.
func (g *Gateway) GetOptions(ctx context.Context, p OptionsParams) (map[string]any, error) {
	if err := prepare(OpGetOptions, &p); err != nil {
		return nil, err
	}
	q := yahoo.OptionsQuery{Formatted: p.Formatted}
	if p.Date != "" {
		q.Date = period.Resolve(p.Date, g.now()).At
	}
	res, err := g.provider.Options(ctx, p.Symbol, q)
	if err != nil {
		return nil, g.fail(OpGetOptions, err)
	}
	return sanitize.Map(res), nil
}

// GetInsights returns technical and research insights for a symbol.
func (g *Gateway) GetInsights(ctx context.Context, p InsightsParams) (map[string]any, error) {
	if err := prepare(OpGetInsights, &p); err != nil {
		return nil, err
	}
	res, err := g.provider.Insights(ctx, p.Symbol, yahoo.InsightsQuery{ReportsCount: p.ReportsCount, Region: p.Region, Lang: p.Lang})
	if err != nil {
		return nil, g.fail(OpGetInsights, err)
	}
	return sanitize.Map(res), nil
}

// GetDailyGainers returns the day's top gaining equities.
func (g *Gateway) GetDailyGainers(ctx context.Context, p ScreenerParams) (*models.ScreenerResult, error) {
	return g.screen(ctx, OpGetDailyGainers, screener.DayGainers, p)
}

// GetDailyLosers returns the day's top losing equities.
func (g *Gateway) GetDailyLosers(ctx context.Context, p ScreenerParams) (*models.ScreenerResult, error) {
	return g.screen(ctx, OpGetDailyLosers, screener.DayLosers, p)
}

func (g *Gateway) screen(ctx context.Context, op, scrID string, p ScreenerParams) (*models.ScreenerResult, error) {
	if err := prepare(op, &p); err != nil {
		return nil, err
	}
	q := screener.Query{ScrID: scrID, Count: p.Count, Region: p.Region, Lang: p.Lang}
	raw, err := g.screener.Screen(ctx, q)
	if err != nil {
		return nil, g.fail(op, err)
	}
	res, err := screener.Build(q, raw, g.now())
	if err != nil {
		return nil, g.fail(op, err)
	}
	return res, nil
}

// GetChart returns {meta, quotes, events} between period1 and period2.
func (g *Gateway) GetChart(ctx context.Context, p ChartParams) (map[string]any, error) {
	if err := prepare(OpGetChart, &p); err != nil {
		return nil, err
	}
	r, err := resolveRange(OpGetChart, p.Period1, p.Period2, g.now())
	if err != nil {
		return nil, err
	}
	q := yahoo.ChartQuery{
		Range:    r,
		Interval: p.Interval,
		Events:   p.Events,
	}
	res, err := g.provider.Chart(ctx, p.Symbol, q)
	if err != nil {
		return nil, g.fail(OpGetChart, err)
	}
	return sanitize.Map(res), nil
}

// GetQuoteSummary returns the requested quote summary modules.
func (g *Gateway) GetQuoteSummary(ctx context.Context, p QuoteSummaryParams) (map[string]any, error) {
	if err := prepare(OpGetQuoteSummary, &p); err != nil {
		return nil, err
	}
	res, err := g.provider.QuoteSummary(ctx, p.Symbol, p.Modules)
	if err != nil {
		return nil, g.fail(OpGetQuoteSummary, err)
	}
	return sanitize.Map(res), nil
}

// resolveRange resolves and places both bounds, reporting an unplaceable
// bound as a validation failure on that parameter.
func resolveRange(op, start, end string, now time.Time) (period.Range, error) {
	r, err := period.ResolveRange(start, end, now).Normalize()
	if err != nil {
		var re *period.RangeError
		if errors.As(err, &re) {
			return r, NewValidationError(op, re.Field, re.Error())
		}
		return r, err
	}
	return r, nil
}
