package yahoo

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/quotepulse/internal/period"
)

// Quote returns the v7 quote records for symbols, in the provider's order.
func (c *Client) Quote(ctx context.Context, symbols ...string) ([]map[string]any, error) {
	const endpoint = "/v7/finance/quote"
	tree, err := c.get(ctx, endpoint, url.Values{"symbols": {strings.Join(symbols, ",")}})
	if err != nil {
		return nil, err
	}
	env, _ := tree["quoteResponse"].(map[string]any)
	list, _ := env["result"].([]any)
	return Records(list), nil
}

// QuoteOne returns the quote for a single symbol.
func (c *Client) QuoteOne(ctx context.Context, symbol string) (map[string]any, error) {
	list, err := c.Quote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, notFound("/v7/finance/quote", "quote for "+symbol)
	}
	return list[0], nil
}

// ChartQuery parameters for the v8 chart endpoint.
type ChartQuery struct {
	Range          period.Range
	Interval       string
	Events         string
	IncludePrePost bool
}

// Chart returns {meta, quotes, events} for symbol. Resolved bounds are sent
// as period1/period2 epochs; a shorthand start ending "now" is sent as
// range=<token>. Mixed bounds are placed with period.Range.Normalize and a
// range it cannot place is rejected with *period.RangeError.
func (c *Client) Chart(ctx context.Context, symbol string, q ChartQuery) (map[string]any, error) {
	endpoint := "/v8/finance/chart/" + url.PathEscape(symbol)
	r, err := q.Range.Normalize()
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	if r.Start.Resolved() {
		params.Set("period1", r.Start.String())
		params.Set("period2", r.End.String())
	} else {
		params.Set("range", r.Start.Token)
	}
	if q.Interval != "" {
		params.Set("interval", q.Interval)
	}
	if q.Events != "" {
		params.Set("events", q.Events)
	}
	params.Set("includePrePost", strconv.FormatBool(q.IncludePrePost))

	tree, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	result, ok := firstResult(tree, "chart")
	if !ok {
		return nil, notFound(endpoint, "chart for "+symbol)
	}
	return chartFrame(result), nil
}

// Historical returns OHLCV rows with an adjClose column. Rows without a
// close price are skipped.
func (c *Client) Historical(ctx context.Context, symbol string, r period.Range, interval string) ([]map[string]any, error) {
	frame, err := c.Chart(ctx, symbol, ChartQuery{Range: r, Interval: interval, Events: "div|split"})
	if err != nil {
		return nil, err
	}
	quotes, _ := frame["quotes"].([]any)
	rows := make([]map[string]any, 0, len(quotes))
	for _, item := range quotes {
		q, _ := item.(map[string]any)
		if q == nil || q["close"] == nil {
			continue
		}
		adj := q["adjclose"]
		if adj == nil {
			adj = q["close"]
		}
		rows = append(rows, map[string]any{
			"date":     q["date"],
			"open":     q["open"],
			"high":     q["high"],
			"low":      q["low"],
			"close":    q["close"],
			"adjClose": adj,
			"volume":   q["volume"],
		})
	}
	return rows, nil
}

// QuoteSummary returns the requested v10 modules for symbol.
func (c *Client) QuoteSummary(ctx context.Context, symbol string, modules []string) (map[string]any, error) {
	endpoint := "/v10/finance/quoteSummary/" + url.PathEscape(symbol)
	tree, err := c.get(ctx, endpoint, url.Values{"modules": {strings.Join(modules, ",")}})
	if err != nil {
		return nil, err
	}
	result, ok := firstResult(tree, "quoteSummary")
	if !ok {
		return nil, notFound(endpoint, "quote summary for "+symbol)
	}
	return result, nil
}

// SearchQuery parameters for the v1 search endpoint.
type SearchQuery struct {
	QuotesCount int
	NewsCount   int
	Region      string
	Lang        string
}

// Search returns the raw search answer ({quotes, news, ...}).
func (c *Client) Search(ctx context.Context, query string, q SearchQuery) (map[string]any, error) {
	params := url.Values{"q": {query}}
	setInt(params, "quotesCount", q.QuotesCount)
	setInt(params, "newsCount", q.NewsCount)
	setString(params, "region", q.Region)
	setString(params, "lang", q.Lang)
	return c.get(ctx, "/v1/finance/search", params)
}

// RecommendationsBySymbol returns {symbol, recommendedSymbols}.
func (c *Client) RecommendationsBySymbol(ctx context.Context, symbol string) (map[string]any, error) {
	endpoint := "/v6/finance/recommendationsbysymbol/" + url.PathEscape(symbol)
	tree, err := c.get(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	result, ok := firstResult(tree, "finance")
	if !ok {
		return nil, notFound(endpoint, "recommendations for "+symbol)
	}
	return result, nil
}

// TrendingSymbols returns {count, quotes, jobTimestamp, ...} for region.
func (c *Client) TrendingSymbols(ctx context.Context, region string, count int) (map[string]any, error) {
	endpoint := "/v1/finance/trending/" + url.PathEscape(region)
	params := url.Values{}
	setInt(params, "count", count)
	tree, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	result, ok := firstResult(tree, "finance")
	if !ok {
		return map[string]any{"count": 0, "quotes": []any{}}, nil
	}
	return result, nil
}

// OptionsQuery parameters for the v7 options endpoint. With Formatted,
// numbers come back as display strings and dates stay epoch seconds.
type OptionsQuery struct {
	Date      time.Time
	Formatted bool
}

// Options returns the option chain for symbol.
func (c *Client) Options(ctx context.Context, symbol string, q OptionsQuery) (map[string]any, error) {
	endpoint := "/v7/finance/options/" + url.PathEscape(symbol)
	params := url.Values{"formatted": {strconv.FormatBool(q.Formatted)}}
	if !q.Date.IsZero() {
		params.Set("date", strconv.FormatInt(q.Date.Unix(), 10))
	}
	tree, err := c.fetch(ctx, endpoint, params, q.Formatted)
	if err != nil {
		return nil, err
	}
	result, ok := firstResult(tree, "optionChain")
	if !ok {
		return nil, notFound(endpoint, "options for "+symbol)
	}
	return result, nil
}

// InsightsQuery parameters for the insights endpoint.
type InsightsQuery struct {
	ReportsCount int
	Region       string
	Lang         string
}

// Insights returns technical events, valuation and research reports.
func (c *Client) Insights(ctx context.Context, symbol string, q InsightsQuery) (map[string]any, error) {
	const endpoint = "/ws/insights/v2/finance/insights"
	params := url.Values{"symbol": {symbol}}
	setInt(params, "reportsCount", q.ReportsCount)
	setString(params, "region", q.Region)
	setString(params, "lang", q.Lang)
	tree, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	env, _ := tree["finance"].(map[string]any)
	result, ok := env["result"].(map[string]any)
	if !ok {
		return nil, notFound(endpoint, "insights for "+symbol)
	}
	return result, nil
}

// ScreenerQuery parameters for a predefined screen.
type ScreenerQuery struct {
	ScrID  string
	Count  int
	Region string
	Lang   string
}

// Screener runs a predefined screen and returns finance.result[0]
// ({id, title, description, count, total, start, quotes}).
func (c *Client) Screener(ctx context.Context, q ScreenerQuery) (map[string]any, error) {
	const endpoint = "/v1/finance/screener/predefined/saved"
	params := url.Values{"scrIds": {q.ScrID}}
	setInt(params, "count", q.Count)
	setString(params, "region", q.Region)
	setString(params, "lang", q.Lang)
	tree, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	result, ok := firstResult(tree, "finance")
	if !ok {
		return nil, notFound(endpoint, "screen "+q.ScrID)
	}
	return result, nil
}

// Records keeps the object entries of a JSON list.
func Records(list []any) []map[string]any {
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func setInt(v url.Values, key string, n int) {
	if n > 0 {
		v.Set(key, strconv.Itoa(n))
	}
}

func setString(v url.Values, key, s string) {
	if s != "" {
		v.Set(key, s)
	}
}
