package toolkit

import (
	"context"
	"fmt"

	"github.com/guttosm/quotepulse/internal/service"
)

// MIMEJSON is the content type of every resource.
const MIMEJSON = "application/json"

// Resource URIs.
const (
	URIMarketSummary   = "yahoo-finance://market-summary"
	URITrendingSymbols = "yahoo-finance://trending-symbols"
	URIDailyGainers    = "yahoo-finance://daily-gainers"
	URIDailyLosers     = "yahoo-finance://daily-losers"
	URIGeneralNews     = "yahoo-finance://news/general"
)

// Resource is a read-only document backed by a gateway operation with
// fixed arguments.
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MIMEType    string `json:"mime_type"`
	read        func(ctx context.Context) (any, error)
}

func gatewayResources(g *service.Gateway) []Resource {
	return []Resource{
		{
			URI:         URIMarketSummary,
			Name:        "Market Summary",
			Description: "Current market summary and major indices",
			read: func(ctx context.Context) (any, error) {
				return g.GetMarketSummary(ctx, service.MarketSummaryParams{})
			},
		},
		{
			URI:         URITrendingSymbols,
			Name:        "Trending Symbols",
			Description: "Currently trending symbols",
			read: func(ctx context.Context) (any, error) {
				return g.GetTrendingSymbols(ctx, service.TrendingParams{})
			},
		},
		{
			URI:         URIDailyGainers,
			Name:        "Daily Gainers",
			Description: "Stocks with highest gains today",
			read: func(ctx context.Context) (any, error) {
				return g.GetDailyGainers(ctx, service.ScreenerParams{})
			},
		},
		{
			URI:         URIDailyLosers,
			Name:        "Daily Losers",
			Description: "Stocks with highest losses today",
			read: func(ctx context.Context) (any, error) {
				return g.GetDailyLosers(ctx, service.ScreenerParams{})
			},
		},
		{
			URI:         URIGeneralNews,
			Name:        "General Market News",
			Description: "General market news and updates",
			read: func(ctx context.Context) (any, error) {
				return g.GetNews(ctx, service.NewsParams{Query: "market", NewsCount: 10})
			},
		},
	}
}

// Resources lists every resource in declaration order.
func (r *Registry) Resources() []Resource {
	return append([]Resource(nil), r.resources...)
}

// ReadResource renders the resource at uri as indented JSON.
func (r *Registry) ReadResource(ctx context.Context, uri string) (string, error) {
	i, ok := r.byURI[uri]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownResource, uri)
	}
	v, err := r.resources[i].read(ctx)
	if err != nil {
		r.log.Warn().Err(err).Str("uri", uri).Msg("resource read failed")
		return "", err
	}
	return Render(v)
}
