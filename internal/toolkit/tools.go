package toolkit

import (
	"github.com/guttosm/quotepulse/internal/service"
)

// Shared parameter declarations.
var (
	symbolParam = Param{Name: "symbol", Type: TypeString, Description: "Stock symbol (e.g., AAPL, GOOGL)", Required: true}
	regionParam = Param{Name: "region", Type: TypeString, Description: "Region", Default: "US"}
	langParam   = Param{Name: "lang", Type: TypeString, Description: "Language", Default: "en-US"}
)

func intervalParam() Param {
	return Param{
		Name:        "interval",
		Type:        TypeString,
		Description: "Data interval (1m, 2m, 5m, 15m, 30m, 60m, 90m, 1h, 1d, 5d, 1wk, 1mo, 3mo)",
		Default:     "1d",
	}
}

func period1Param(def string) Param {
	return Param{Name: "period1", Type: TypeString, Description: "Start date (YYYY-MM-DD) or period like '1mo', '1y'", Default: def}
}

func period2Param() Param {
	return Param{Name: "period2", Type: TypeString, Description: "End date (YYYY-MM-DD) or 'now'", Default: "now"}
}

// gatewayTools declares one tool per gateway operation.
func gatewayTools(g *service.Gateway) []Tool {
	return []Tool{
		// ─── basic ───
		{
			Name:        service.OpGetQuote,
			Description: "Get current stock quote information",
			Group:       GroupBasic,
			Params:      []Param{symbolParam},
			invoke:      bind(service.OpGetQuote, g.GetQuote),
		},
		{
			Name:        service.OpSearchSymbols,
			Description: "Search for stock symbols",
			Group:       GroupBasic,
			Params:      []Param{{Name: "query", Type: TypeString, Description: "Search query", Required: true}},
			invoke:      bind(service.OpSearchSymbols, g.SearchSymbols),
		},
		{
			Name:        service.OpGetCompanyInfo,
			Description: "Get company information and statistics",
			Group:       GroupBasic,
			Params:      []Param{symbolParam},
			invoke:      bind(service.OpGetCompanyInfo, g.GetCompanyInfo),
		},
		{
			Name:        service.OpGetMarketSummary,
			Description: "Get market summary with major indices",
			Group:       GroupBasic,
			Params:      []Param{},
			invoke:      bind(service.OpGetMarketSummary, g.GetMarketSummary),
		},

		// ─── advanced ───
		{
			Name:        service.OpGetHistoricalData,
			Description: "Get historical stock data",
			Group:       GroupAdvanced,
			Params:      []Param{symbolParam, period1Param("1y"), period2Param(), intervalParam()},
			invoke:      bind(service.OpGetHistoricalData, g.GetHistoricalData),
		},
		{
			Name:        service.OpGetChart,
			Description: "Get chart data for a stock symbol",
			Group:       GroupAdvanced,
			Params: []Param{
				symbolParam, period1Param("1mo"), period2Param(), intervalParam(),
				{Name: "events", Type: TypeString, Description: "Event types to return (div|split|earn)", Default: "div|split|earn"},
			},
			invoke: bind(service.OpGetChart, g.GetChart),
		},
		{
			Name:        service.OpGetQuoteSummary,
			Description: "Get comprehensive quote summary with various modules",
			Group:       GroupAdvanced,
			Params: []Param{
				symbolParam,
				{
					Name: "modules",
					Type: TypeArray,
					Description: "Modules to include (assetProfile, summaryDetail, recommendationTrend, financialData, " +
						"earningsHistory, defaultKeyStatistics, calendarEvents, etc.)",
					Default: service.DefaultSummaryModules,
				},
			},
			invoke: bind(service.OpGetQuoteSummary, g.GetQuoteSummary),
		},
		{
			Name:        service.OpGetOptions,
			Description: "Get options data for a stock symbol",
			Group:       GroupAdvanced,
			Params: []Param{
				symbolParam,
				{Name: "date", Type: TypeString, Description: "Expiration date for options (YYYY-MM-DD format)"},
				{Name: "formatted", Type: TypeBoolean, Description: "Whether to format the data", Default: false},
			},
			invoke: bind(service.OpGetOptions, g.GetOptions),
		},

		// ─── analysis ───
		{
			Name:        service.OpGetRecommendations,
			Description: "Get analyst recommendations for a stock",
			Group:       GroupAnalysis,
			Params:      []Param{symbolParam},
			invoke:      bind(service.OpGetRecommendations, g.GetRecommendations),
		},
		{
			Name:        service.OpGetInsights,
			Description: "Get insights and analysis for a stock",
			Group:       GroupAnalysis,
			Params: []Param{
				symbolParam,
				{Name: "reportsCount", Type: TypeNumber, Description: "Number of reports to return", Default: 5},
				regionParam, langParam,
			},
			invoke: bind(service.OpGetInsights, g.GetInsights),
		},
		{
			Name:        service.OpGetDailyGainers,
			Description: "Get stocks with the highest gains for the day",
			Group:       GroupAnalysis,
			Params: []Param{
				{Name: "count", Type: TypeNumber, Description: "Number of gainers to return", Default: 10},
				regionParam, langParam,
			},
			invoke: bind(service.OpGetDailyGainers, g.GetDailyGainers),
		},
		{
			Name:        service.OpGetDailyLosers,
			Description: "Get stocks with the highest losses for the day",
			Group:       GroupAnalysis,
			Params: []Param{
				{Name: "count", Type: TypeNumber, Description: "Number of losers to return", Default: 10},
				regionParam, langParam,
			},
			invoke: bind(service.OpGetDailyLosers, g.GetDailyLosers),
		},

		// ─── news ───
		{
			Name:        service.OpGetNews,
			Description: "Search for news articles related to a query",
			Group:       GroupNews,
			Params: []Param{
				{Name: "query", Type: TypeString, Description: "Search query for news", Required: true},
				{Name: "newsCount", Type: TypeNumber, Description: "Number of news articles to return", Default: 10},
				regionParam, langParam,
			},
			invoke: bind(service.OpGetNews, g.GetNews),
		},
		{
			Name:        service.OpGetTrendingSymbols,
			Description: "Get trending symbols from Yahoo Finance",
			Group:       GroupNews,
			Params: []Param{
				{Name: "region", Type: TypeString, Description: "Region (US, GB, CA, etc.)", Default: "US"},
				{Name: "count", Type: TypeNumber, Description: "Number of trending symbols to return", Default: 20},
			},
			invoke: bind(service.OpGetTrendingSymbols, g.GetTrendingSymbols),
		},
	}
}
