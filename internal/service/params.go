package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Intervals accepted by the chart and historical operations.
var Intervals = []string{"1m", "2m", "5m", "15m", "30m", "60m", "90m", "1h", "1d", "5d", "1wk", "1mo", "3mo"}

// DefaultSummaryModules are requested when get_quote_summary has none.
var DefaultSummaryModules = []string{"summaryDetail", "financialData", "recommendationTrend", "defaultKeyStatistics"}

// MarketIndices are the market summary symbols, in output order.
var MarketIndices = []string{"^GSPC", "^DJI", "^IXIC", "^RUT", "^VIX"}

const (
	defaultRegion = "US"
	defaultLang   = "en-US"
)

// SymbolParams is the parameter bag of single-symbol operations.
type SymbolParams struct {
	Symbol string `json:"symbol" validate:"required" example:"AAPL"`
}

func (p *SymbolParams) applyDefaults() {
	p.Symbol = cleanSymbol(p.Symbol)
}

// HistoricalParams for get_historical_data.
type HistoricalParams struct {
	Symbol   string `json:"symbol" validate:"required" example:"AAPL"`
	Period1  string `json:"period1" example:"1y"`
	Period2  string `json:"period2" example:"now"`
	Interval string `json:"interval" validate:"interval" example:"1d"`
}

func (p *HistoricalParams) applyDefaults() {
	p.Symbol = cleanSymbol(p.Symbol)
	p.Period1 = or(p.Period1, "1y")
	p.Period2 = or(p.Period2, "now")
	p.Interval = or(p.Interval, "1d")
}

// ChartParams for get_chart.
type ChartParams struct {
	Symbol   string `json:"symbol" validate:"required" example:"AAPL"`
	Period1  string `json:"period1" example:"1mo"`
	Period2  string `json:"period2" example:"now"`
	Interval string `json:"interval" validate:"interval" example:"1d"`
	Events   string `json:"events" example:"div|split|earn"`
}

func (p *ChartParams) applyDefaults() {
	p.Symbol = cleanSymbol(p.Symbol)
	p.Period1 = or(p.Period1, "1mo")
	p.Period2 = or(p.Period2, "now")
	p.Interval = or(p.Interval, "1d")
	p.Events = or(p.Events, "div|split|earn")
}

// SearchParams for search_symbols.
type SearchParams struct {
	Query string `json:"query" validate:"required" example:"apple"`
}

func (p *SearchParams) applyDefaults() {
	p.Query = strings.TrimSpace(p.Query)
}

// TrendingParams for get_trending_symbols.
type TrendingParams struct {
	Region string `json:"region" example:"US"`
	Count  int    `json:"count" validate:"min=1,max=100" example:"20"`
}

func (p *TrendingParams) applyDefaults() {
	p.Region = strings.ToUpper(or(strings.TrimSpace(p.Region), defaultRegion))
	if p.Count == 0 {
		p.Count = 20
	}
}

// MarketSummaryParams for get_market_summary (no parameters).
type MarketSummaryParams struct{}

func (p *MarketSummaryParams) applyDefaults() {}

// NewsParams for get_news.
type NewsParams struct {
	Query     string `json:"query" validate:"required" example:"market"`
	NewsCount int    `json:"newsCount" validate:"min=1,max=100" example:"10"`
	Region    string `json:"region" example:"US"`
	Lang      string `json:"lang" example:"en-US"`
}

func (p *NewsParams) applyDefaults() {
	p.Query = strings.TrimSpace(p.Query)
	if p.NewsCount == 0 {
		p.NewsCount = 10
	}
	p.Region = or(p.Region, defaultRegion)
	p.Lang = or(p.Lang, defaultLang)
}

// OptionsParams for get_options.
type OptionsParams struct {
	Symbol    string `json:"symbol" validate:"required" example:"AAPL"`
	Date      string `json:"date" validate:"omitempty,datetime=2006-01-02" example:"2024-06-21"`
	Formatted bool   `json:"formatted"`
}

func (p *OptionsParams) applyDefaults() {
	p.Symbol = cleanSymbol(p.Symbol)
	p.Date = strings.TrimSpace(p.Date)
}

// InsightsParams for get_insights.
type InsightsParams struct {
	Symbol       string `json:"symbol" validate:"required" example:"AAPL"`
	ReportsCount int    `json:"reportsCount" validate:"min=1,max=50" example:"5"`
	Region       string `json:"region" example:"US"`
	Lang         string `json:"lang" example:"en-US"`
}

func (p *InsightsParams) applyDefaults() {
	p.Symbol = cleanSymbol(p.Symbol)
	if p.ReportsCount == 0 {
		p.ReportsCount = 5
	}
	p.Region = or(p.Region, defaultRegion)
	p.Lang = or(p.Lang, defaultLang)
}

// ScreenerParams for get_daily_gainers and get_daily_losers.
type ScreenerParams struct {
	Count  int    `json:"count" validate:"min=1,max=250" example:"10"`
	Region string `json:"region" example:"US"`
	Lang   string `json:"lang" example:"en-US"`
}

func (p *ScreenerParams) applyDefaults() {
	if p.Count == 0 {
		p.Count = 10
	}
	p.Region = or(p.Region, defaultRegion)
	p.Lang = or(p.Lang, defaultLang)
}

// QuoteSummaryParams for get_quote_summary.
type QuoteSummaryParams struct {
	Symbol  string   `json:"symbol" validate:"required" example:"AAPL"`
	Modules []string `json:"modules" validate:"min=1,dive,required"`
}

func (p *QuoteSummaryParams) applyDefaults() {
	p.Symbol = cleanSymbol(p.Symbol)
	if len(p.Modules) == 0 {
		p.Modules = append([]string(nil), DefaultSummaryModules...)
	}
}

type defaulter interface {
	applyDefaults()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("interval", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, iv := range Intervals {
			if s == iv {
				return true
			}
		}
		return false
	})
	return v
}

// prepare applies declared defaults and validates p for op.
func prepare(op string, p defaulter) error {
	p.applyDefaults()
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &Error{Kind: KindValidation, Op: op, Err: err}
	}
	fe := verrs[0]
	return NewValidationError(op, fe.Field(), describe(fe))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "interval":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), strings.Join(Intervals, ", "))
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", fe.Field())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}

func cleanSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func or(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
