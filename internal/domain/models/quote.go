package models

// QuoteRecord is the canonical snapshot of a traded instrument.
//
// Fields:
//   - Symbol: Ticker symbol as reported upstream (e.g., "AAPL"). Always set.
//   - ShortName: Display name. Falls back to Symbol when upstream has none.
//   - Every other field is nil when the upstream record did not carry it,
//     and is serialized as an explicit JSON null rather than omitted.
//
// Returned by the quote, screener and market summary operations.
//
// swagger:model QuoteRecord
type QuoteRecord struct {
	Symbol                     string     `json:"symbol" mapstructure:"symbol" example:"AAPL"`
	ShortName                  string     `json:"shortName" mapstructure:"shortName" example:"Apple Inc."`
	RegularMarketPrice         *float64   `json:"regularMarketPrice" mapstructure:"regularMarketPrice" example:"187.44"`
	RegularMarketChange        *float64   `json:"regularMarketChange" mapstructure:"regularMarketChange" example:"1.32"`
	RegularMarketChangePercent *float64   `json:"regularMarketChangePercent" mapstructure:"regularMarketChangePercent" example:"0.71"`
	RegularMarketVolume        *int64     `json:"regularMarketVolume" mapstructure:"regularMarketVolume" example:"53421000"`
	MarketCap                  *int64     `json:"marketCap" mapstructure:"marketCap" example:"2910000000000"`
	Exchange                   *string    `json:"exchange" mapstructure:"exchange" example:"NMS"`
	FullExchangeName           *string    `json:"fullExchangeName" mapstructure:"fullExchangeName" example:"NasdaqGS"`
	RegularMarketTime          *Timestamp `json:"regularMarketTime" mapstructure:"regularMarketTime"`
}

// IndexSnapshot is one entry of the market summary.
//
// swagger:model IndexSnapshot
type IndexSnapshot struct {
	Symbol                     string     `json:"symbol" mapstructure:"symbol" example:"^GSPC"`
	ShortName                  string     `json:"shortName" mapstructure:"shortName" example:"S&P 500"`
	RegularMarketPrice         *float64   `json:"regularMarketPrice" mapstructure:"regularMarketPrice"`
	RegularMarketChange        *float64   `json:"regularMarketChange" mapstructure:"regularMarketChange"`
	RegularMarketChangePercent *float64   `json:"regularMarketChangePercent" mapstructure:"regularMarketChangePercent"`
	RegularMarketTime          *Timestamp `json:"regularMarketTime" mapstructure:"regularMarketTime"`
}

// MarketSummary groups the major index snapshots, in a fixed order.
type MarketSummary struct {
	Indices   []IndexSnapshot `json:"indices"`
	Timestamp string          `json:"timestamp"`
}

// ScreenerResult is the output of a predefined screen (day gainers/losers).
//
// Count always equals len(Quotes); Total and Start are reported as received.
//
// swagger:model ScreenerResult
type ScreenerResult struct {
	ID          string        `json:"id" example:"day_gainers"`
	Title       string        `json:"title" example:"Day Gainers"`
	Description string        `json:"description"`
	Count       int           `json:"count" example:"10"`
	Total       int           `json:"total" example:"250"`
	Start       int           `json:"start" example:"0"`
	Quotes      []QuoteRecord `json:"quotes"`
	Timestamp   string        `json:"timestamp"`
}

// CompanyInfo joins key statistics with the (best-effort) asset profile.
// Profile is nil when the profile lookup failed.
type CompanyInfo struct {
	Quote   map[string]any `json:"quote"`
	Profile map[string]any `json:"profile"`
}
