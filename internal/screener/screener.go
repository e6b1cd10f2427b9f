// Package screener runs predefined screens (day gainers, day losers) with a
// primary strategy and a direct-endpoint fallback behind one interface.
package screener

import (
	"context"
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/guttosm/quotepulse/internal/domain/models"
	"github.com/guttosm/quotepulse/internal/logger"
	"github.com/guttosm/quotepulse/internal/normalize"
	"github.com/guttosm/quotepulse/internal/sanitize"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"
)

// Screen identifiers.
const (
	DayGainers = "day_gainers"
	DayLosers  = "day_losers"
)

var defaults = map[string]struct{ title, description string }{
	DayGainers: {"Day Gainers", "Discover the equities with the greatest gains in the trading day."},
	DayLosers:  {"Day Losers", "Discover the equities with the greatest losses in the trading day."},
}

// Query identifies one screen request.
type Query struct {
	ScrID  string
	Count  int
	Region string
	Lang   string
}

// RawResult is a screen answer before normalization.
type RawResult struct {
	ID          string           `mapstructure:"id"`
	Title       string           `mapstructure:"title"`
	Description string           `mapstructure:"description"`
	Count       int              `mapstructure:"count"`
	Total       int              `mapstructure:"total"`
	Start       int              `mapstructure:"start"`
	Quotes      []map[string]any `mapstructure:"quotes"`
}

// Strategy runs a screen.
type Strategy interface {
	Screen(ctx context.Context, q Query) (*RawResult, error)
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(ctx context.Context, q Query) (*RawResult, error)

// Screen calls f.
func (f StrategyFunc) Screen(ctx context.Context, q Query) (*RawResult, error) { return f(ctx, q) }

type withFallback struct {
	primary  Strategy
	fallback Strategy
	log      zerolog.Logger
}

// WithFallback returns a Strategy that tries primary and, when it fails,
// fallback. When both fail the error carries both causes.
func WithFallback(primary, fallback Strategy) Strategy {
	return &withFallback{primary: primary, fallback: fallback, log: logger.With("screener")}
}

func (s *withFallback) Screen(ctx context.Context, q Query) (*RawResult, error) {
	res, err := s.primary.Screen(ctx, q)
	if err == nil {
		return res, nil
	}

	s.log.Warn().Err(err).Str("screen", q.ScrID).Msg("primary screener failed, using direct endpoint")

	res, ferr := s.fallback.Screen(ctx, q)
	if ferr != nil {
		return nil, multierr.Combine(fmt.Errorf("primary screener: %w", err), ferr)
	}
	return res, nil
}

// decodeRaw maps a finance.result[0] object onto RawResult.
func decodeRaw(m map[string]any) (*RawResult, error) {
	var raw RawResult
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &raw,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(m); err != nil {
		return nil, fmt.Errorf("decode screener result: %w", err)
	}
	return &raw, nil
}

// Build normalizes a raw answer into the canonical screener result. Count
// is the number of normalized quotes; upstream order is kept.
func Build(q Query, raw *RawResult, now time.Time) (*models.ScreenerResult, error) {
	if raw == nil {
		raw = &RawResult{}
	}
	quotes, err := normalize.Quotes(raw.Quotes)
	if err != nil {
		return nil, err
	}

	out := &models.ScreenerResult{
		ID:          raw.ID,
		Title:       raw.Title,
		Description: raw.Description,
		Count:       len(quotes),
		Total:       raw.Total,
		Start:       raw.Start,
		Quotes:      quotes,
		Timestamp:   sanitize.ISO(now),
	}
	if out.ID == "" {
		out.ID = q.ScrID
	}
	if d, ok := defaults[q.ScrID]; ok {
		if out.Title == "" {
			out.Title = d.title
		}
		if out.Description == "" {
			out.Description = d.description
		}
	}
	return out, nil
}
