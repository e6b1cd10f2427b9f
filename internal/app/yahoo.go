package app

import (
	"github.com/guttosm/quotepulse/config"
	"github.com/guttosm/quotepulse/internal/logger"
	"github.com/guttosm/quotepulse/internal/yahoo"
)

// yahooClient builds the upstream client from the provider settings.
// Empty hosts keep the client defaults.
func yahooClient(cfg config.YahooConfig) *yahoo.Client {
	opts := []yahoo.ClientOption{
		yahoo.WithLogger(logger.With("yahoo")),
		yahoo.WithUserAgent(cfg.UserAgent),
		yahoo.WithTimeout(cfg.Timeout),
		yahoo.WithRateLimit(cfg.RateLimit),
		yahoo.WithCrumbTTL(cfg.CrumbTTL),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, yahoo.WithBaseURL(cfg.BaseURL))
	}
	if cfg.CookieURL != "" {
		opts = append(opts, yahoo.WithCookieURL(cfg.CookieURL))
	}
	return yahoo.NewClient(opts...)
}
