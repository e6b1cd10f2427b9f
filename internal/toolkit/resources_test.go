package toolkit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/guttosm/quotepulse/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResources_Declared(t *testing.T) {
	r := newRegistry(&servicetest.Provider{})

	var uris []string
	for _, res := range r.Resources() {
		uris = append(uris, res.URI)
		assert.Equal(t, MIMEJSON, res.MIMEType)
		assert.NotEmpty(t, res.Name)
	}
	assert.Equal(t, []string{URIMarketSummary, URITrendingSymbols, URIDailyGainers, URIDailyLosers, URIGeneralNews}, uris)
}

func TestReadResource(t *testing.T) {
	r := newRegistry(&servicetest.Provider{})

	tests := []struct {
		uri   string
		check func(t *testing.T, doc any)
	}{
		{URIMarketSummary, func(t *testing.T, doc any) {
			m := doc.(map[string]any)
			assert.Len(t, m["indices"], 5)
			assert.Equal(t, "2024-01-15T15:30:00.000Z", m["timestamp"])
		}},
		{URITrendingSymbols, func(t *testing.T, doc any) {
			m := doc.(map[string]any)
			assert.Equal(t, "US", m["region"])
			assert.EqualValues(t, 20, m["count"])
		}},
		{URIDailyGainers, func(t *testing.T, doc any) {
			assert.Equal(t, "day_gainers", doc.(map[string]any)["id"])
		}},
		{URIDailyLosers, func(t *testing.T, doc any) {
			assert.Equal(t, "day_losers", doc.(map[string]any)["id"])
		}},
		{URIGeneralNews, func(t *testing.T, doc any) {
			items := doc.([]any)
			require.Len(t, items, 1)
			assert.Equal(t, "market headline", items[0].(map[string]any)["title"])
		}},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			text, err := r.ReadResource(context.Background(), tt.uri)
			require.NoError(t, err)
			var doc any
			require.NoError(t, json.Unmarshal([]byte(text), &doc))
			tt.check(t, doc)
		})
	}
}

func TestReadResource_Failures(t *testing.T) {
	r := newRegistry(&servicetest.Provider{})
	_, err := r.ReadResource(context.Background(), "yahoo-finance://nope")
	require.ErrorIs(t, err, ErrUnknownResource)

	r = newRegistry(&servicetest.Provider{Err: errors.New("boom")})
	_, err = r.ReadResource(context.Background(), URIMarketSummary)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
