package toolkit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/guttosm/quotepulse/internal/domain/models"
	"github.com/guttosm/quotepulse/internal/service"
	"github.com/guttosm/quotepulse/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(p *servicetest.Provider, opts ...Option) *Registry {
	return New(servicetest.NewGateway(p, nil), opts...)
}

func TestRegistry_DeclaresEveryOperation(t *testing.T) {
	r := newRegistry(&servicetest.Provider{})

	want := []string{
		service.OpGetQuote, service.OpGetHistoricalData, service.OpSearchSymbols,
		service.OpGetCompanyInfo, service.OpGetRecommendations, service.OpGetTrendingSymbols,
		service.OpGetMarketSummary, service.OpGetNews, service.OpGetOptions,
		service.OpGetInsights, service.OpGetDailyGainers, service.OpGetDailyLosers,
		service.OpGetChart, service.OpGetQuoteSummary,
	}
	require.Len(t, r.Tools(), len(want))
	for _, name := range want {
		tool, ok := r.Tool(name)
		require.True(t, ok, name)
		assert.NotEmpty(t, tool.Description, name)
	}
}

func TestRegistry_Groups(t *testing.T) {
	r := newRegistry(&servicetest.Provider{})

	assert.Equal(t, []string{GroupAdvanced, GroupAnalysis, GroupBasic, GroupNews}, r.Groups())

	names := func(ts []Tool) []string {
		var out []string
		for _, t := range ts {
			out = append(out, t.Name)
		}
		return out
	}
	assert.Equal(t, []string{"get_quote", "search_symbols", "get_company_info", "get_market_summary"}, names(r.Group(GroupBasic)))
	assert.Equal(t, []string{"get_news", "get_trending_symbols"}, names(r.Group(GroupNews)))
	assert.Empty(t, r.Group("nope"))
}

func TestRegistry_ParamDefaults(t *testing.T) {
	r := newRegistry(&servicetest.Provider{})

	hist, _ := r.Tool(service.OpGetHistoricalData)
	defaults := map[string]any{}
	for _, p := range hist.Params {
		defaults[p.Name] = p.Default
	}
	assert.Equal(t, "1y", defaults["period1"])
	assert.Equal(t, "now", defaults["period2"])
	assert.Equal(t, "1d", defaults["interval"])

	quote, _ := r.Tool(service.OpGetQuote)
	require.Len(t, quote.Params, 1)
	assert.True(t, quote.Params[0].Required)
}

func TestInvoke(t *testing.T) {
	tests := []struct {
		name      string
		tool      string
		args      string
		wantKind  service.Kind
		wantField string
		check     func(t *testing.T, out any)
	}{
		{
			name: "quote with canonical fields",
			tool: service.OpGetQuote,
			args: `{"symbol":"aapl"}`,
			check: func(t *testing.T, out any) {
				m := out.(map[string]any)
				assert.Equal(t, "AAPL", m["symbol"])
				assert.Equal(t, "2024-01-15T15:30:00.000Z", m["regularMarketTime"])
				assert.Contains(t, m, "marketCap")
			},
		},
		{
			name: "null arguments use defaults",
			tool: service.OpGetDailyGainers,
			args: `null`,
			check: func(t *testing.T, out any) {
				res := out.(*models.ScreenerResult)
				assert.Equal(t, 3, res.Count)
				assert.Equal(t, "Day Gainers", res.Title)
			},
		},
		{
			name: "empty arguments",
			tool: service.OpGetMarketSummary,
			args: ``,
			check: func(t *testing.T, out any) {
				assert.Len(t, out.(*models.MarketSummary).Indices, len(service.MarketIndices))
			},
		},
		{
			name:      "missing required symbol",
			tool:      service.OpGetChart,
			args:      `{}`,
			wantKind:  service.KindValidation,
			wantField: "symbol",
		},
		{
			name:      "wrong argument type",
			tool:      service.OpGetNews,
			args:      `{"query":"fed","newsCount":"ten"}`,
			wantKind:  service.KindValidation,
			wantField: "newsCount",
		},
		{
			name:     "malformed json",
			tool:     service.OpGetQuote,
			args:     `{"symbol":`,
			wantKind: service.KindValidation,
		},
	}

	r := newRegistry(&servicetest.Provider{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Invoke(context.Background(), tt.tool, json.RawMessage(tt.args))
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, service.KindOf(err))
				var se *service.Error
				require.True(t, errors.As(err, &se))
				assert.Equal(t, tt.wantField, se.Field)
				return
			}
			require.NoError(t, err)
			tt.check(t, out)
		})
	}
}

func TestInvoke_UnknownTool(t *testing.T) {
	r := newRegistry(&servicetest.Provider{})

	_, err := r.Invoke(context.Background(), "get_weather", nil)
	require.ErrorIs(t, err, ErrUnknownTool)
	assert.Contains(t, err.Error(), "get_weather")
}

func TestInvoke_NotifiesObservers(t *testing.T) {
	var recs []models.CallRecord
	r := newRegistry(&servicetest.Provider{Err: errors.New("connection reset")},
		WithObserver(func(_ context.Context, rec models.CallRecord) { recs = append(recs, rec) }),
		WithObserver(nil),
	)

	ctx := WithRequestID(context.Background(), "req-1")
	_, err := r.Invoke(ctx, service.OpGetQuote, json.RawMessage(`{"symbol":"MSFT"}`))
	require.Error(t, err)
	_, err = r.Invoke(ctx, service.OpGetMarketSummary, nil)
	require.Error(t, err)

	require.Len(t, recs, 2)
	first := recs[0]
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, service.OpGetQuote, first.Operation)
	assert.Equal(t, models.OutcomeError, first.Outcome)
	assert.Equal(t, string(service.KindUpstreamUnavailable), first.ErrorKind)
	assert.Equal(t, "get_quote: connection reset", first.ErrorMessage)
	assert.Equal(t, "req-1", first.RequestID)
	assert.JSONEq(t, `{"symbol":"MSFT"}`, string(first.Arguments))
	assert.JSONEq(t, `{}`, string(recs[1].Arguments))
	assert.NotEqual(t, first.ID, recs[1].ID)
}

func TestInvoke_ObserverSeesSuccess(t *testing.T) {
	var got models.CallRecord
	r := newRegistry(&servicetest.Provider{}, WithObserver(func(_ context.Context, rec models.CallRecord) { got = rec }))

	_, err := r.Invoke(context.Background(), service.OpSearchSymbols, json.RawMessage(`{"query":"apple"}`))
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeOK, got.Outcome)
	assert.Empty(t, got.ErrorKind)
	assert.Empty(t, got.RequestID)
}

func TestRender(t *testing.T) {
	s, err := Render(map[string]any{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", s)

	_, err = Render(func() {})
	assert.Error(t, err)
}
