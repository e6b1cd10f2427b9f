package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/quotepulse/internal/domain/dto"
	"github.com/guttosm/quotepulse/internal/domain/models"
	"github.com/guttosm/quotepulse/internal/middleware"
	"github.com/guttosm/quotepulse/internal/service/servicetest"
	"github.com/guttosm/quotepulse/internal/toolkit"
)

type mockCalls struct {
	calls     []models.CallRecord
	err       error
	operation string
	limit     int
}

func (m *mockCalls) ListRecentCalls(_ context.Context, operation string, limit int) ([]models.CallRecord, error) {
	m.operation, m.limit = operation, limit
	return m.calls, m.err
}

func setupRouter(p *servicetest.Provider, calls CallLister) *gin.Engine {
	gin.SetMode(gin.TestMode)
	reg := toolkit.New(servicetest.NewGateway(p, nil))
	h := NewHandler(reg, calls)
	r := gin.New()
	r.Use(middleware.ErrorHandler)
	v1 := r.Group("/api/v1")
	v1.GET("/tools", h.ListTools)
	v1.POST("/tools/:name", h.InvokeTool)
	v1.GET("/resources", h.GetResource)
	v1.GET("/quote/:symbol", h.GetQuote)
	v1.GET("/screeners/:screen", h.GetScreener)
	v1.GET("/market-summary", h.GetMarketSummary)
	v1.GET("/calls", h.ListCalls)
	return r
}

func resultOf(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var out struct {
		Tool   string         `json:"tool"`
		Result map[string]any `json:"result"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return out.Result
}

func TestHandler_TableDriven(t *testing.T) {
	cases := []struct {
		name     string
		provider *servicetest.Provider
		method   string
		path     string
		body     string
		status   int
		assert   func(t *testing.T, body []byte)
	}{
		{
			name:   "list tools",
			method: http.MethodGet,
			path:   "/api/v1/tools",
			status: http.StatusOK,
			assert: func(t *testing.T, body []byte) {
				var out dto.ToolList
				if err := json.Unmarshal(body, &out); err != nil {
					t.Fatalf("invalid json: %v", err)
				}
				if len(out.Tools) != 14 || len(out.Groups) != 4 {
					t.Fatalf("unexpected list: %d tools, groups %v", len(out.Tools), out.Groups)
				}
			},
		},
		{
			name:   "list tools by group",
			method: http.MethodGet,
			path:   "/api/v1/tools?group=advanced",
			status: http.StatusOK,
			assert: func(t *testing.T, body []byte) {
				var out dto.ToolList
				_ = json.Unmarshal(body, &out)
				if len(out.Tools) != 4 {
					t.Fatalf("expected 4 advanced tools, got %d", len(out.Tools))
				}
			},
		},
		{
			name:   "list tools unknown group",
			method: http.MethodGet,
			path:   "/api/v1/tools?group=nope",
			status: http.StatusOK,
			assert: func(t *testing.T, body []byte) {
				if !strings.Contains(string(body), `"tools":[]`) {
					t.Fatalf("expected empty tools array: %s", body)
				}
			},
		},
		{
			name:   "invoke tool",
			method: http.MethodPost,
			path:   "/api/v1/tools/get_quote_summary",
			body:   `{"symbol":"aapl","modules":["assetProfile"]}`,
			status: http.StatusOK,
			assert: func(t *testing.T, body []byte) {
				res := resultOf(t, body)
				if _, ok := res["assetProfile"]; !ok {
					t.Fatalf("missing requested module: %v", res)
				}
			},
		},
		{
			name:   "invoke tool with empty body uses defaults",
			method: http.MethodPost,
			path:   "/api/v1/tools/get_trending_symbols",
			status: http.StatusOK,
			assert: func(t *testing.T, body []byte) {
				res := resultOf(t, body)
				if res["region"] != "US" || res["count"] != float64(20) {
					t.Fatalf("unexpected defaults: %v", res)
				}
			},
		},
		{
			name:   "invoke tool validation error",
			method: http.MethodPost,
			path:   "/api/v1/tools/get_options",
			body:   `{"symbol":"AAPL","date":"21/06/2024"}`,
			status: http.StatusBadRequest,
			assert: func(t *testing.T, body []byte) {
				var out dto.ErrorResponse
				_ = json.Unmarshal(body, &out)
				if out.Kind != "validation" || out.Field != "date" {
					t.Fatalf("unexpected error body: %+v", out)
				}
			},
		},
		{
			name:   "invoke unknown tool",
			method: http.MethodPost,
			path:   "/api/v1/tools/get_weather",
			status: http.StatusNotFound,
		},
		{
			name:     "invoke tool upstream failure",
			provider: &servicetest.Provider{Err: errors.New("connection reset")},
			method:   http.MethodPost,
			path:     "/api/v1/tools/get_insights",
			body:     `{"symbol":"AAPL"}`,
			status:   http.StatusBadGateway,
		},
		{
			name:   "list resources",
			method: http.MethodGet,
			path:   "/api/v1/resources",
			status: http.StatusOK,
			assert: func(t *testing.T, body []byte) {
				var out dto.ResourceList
				_ = json.Unmarshal(body, &out)
				if len(out.Resources) != 5 {
					t.Fatalf("expected 5 resources, got %d", len(out.Resources))
				}
			},
		},
		{
			name:   "read resource",
			method: http.MethodGet,
			path:   "/api/v1/resources?uri=yahoo-finance://daily-gainers",
			status: http.StatusOK,
			assert: func(t *testing.T, body []byte) {
				var out models.ScreenerResult
				if err := json.Unmarshal(body, &out); err != nil {
					t.Fatalf("invalid json: %v", err)
				}
				if out.ID != "day_gainers" || out.Count != len(out.Quotes) {
					t.Fatalf("unexpected screener: %+v", out)
				}
			},
		},
		{
			name:   "read unknown resource",
			method: http.MethodGet,
			path:   "/api/v1/resources?uri=yahoo-finance://nope",
			status: http.StatusNotFound,
		},
		{
			name:   "quote",
			method: http.MethodGet,
			path:   "/api/v1/quote/nvda",
			status: http.StatusOK,
			assert: func(t *testing.T, body []byte) {
				res := resultOf(t, body)
				if res["symbol"] != "NVDA" || res["shortName"] != "NVDA Inc." {
					t.Fatalf("unexpected quote: %v", res)
				}
			},
		},
		{
			name:   "screener with params",
			method: http.MethodGet,
			path:   "/api/v1/screeners/day_losers?count=5&region=GB",
			status: http.StatusOK,
			assert: func(t *testing.T, body []byte) {
				res := resultOf(t, body)
				if res["id"] != "day_losers" || res["title"] != "Day Losers" {
					t.Fatalf("unexpected screener: %v", res)
				}
			},
		},
		{
			name:   "screener unknown",
			method: http.MethodGet,
			path:   "/api/v1/screeners/most_actives",
			status: http.StatusNotFound,
		},
		{
			name:   "screener bad count",
			method: http.MethodGet,
			path:   "/api/v1/screeners/day_gainers?count=ten",
			status: http.StatusBadRequest,
		},
		{
			name:   "screener count out of range",
			method: http.MethodGet,
			path:   "/api/v1/screeners/day_gainers?count=1000",
			status: http.StatusBadRequest,
		},
		{
			name:   "market summary",
			method: http.MethodGet,
			path:   "/api/v1/market-summary",
			status: http.StatusOK,
			assert: func(t *testing.T, body []byte) {
				res := resultOf(t, body)
				indices, _ := res["indices"].([]any)
				if len(indices) != 5 {
					t.Fatalf("expected 5 indices, got %v", res)
				}
			},
		},
		{
			name:   "calls with journal disabled",
			method: http.MethodGet,
			path:   "/api/v1/calls",
			status: http.StatusNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.provider
			if p == nil {
				p = &servicetest.Provider{}
			}
			r := setupRouter(p, nil)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			r.ServeHTTP(w, req)
			if w.Code != tc.status {
				t.Fatalf("want %d got %d: %s", tc.status, w.Code, w.Body.String())
			}
			if tc.assert != nil {
				tc.assert(t, w.Body.Bytes())
			}
		})
	}
}

func TestHandler_ListCalls(t *testing.T) {
	cases := []struct {
		name    string
		calls   *mockCalls
		query   string
		status  int
		wantOp  string
		wantLim int
	}{
		{name: "defaults", calls: &mockCalls{calls: []models.CallRecord{{ID: "1", Operation: "get_quote"}}}, query: "", status: 200, wantLim: 50},
		{name: "filtered", calls: &mockCalls{}, query: "?operation=get_news&limit=5", status: 200, wantOp: "get_news", wantLim: 5},
		{name: "bad limit", calls: &mockCalls{}, query: "?limit=0", status: 400},
		{name: "storage failure", calls: &mockCalls{err: errors.New("db down")}, query: "", status: 500, wantLim: 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouter(&servicetest.Provider{}, tc.calls)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/calls"+tc.query, nil))
			if w.Code != tc.status {
				t.Fatalf("want %d got %d", tc.status, w.Code)
			}
			if tc.status != 200 {
				return
			}
			if tc.calls.operation != tc.wantOp || tc.calls.limit != tc.wantLim {
				t.Fatalf("lister got (%q, %d)", tc.calls.operation, tc.calls.limit)
			}
			var out dto.CallList
			if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil || out.Calls == nil {
				t.Fatalf("unexpected body %s", w.Body.String())
			}
		})
	}
}
