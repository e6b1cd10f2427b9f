package screener

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/guttosm/quotepulse/internal/yahoo"
)

// Source is the structured screener call of the upstream client.
type Source interface {
	Screener(ctx context.Context, q yahoo.ScreenerQuery) (map[string]any, error)
}

// Primary screens through the authenticated upstream client.
type Primary struct {
	src Source
}

// NewPrimary returns the primary strategy over src.
func NewPrimary(src Source) *Primary {
	return &Primary{src: src}
}

func (p *Primary) Screen(ctx context.Context, q Query) (*RawResult, error) {
	m, err := p.src.Screener(ctx, yahoo.ScreenerQuery{ScrID: q.ScrID, Count: q.Count, Region: q.Region, Lang: q.Lang})
	if err != nil {
		return nil, err
	}
	return decodeRaw(m)
}

// StatusError is a non-success answer of the direct endpoint: an HTTP error
// status, or a finance.error envelope (reported as 502 when the HTTP status
// itself was a success).
type StatusError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("screener endpoint returned HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("screener endpoint returned HTTP %d", e.StatusCode)
}

// directBody is the predefined-screen response envelope.
type directBody struct {
	Finance struct {
		Result []map[string]any `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"finance"`
}

func (b *directBody) errorMessage() string {
	e := b.Finance.Error
	if e == nil {
		return ""
	}
	switch {
	case e.Code != "" && e.Description != "":
		return e.Code + ": " + e.Description
	case e.Description != "":
		return e.Description
	case e.Code != "":
		return e.Code
	}
	return "unknown error"
}

// DirectEndpoint queries the public predefined-screen endpoint without a
// session, asking for unformatted numbers.
type DirectEndpoint struct {
	baseURL string
	http    *resty.Client
}

// NewDirectEndpoint returns the fallback strategy against baseURL
// (e.g. https://query1.finance.yahoo.com).
func NewDirectEndpoint(baseURL, userAgent string, timeout time.Duration) *DirectEndpoint {
	if userAgent == "" {
		userAgent = yahoo.DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = yahoo.DefaultTimeout
	}
	return &DirectEndpoint{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: resty.New().
			SetTimeout(timeout).
			SetHeaders(map[string]string{
				"Accept":     "application/json",
				"User-Agent": userAgent,
			}),
	}
}

func (d *DirectEndpoint) Screen(ctx context.Context, q Query) (*RawResult, error) {
	resp, err := d.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"scrIds":    q.ScrID,
			"count":     strconv.Itoa(q.Count),
			"lang":      q.Lang,
			"region":    q.Region,
			"formatted": "false",
		}).
		Get(d.baseURL + "/v1/finance/screener/predefined/saved")
	if err != nil {
		return nil, fmt.Errorf("screener endpoint: %w", err)
	}
	var body directBody
	jsonErr := json.Unmarshal(resp.Body(), &body)

	if resp.StatusCode() != http.StatusOK {
		se := &StatusError{StatusCode: resp.StatusCode(), Body: strings.TrimSpace(resp.String())}
		if jsonErr == nil {
			se.Message = body.errorMessage()
		}
		return nil, se
	}
	if jsonErr != nil {
		return nil, fmt.Errorf("decode screener endpoint response: %w", jsonErr)
	}
	if msg := body.errorMessage(); msg != "" {
		return nil, &StatusError{StatusCode: http.StatusBadGateway, Message: msg, Body: strings.TrimSpace(resp.String())}
	}
	if len(body.Finance.Result) == 0 || body.Finance.Result[0] == nil {
		return &RawResult{ID: q.ScrID, Quotes: []map[string]any{}}, nil
	}
	return decodeRaw(body.Finance.Result[0])
}
