package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/quotepulse/internal/domain/dto"
	"github.com/guttosm/quotepulse/internal/domain/models"
	"github.com/guttosm/quotepulse/internal/middleware"
	"github.com/guttosm/quotepulse/internal/screener"
	"github.com/guttosm/quotepulse/internal/service"
	"github.com/guttosm/quotepulse/internal/toolkit"
)

// CallLister reads the call journal.
type CallLister interface {
	ListRecentCalls(ctx context.Context, operation string, limit int) ([]models.CallRecord, error)
}

// Handler serves the REST surface of the gateway.
//
// Every operation goes through the tool registry, so REST calls are
// validated, classified and journaled exactly like MCP calls. Failures are
// recorded with c.Error and rendered by middleware.ErrorHandler.
type Handler struct {
	registry *toolkit.Registry
	calls    CallLister
}

// NewHandler builds a Handler. calls may be nil when the journal is disabled.
func NewHandler(registry *toolkit.Registry, calls CallLister) *Handler {
	return &Handler{registry: registry, calls: calls}
}

var screens = map[string]string{
	screener.DayGainers: service.OpGetDailyGainers,
	screener.DayLosers:  service.OpGetDailyLosers,
}

// ListTools godoc
// @Summary      List tools
// @Description  Lists every operation with its parameters, optionally filtered by group
// @Tags         tools
// @Produce      json
// @Param        group  query     string  false  "Tool group (basic, advanced, analysis, news)"
// @Success      200    {object}  dto.ToolList
// @Router       /api/v1/tools [get]
func (h *Handler) ListTools(c *gin.Context) {
	tools := h.registry.Tools()
	if g := c.Query("group"); g != "" {
		tools = h.registry.Group(g)
	}
	if tools == nil {
		tools = []toolkit.Tool{}
	}
	c.JSON(http.StatusOK, dto.ToolList{Tools: tools, Groups: h.registry.Groups()})
}

// InvokeTool godoc
// @Summary      Invoke a tool
// @Description  Runs the named operation with a JSON object of arguments (empty body means defaults)
// @Tags         tools
// @Accept       json
// @Produce      json
// @Param        name  path      string  true   "Tool name" example(get_quote)
// @Param        args  body      object  false  "Arguments"
// @Success      200   {object}  dto.ToolResult
// @Failure      400   {object}  dto.ErrorResponse  "Invalid arguments"
// @Failure      404   {object}  dto.ErrorResponse  "Unknown tool"
// @Failure      502   {object}  dto.ErrorResponse  "Upstream unavailable"
// @Router       /api/v1/tools/{name} [post]
func (h *Handler) InvokeTool(c *gin.Context) {
	name := c.Param("name")
	body, err := c.GetRawData()
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "could not read request body", err)
		return
	}
	h.invoke(c, name, body)
}

// GetResource godoc
// @Summary      Read resources
// @Description  Without uri, lists the resources. With uri, returns that resource document.
// @Tags         resources
// @Produce      json
// @Param        uri  query     string  false  "Resource URI" example(yahoo-finance://market-summary)
// @Success      200  {object}  dto.ResourceList
// @Failure      404  {object}  dto.ErrorResponse  "Unknown resource"
// @Failure      502  {object}  dto.ErrorResponse  "Upstream unavailable"
// @Router       /api/v1/resources [get]
func (h *Handler) GetResource(c *gin.Context) {
	uri := c.Query("uri")
	if uri == "" {
		c.JSON(http.StatusOK, dto.ResourceList{Resources: h.registry.Resources()})
		return
	}
	text, err := h.registry.ReadResource(c.Request.Context(), uri)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Data(http.StatusOK, toolkit.MIMEJSON+"; charset=utf-8", []byte(text))
}

// GetQuote godoc
// @Summary      Quote a symbol
// @Tags         market
// @Produce      json
// @Param        symbol  path      string  true  "Ticker symbol" example(AAPL)
// @Success      200     {object}  dto.ToolResult
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      502     {object}  dto.ErrorResponse
// @Router       /api/v1/quote/{symbol} [get]
func (h *Handler) GetQuote(c *gin.Context) {
	h.invokeWith(c, service.OpGetQuote, map[string]any{"symbol": c.Param("symbol")})
}

// GetScreener godoc
// @Summary      Run a predefined screen
// @Tags         market
// @Produce      json
// @Param        screen  path      string  true   "day_gainers or day_losers"
// @Param        count   query     int     false  "Number of quotes" default(10)
// @Param        region  query     string  false  "Region" default(US)
// @Param        lang    query     string  false  "Language" default(en-US)
// @Success      200     {object}  dto.ToolResult
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      502     {object}  dto.ErrorResponse
// @Router       /api/v1/screeners/{screen} [get]
func (h *Handler) GetScreener(c *gin.Context) {
	op, ok := screens[c.Param("screen")]
	if !ok {
		middleware.AbortWithError(c, http.StatusNotFound, "unknown screen", errors.New("screen must be day_gainers or day_losers"))
		return
	}

	args := map[string]any{}
	if s := c.Query("count"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			middleware.AbortWithError(c, http.StatusBadRequest, "invalid count", err)
			return
		}
		args["count"] = n
	}
	for _, k := range []string{"region", "lang"} {
		if v := strings.TrimSpace(c.Query(k)); v != "" {
			args[k] = v
		}
	}
	h.invokeWith(c, op, args)
}

// GetMarketSummary godoc
// @Summary      Market summary
// @Description  Snapshots of the major indices
// @Tags         market
// @Produce      json
// @Success      200  {object}  dto.ToolResult
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/v1/market-summary [get]
func (h *Handler) GetMarketSummary(c *gin.Context) {
	h.invoke(c, service.OpGetMarketSummary, nil)
}

// ListCalls godoc
// @Summary      Recent calls
// @Description  Latest journaled invocations, newest first
// @Tags         journal
// @Produce      json
// @Param        operation  query     string  false  "Filter by operation"
// @Param        limit      query     int     false  "Max rows (1-500)" default(50)
// @Success      200        {object}  dto.CallList
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      404        {object}  dto.ErrorResponse  "Journal disabled"
// @Router       /api/v1/calls [get]
func (h *Handler) ListCalls(c *gin.Context) {
	if h.calls == nil {
		middleware.AbortWithError(c, http.StatusNotFound, "call journal is disabled", nil)
		return
	}

	limit := 50
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 500 {
			middleware.AbortWithError(c, http.StatusBadRequest, "limit must be between 1 and 500", err)
			return
		}
		limit = n
	}

	calls, err := h.calls.ListRecentCalls(c.Request.Context(), c.Query("operation"), limit)
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to list calls", err)
		return
	}
	if calls == nil {
		calls = []models.CallRecord{}
	}
	c.JSON(http.StatusOK, dto.CallList{Calls: calls})
}

func (h *Handler) invokeWith(c *gin.Context, name string, args map[string]any) {
	raw, err := json.Marshal(args)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.invoke(c, name, raw)
}

func (h *Handler) invoke(c *gin.Context, name string, args json.RawMessage) {
	out, err := h.registry.Invoke(c.Request.Context(), name, args)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.ToolResult{Tool: name, Result: out})
}
