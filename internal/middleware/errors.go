package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/quotepulse/internal/domain/dto"
	"github.com/guttosm/quotepulse/internal/service"
	"github.com/guttosm/quotepulse/internal/toolkit"
)

// KindNotFound tags responses for unknown tools, resources and screens.
const KindNotFound = "not_found"

// ErrorHandler turns the last error recorded with c.Error into a JSON
// dto.ErrorResponse when the handler did not write a response itself.
//
// Status mapping:
//   - service validation failure: 400
//   - unknown tool or resource: 404
//   - upstream unavailable: 502
//   - anything else: 500
func ErrorHandler(c *gin.Context) {
	c.Next()

	last := c.Errors.Last()
	if last == nil || c.Writer.Written() {
		return
	}
	status, resp := Describe(last.Err)
	c.AbortWithStatusJSON(status, resp)
}

// Describe maps err to its HTTP status and response body.
func Describe(err error) (int, dto.ErrorResponse) {
	var se *service.Error
	switch {
	case errors.As(err, &se) && se.Kind == service.KindValidation:
		resp := dto.NewErrorResponse("invalid arguments", err)
		resp.Kind = string(se.Kind)
		resp.Field = se.Field
		return http.StatusBadRequest, resp
	case errors.As(err, &se) && se.Kind == service.KindUpstreamUnavailable:
		resp := dto.NewErrorResponse("upstream unavailable", err)
		resp.Kind = string(se.Kind)
		return http.StatusBadGateway, resp
	case errors.Is(err, toolkit.ErrUnknownTool), errors.Is(err, toolkit.ErrUnknownResource):
		resp := dto.NewErrorResponse("not found", err)
		resp.Kind = KindNotFound
		return http.StatusNotFound, resp
	default:
		return http.StatusInternalServerError, dto.NewErrorResponse("internal server error", err)
	}
}

// AbortWithError stops the chain and writes status with a dto.ErrorResponse
// built from message and err. err is also recorded on the context for the
// access log.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
