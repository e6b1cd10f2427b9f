package dto

import (
	"github.com/guttosm/quotepulse/internal/domain/models"
	"github.com/guttosm/quotepulse/internal/toolkit"
)

// ToolList is the body of GET /api/v1/tools.
type ToolList struct {
	Tools  []toolkit.Tool `json:"tools"`
	Groups []string       `json:"groups" example:"advanced,analysis,basic,news"`
}

// ResourceList is the body of GET /api/v1/resources without a uri.
type ResourceList struct {
	Resources []toolkit.Resource `json:"resources"`
}

// ToolResult wraps the output of POST /api/v1/tools/{name}.
type ToolResult struct {
	Tool   string `json:"tool" example:"get_quote"`
	Result any    `json:"result" swaggertype:"object"`
}

// CallList is the body of GET /api/v1/calls.
type CallList struct {
	Calls []models.CallRecord `json:"calls"`
}
