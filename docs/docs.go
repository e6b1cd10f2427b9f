// Package docs holds the Swagger 2.0 document served at /swagger. It is kept
// by hand in the layout swaggo/swag emits; update it alongside the
// @Router annotations in internal/api when the REST surface changes.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "termsOfService": "https://github.com/guttosm/quotepulse",
        "contact": {
            "name": "API Support",
            "url": "https://github.com/guttosm/quotepulse",
            "email": "support@example.com"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/calls": {
            "get": {
                "description": "Latest journaled invocations, newest first",
                "produces": ["application/json"],
                "tags": ["journal"],
                "summary": "Recent calls",
                "parameters": [
                    {"type": "string", "description": "Filter by operation", "name": "operation", "in": "query"},
                    {"type": "integer", "default": 50, "description": "Max rows (1-500)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.CallList"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Journal disabled", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/market-summary": {
            "get": {
                "description": "Snapshots of the major indices",
                "produces": ["application/json"],
                "tags": ["market"],
                "summary": "Market summary",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ToolResult"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/quote/{symbol}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["market"],
                "summary": "Quote a symbol",
                "parameters": [
                    {"type": "string", "example": "AAPL", "description": "Ticker symbol", "name": "symbol", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ToolResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/resources": {
            "get": {
                "description": "Without uri, lists the resources. With uri, returns that resource document.",
                "produces": ["application/json"],
                "tags": ["resources"],
                "summary": "Read resources",
                "parameters": [
                    {"type": "string", "example": "yahoo-finance://market-summary", "description": "Resource URI", "name": "uri", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ResourceList"}},
                    "404": {"description": "Unknown resource", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "502": {"description": "Upstream unavailable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/screeners/{screen}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["market"],
                "summary": "Run a predefined screen",
                "parameters": [
                    {"type": "string", "description": "day_gainers or day_losers", "name": "screen", "in": "path", "required": true},
                    {"type": "integer", "default": 10, "description": "Number of quotes", "name": "count", "in": "query"},
                    {"type": "string", "default": "US", "description": "Region", "name": "region", "in": "query"},
                    {"type": "string", "default": "en-US", "description": "Language", "name": "lang", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ToolResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/tools": {
            "get": {
                "description": "Lists every operation with its parameters, optionally filtered by group",
                "produces": ["application/json"],
                "tags": ["tools"],
                "summary": "List tools",
                "parameters": [
                    {"type": "string", "description": "Tool group (basic, advanced, analysis, news)", "name": "group", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ToolList"}}
                }
            }
        },
        "/api/v1/tools/{name}": {
            "post": {
                "description": "Runs the named operation with a JSON object of arguments (empty body means defaults)",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tools"],
                "summary": "Invoke a tool",
                "parameters": [
                    {"type": "string", "example": "get_quote", "description": "Tool name", "name": "name", "in": "path", "required": true},
                    {"description": "Arguments", "name": "args", "in": "body", "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ToolResult"}},
                    "400": {"description": "Invalid arguments", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Unknown tool", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "502": {"description": "Upstream unavailable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "description": "Always returns OK if the service is running",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Returns ready if the service dependencies are reachable",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        }
    },
    "definitions": {
        "dto.CallList": {
            "type": "object",
            "properties": {
                "calls": {"type": "array", "items": {"$ref": "#/definitions/models.CallRecord"}}
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "error_details": {"type": "string", "example": "symbol is required"},
                "field": {"type": "string", "example": "symbol"},
                "kind": {"type": "string", "example": "validation"},
                "message": {"type": "string", "example": "invalid arguments"},
                "timestamp": {"type": "string", "example": "2024-01-15T15:30:00Z"}
            }
        },
        "dto.ResourceList": {
            "type": "object",
            "properties": {
                "resources": {"type": "array", "items": {"$ref": "#/definitions/toolkit.Resource"}}
            }
        },
        "dto.ToolList": {
            "type": "object",
            "properties": {
                "groups": {"type": "array", "items": {"type": "string"}},
                "tools": {"type": "array", "items": {"$ref": "#/definitions/toolkit.Tool"}}
            }
        },
        "dto.ToolResult": {
            "type": "object",
            "properties": {
                "result": {},
                "tool": {"type": "string", "example": "get_quote"}
            }
        },
        "models.CallRecord": {
            "type": "object",
            "properties": {
                "arguments": {"type": "object"},
                "created_at": {"type": "string"},
                "duration_ms": {"type": "integer"},
                "error_kind": {"type": "string"},
                "error_message": {"type": "string"},
                "id": {"type": "string"},
                "operation": {"type": "string", "example": "get_quote"},
                "outcome": {"type": "string", "example": "ok"},
                "request_id": {"type": "string"}
            }
        },
        "toolkit.Param": {
            "type": "object",
            "properties": {
                "default": {},
                "description": {"type": "string"},
                "name": {"type": "string"},
                "required": {"type": "boolean"},
                "type": {"type": "string"}
            }
        },
        "toolkit.Resource": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "mime_type": {"type": "string"},
                "name": {"type": "string"},
                "uri": {"type": "string"}
            }
        },
        "toolkit.Tool": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "group": {"type": "string"},
                "name": {"type": "string"},
                "params": {"type": "array", "items": {"$ref": "#/definitions/toolkit.Param"}}
            }
        }
    },
    "tags": [
        {"description": "Operation catalog and invocation", "name": "tools"},
        {"description": "Read-only market documents", "name": "resources"},
        {"description": "Convenience market endpoints", "name": "market"},
        {"description": "Call journal", "name": "journal"},
        {"description": "Liveness and readiness checks", "name": "health"}
    ]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "quotepulse API",
	Description:      "Yahoo Finance market-data gateway: tools over REST and MCP.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
