// Package toolkit is the declarative catalogue of gateway operations: one
// Tool per operation with its parameter schema and defaults, grouped the way
// agent front-ends load them, plus the read-only resources. The MCP server
// and the REST API are both built from a Registry.
package toolkit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/quotepulse/internal/domain/models"
	"github.com/guttosm/quotepulse/internal/logger"
	"github.com/guttosm/quotepulse/internal/service"
	"github.com/rs/zerolog"
)

var (
	// ErrUnknownTool is returned by Invoke for unregistered names.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrUnknownResource is returned by ReadResource for unregistered URIs.
	ErrUnknownResource = errors.New("unknown resource")
)

// Tool groups.
const (
	GroupBasic    = "basic"
	GroupAdvanced = "advanced"
	GroupAnalysis = "analysis"
	GroupNews     = "news"
)

// Parameter types, as JSON schema type names.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeArray   = "array"
)

// Param declares one tool parameter.
type Param struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Default     any    `json:"default,omitempty"`
}

// Invoker runs an operation with raw JSON arguments.
type Invoker func(ctx context.Context, args json.RawMessage) (any, error)

// Tool is one callable operation.
type Tool struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Group       string  `json:"group"`
	Params      []Param `json:"params"`
	invoke      Invoker
}

// Observer receives one record per invocation.
type Observer func(ctx context.Context, rec models.CallRecord)

// Registry holds the tools and resources of a gateway.
type Registry struct {
	tools     []Tool
	byName    map[string]int
	resources []Resource
	byURI     map[string]int
	observers []Observer
	log       zerolog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithObserver adds an invocation observer.
func WithObserver(o Observer) Option {
	return func(r *Registry) {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
}

// New builds the registry of every gateway operation and resource.
func New(g *service.Gateway, opts ...Option) *Registry {
	r := &Registry{
		byName: make(map[string]int),
		byURI:  make(map[string]int),
		log:    logger.With("toolkit"),
	}
	for _, opt := range opts {
		opt(r)
	}
	for _, t := range gatewayTools(g) {
		r.byName[t.Name] = len(r.tools)
		r.tools = append(r.tools, t)
	}
	for _, res := range gatewayResources(g) {
		res.MIMEType = MIMEJSON
		r.byURI[res.URI] = len(r.resources)
		r.resources = append(r.resources, res)
	}
	return r
}

// Tools lists every tool in declaration order.
func (r *Registry) Tools() []Tool {
	return append([]Tool(nil), r.tools...)
}

// Tool looks a tool up by name.
func (r *Registry) Tool(name string) (Tool, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Tool{}, false
	}
	return r.tools[i], true
}

// Group lists the tools of one group.
func (r *Registry) Group(group string) []Tool {
	var out []Tool
	for _, t := range r.tools {
		if t.Group == group {
			out = append(out, t)
		}
	}
	return out
}

// Groups lists group names, sorted.
func (r *Registry) Groups() []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range r.tools {
		if !seen[t.Group] {
			seen[t.Group] = true
			out = append(out, t.Group)
		}
	}
	sort.Strings(out)
	return out
}

// Invoke runs the named tool with JSON arguments (empty or null means no
// arguments) and notifies observers.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (any, error) {
	i, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	start := time.Now()
	out, err := r.tools[i].invoke(ctx, args)
	took := time.Since(start)
	r.log.Debug().Str("tool", name).Dur("took", took).Err(err).Msg("tool invoked")
	r.notify(ctx, name, args, err, took)
	return out, err
}

func (r *Registry) notify(ctx context.Context, name string, args json.RawMessage, err error, took time.Duration) {
	if len(r.observers) == 0 {
		return
	}
	if len(bytes.TrimSpace(args)) == 0 {
		args = json.RawMessage("{}")
	}
	rec := models.CallRecord{
		ID:         uuid.NewString(),
		Operation:  name,
		Arguments:  args,
		Outcome:    models.OutcomeOK,
		DurationMs: took.Milliseconds(),
		RequestID:  RequestIDFrom(ctx),
		CreatedAt:  time.Now().UTC(),
	}
	if err != nil {
		rec.Outcome = models.OutcomeError
		rec.ErrorKind = string(service.KindOf(err))
		rec.ErrorMessage = err.Error()
	}
	for _, o := range r.observers {
		o(ctx, rec)
	}
}

// bind adapts a typed gateway operation to an Invoker.
func bind[P any, R any](op string, fn func(context.Context, P) (R, error)) Invoker {
	return func(ctx context.Context, args json.RawMessage) (any, error) {
		var p P
		trimmed := bytes.TrimSpace(args)
		if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
			if err := json.Unmarshal(trimmed, &p); err != nil {
				return nil, argumentError(op, err)
			}
		}
		out, err := fn(ctx, p)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
}

func argumentError(op string, err error) error {
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) {
		return service.NewValidationError(op, te.Field, fmt.Sprintf("%s must be of type %s", te.Field, jsonType(te.Type.Kind().String())))
	}
	return service.NewValidationError(op, "", "invalid arguments: "+err.Error())
}

func jsonType(kind string) string {
	switch kind {
	case "int", "int64", "float64":
		return TypeNumber
	case "bool":
		return TypeBoolean
	case "slice":
		return TypeArray
	case "struct", "map":
		return "object"
	default:
		return kind
	}
}

// Render formats a result the way text transports carry it.
func Render(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type requestIDKey struct{}

// WithRequestID tags ctx with the id of the request being served.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request id stored by WithRequestID.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
