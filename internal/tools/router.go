package tools

import (
	"context"
	"log"

	"github.com/arialabs/aria/internal/llm"
	"github.com/arialabs/aria/internal/observability"
	"github.com/arialabs/aria/internal/policy"
)

// HandlerFunc resolves one tool call. Implementations validate and convert
// the untyped arguments before any domain logic runs and always return a
// Result, never panic.
type HandlerFunc func(ctx context.Context, args map[string]any) Result

// Router maps function names to handlers. It is populated once at startup
// and read-only afterwards, so a single Router safely serves any number of
// concurrent conversations.
type Router struct {
	handlers map[string]HandlerFunc
	defs     []llm.ToolDefinition
	metrics  *observability.Metrics
}

func NewRouter(metrics *observability.Metrics) *Router {
	return &Router{
		handlers: make(map[string]HandlerFunc),
		metrics:  metrics,
	}
}

// Register adds a handler and its model-facing definition. Call only during
// startup, before the router is shared.
func (r *Router) Register(def llm.ToolDefinition, fn HandlerFunc) {
	r.handlers[def.Name] = fn
	r.defs = append(r.defs, def)
}

// Definitions returns the tool definitions offered to the language model.
func (r *Router) Definitions() []llm.ToolDefinition {
	return r.defs
}

// Dispatch invokes the handler registered for name. Unregistered names and
// handler panics both come back as failure results; Dispatch itself never
// fails.
func (r *Router) Dispatch(ctx context.Context, name string, args map[string]any) (result Result) {
	fn, ok := r.handlers[name]
	if !ok {
		log.Printf("tools: dispatch %s: not registered", name)
		r.metrics.ToolCalls.WithLabelValues(name, "unknown").Inc()
		return Errorf(ErrUnknownFunction, "%s not available", name)
	}

	log.Printf("tools: dispatch %s args=%s", name, policy.SanitizeToolArgs(args))
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("tools: %s panicked: %v", name, rec)
			r.metrics.ToolCalls.WithLabelValues(name, "panic").Inc()
			result = Errorf(ErrUpstreamFailure, "Unable to process this request right now. Please try again.")
		}
	}()

	result = fn(ctx, args)
	if kind, isErr := result.IsError(); isErr {
		log.Printf("tools: %s returned %s", name, kind)
		r.metrics.ToolCalls.WithLabelValues(name, "error").Inc()
	} else {
		log.Printf("tools: %s ok", name)
		r.metrics.ToolCalls.WithLabelValues(name, "ok").Inc()
	}
	return result
}
