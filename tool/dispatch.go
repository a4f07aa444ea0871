package tool

import (
	"context"
	"encoding/json"
	"time"

	"github.com/voyago/voyago/assistant"
	"github.com/voyago/voyago/logging"
)

// Result is the envelope every serviced tool call produces. It is fed back
// into the run verbatim, so the agent always receives well-formed JSON even
// when the pipeline failed.
type Result struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Dispatcher routes tool-call requests to registered tools. Failures of any
// kind (bad JSON, unknown function, tool error, panic) become error
// envelopes; the dispatcher never lets a request crash the run driver.
type Dispatcher struct {
	tools map[string]Tool
	log   logging.Logger
}

// NewDispatcher creates a Dispatcher over the given tools.
func NewDispatcher(log logging.Logger, tools ...Tool) *Dispatcher {
	if log == nil {
		log = logging.NoOpLogger{}
	}
	registry := make(map[string]Tool, len(tools))
	for _, t := range tools {
		registry[t.Name()] = t
	}
	return &Dispatcher{tools: registry, log: log}
}

// Tools returns the registered tools in registration-independent order,
// used to build the capability schema at assistant bootstrap.
func (d *Dispatcher) Tools() []Tool {
	out := make([]Tool, 0, len(d.tools))
	for _, t := range d.tools {
		out = append(out, t)
	}
	return out
}

// Dispatch services one tool-call request and returns the JSON text to feed
// back into the run.
func (d *Dispatcher) Dispatch(ctx context.Context, call assistant.ToolCall) string {
	impl, ok := d.tools[call.Name]
	if !ok {
		d.log.Warn("unknown tool requested", "tool_name", call.Name, "call_id", call.ID)
		return encode(Result{Status: "error", Message: "unknown function: " + call.Name})
	}

	var args map[string]any
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			d.log.Warn("tool call carried malformed JSON", "tool_name", call.Name, "call_id", call.ID)
			return encode(Result{Status: "error", Message: "Invalid JSON format"})
		}
	}

	// The original capability schema wrapped the parameters in a single
	// json string field; unwrap it so either payload shape works.
	if inner, ok := args["json"].(string); ok && len(args) == 1 {
		args = nil
		if err := json.Unmarshal([]byte(inner), &args); err != nil {
			return encode(Result{Status: "error", Message: "Invalid JSON format"})
		}
	}

	start := time.Now()
	result, err := d.callSafely(ctx, impl, args)
	logging.LogToolCall(d.log, call.Name, time.Since(start), err == nil, err)

	if err != nil {
		return encode(Result{Status: "error", Message: err.Error()})
	}
	if envelope, ok := result.(Result); ok {
		return encode(envelope)
	}
	return encode(Result{Status: "success", Message: "completed", Data: result})
}

// callSafely invokes the tool converting panics into errors so a misbehaving
// tool cannot take down the conversation.
func (d *Dispatcher) callSafely(ctx context.Context, impl Tool, args map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("tool panicked", "tool_name", impl.Name(), "recover", r)
			err = NewToolError(impl.Name(), "internal tool failure", CodeExecutionError)
		}
	}()
	return impl.Call(ctx, args)
}

func encode(r Result) string {
	data, err := json.Marshal(r)
	if err != nil {
		return `{"status":"error","message":"failed to encode tool result"}`
	}
	return string(data)
}
