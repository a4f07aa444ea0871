package tool

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyago/voyago/assistant"
	"github.com/voyago/voyago/logging"
)

// stubTool lets each test script the tool behavior.
type stubTool struct {
	name string
	fn   func(ctx context.Context, args map[string]any) (any, error)
}

func (s *stubTool) Name() string                { return s.name }
func (s *stubTool) Description() string         { return "stub" }
func (s *stubTool) Parameters() map[string]any  { return map[string]any{"type": "object"} }
func (s *stubTool) Call(ctx context.Context, args map[string]any) (any, error) {
	return s.fn(ctx, args)
}

func decodeResult(t *testing.T, out string) Result {
	t.Helper()
	var r Result
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	return r
}

func TestDispatch_InvalidJSON(t *testing.T) {
	d := NewDispatcher(logging.NoOpLogger{}, &stubTool{name: "demo", fn: func(context.Context, map[string]any) (any, error) {
		t.Fatal("tool must not run on malformed payloads")
		return nil, nil
	}})

	out := d.Dispatch(context.Background(), assistant.ToolCall{ID: "c1", Name: "demo", Arguments: `{"stars":`})
	r := decodeResult(t, out)
	assert.Equal(t, "error", r.Status)
	assert.Equal(t, "Invalid JSON format", r.Message)
}

func TestDispatch_UnknownFunction(t *testing.T) {
	d := NewDispatcher(logging.NoOpLogger{})

	out := d.Dispatch(context.Background(), assistant.ToolCall{ID: "c1", Name: "teleport", Arguments: `{}`})
	r := decodeResult(t, out)
	assert.Equal(t, "error", r.Status)
	assert.Contains(t, r.Message, "teleport")
}

func TestDispatch_ToolErrorBecomesEnvelope(t *testing.T) {
	d := NewDispatcher(logging.NoOpLogger{}, &stubTool{name: "demo", fn: func(context.Context, map[string]any) (any, error) {
		return nil, errors.New("backend unavailable")
	}})

	out := d.Dispatch(context.Background(), assistant.ToolCall{ID: "c1", Name: "demo", Arguments: `{}`})
	r := decodeResult(t, out)
	assert.Equal(t, "error", r.Status)
	assert.Contains(t, r.Message, "backend unavailable")
}

func TestDispatch_PanicRecovered(t *testing.T) {
	d := NewDispatcher(logging.NoOpLogger{}, &stubTool{name: "demo", fn: func(context.Context, map[string]any) (any, error) {
		panic("boom")
	}})

	out := d.Dispatch(context.Background(), assistant.ToolCall{ID: "c1", Name: "demo", Arguments: `{}`})
	r := decodeResult(t, out)
	assert.Equal(t, "error", r.Status)
	assert.Contains(t, r.Message, "internal tool failure")
}

func TestDispatch_Success(t *testing.T) {
	d := NewDispatcher(logging.NoOpLogger{}, &stubTool{name: "demo", fn: func(_ context.Context, args map[string]any) (any, error) {
		return Result{Status: "success", Message: "done", Data: args["x"]}, nil
	}})

	out := d.Dispatch(context.Background(), assistant.ToolCall{ID: "c1", Name: "demo", Arguments: `{"x":42}`})
	r := decodeResult(t, out)
	assert.Equal(t, "success", r.Status)
	assert.Equal(t, "done", r.Message)
	assert.Equal(t, 42.0, r.Data)
}

func TestDispatch_WrappedJSONStringPayload(t *testing.T) {
	var got map[string]any
	d := NewDispatcher(logging.NoOpLogger{}, &stubTool{name: "demo", fn: func(_ context.Context, args map[string]any) (any, error) {
		got = args
		return "ok", nil
	}})

	// Legacy capability schema: parameters arrive as a single json string field.
	out := d.Dispatch(context.Background(), assistant.ToolCall{
		ID:   "c1",
		Name: "demo",
		Arguments: `{"json":"{\"stars\":[4]}"}`,
	})
	r := decodeResult(t, out)
	assert.Equal(t, "success", r.Status)
	assert.Equal(t, []any{4.0}, got["stars"])
}

func TestDispatch_EmptyArguments(t *testing.T) {
	d := NewDispatcher(logging.NoOpLogger{}, &stubTool{name: "demo", fn: func(_ context.Context, args map[string]any) (any, error) {
		assert.Nil(t, args)
		return "ok", nil
	}})

	out := d.Dispatch(context.Background(), assistant.ToolCall{ID: "c1", Name: "demo"})
	r := decodeResult(t, out)
	assert.Equal(t, "success", r.Status)
}
