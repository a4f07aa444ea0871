// Package tool implements the function calling subsystem that lets the agent
// invoke structured capabilities with consistent error handling. The
// Dispatcher services tool-call requests intercepted mid-run and always
// answers with a JSON result envelope; nothing in this package ever
// propagates a failure back into the run driver.
package tool

import (
	"context"
	"fmt"
)

// Tool defines a capability the agent can invoke.
//
// Tool implementations should:
//   - Provide clear, descriptive names and descriptions
//   - Define proper JSON schema for parameters
//   - Handle errors gracefully
//   - Be safe for concurrent use
type Tool interface {
	// Name returns the unique identifier used in function call routing.
	Name() string

	// Description returns a human-readable description of what this tool does.
	// It is provided to the agent to help it decide when to use the tool.
	Description() string

	// Parameters returns a JSON schema describing the expected arguments.
	// The schema is registered with the agent service at bootstrap.
	Parameters() map[string]any

	// Call executes the tool with the decoded argument map.
	Call(ctx context.Context, args map[string]any) (any, error)
}

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`    // Name of the tool that failed
	Message string `json:"message"` // Error message
	Code    string `json:"code"`    // Error code for categorization
}

// Error codes used across the dispatch pipeline.
const (
	CodeInvalidArguments = "INVALID_ARGUMENTS"
	CodeExecutionError   = "EXECUTION_ERROR"
	CodeUnknownTool      = "UNKNOWN_TOOL"
)

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{Tool: tool, Message: message, Code: code}
}
