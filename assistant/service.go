// Package assistant abstracts the external conversational-agent service
// behind a narrow Service interface: opaque conversation threads, runs that
// progress through a bounded status set, and tool-output submission. The
// production implementation speaks the OpenAI Assistants API; tests plug in
// fakes.
package assistant

import "context"

// RunStatus is the lifecycle state of a run as reported by the agent service.
type RunStatus string

const (
	// RunStatusQueued means the run is accepted but not yet executing.
	RunStatusQueued RunStatus = "queued"
	// RunStatusInProgress means the agent is working on the run.
	RunStatusInProgress RunStatus = "in_progress"
	// RunStatusRequiresAction means the run is blocked on tool outputs.
	RunStatusRequiresAction RunStatus = "requires_action"
	// RunStatusCompleted is terminal success.
	RunStatusCompleted RunStatus = "completed"
	// RunStatusFailed is terminal failure with a reported error.
	RunStatusFailed RunStatus = "failed"
	// RunStatusExpired means the service gave up on the run.
	RunStatusExpired RunStatus = "expired"
	// RunStatusCancelled means the run was cancelled on the service side.
	RunStatusCancelled RunStatus = "cancelled"
)

// Terminal reports whether no further polling can change the status.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunStatusCompleted, RunStatusFailed, RunStatusExpired, RunStatusCancelled:
		return true
	default:
		return false
	}
}

// ToolCall is a capability request emitted by the agent mid-run. Arguments
// is the raw JSON payload exactly as the agent produced it.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToolOutput is the host-side result for one serviced tool call.
type ToolOutput struct {
	CallID string
	Output string
}

// Run is a point-in-time snapshot of one run.
type Run struct {
	ID string
	// Status drives the polling state machine.
	Status RunStatus
	// ToolCalls holds the pending requests when Status is requires_action.
	ToolCalls []ToolCall
	// LastError carries the service-reported failure reason, if any.
	LastError string
}

// Service is the contract the session registry and run driver consume.
// Implementations must be safe for concurrent use.
type Service interface {
	// CreateThread opens a new conversation thread and returns its handle.
	CreateThread(ctx context.Context) (string, error)
	// ThreadExists reports whether a previously issued handle is still valid.
	ThreadExists(ctx context.Context, threadID string) bool
	// AddUserMessage appends a user utterance to the thread.
	AddUserMessage(ctx context.Context, threadID, text string) error
	// CreateRun starts a run of the agent over the thread.
	CreateRun(ctx context.Context, threadID string) (string, error)
	// GetRun fetches the current run snapshot.
	GetRun(ctx context.Context, threadID, runID string) (Run, error)
	// SubmitToolOutputs feeds tool results back so the run can continue.
	SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []ToolOutput) error
	// LatestAssistantMessage returns the text of the most recent agent reply.
	LatestAssistantMessage(ctx context.Context, threadID string) (string, error)
}
