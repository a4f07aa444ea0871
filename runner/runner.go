// Package runner drives the agent's asynchronous execution cycle for one
// user message at a time: submit the message, start a run, poll it to a
// terminal state and service any tool-call requests that arise mid-run.
//
// The runner is the absorption boundary of the error design: whatever goes
// wrong below it (service calls, tool dispatch, timeouts) comes back as a
// user-facing apology string, never as an error that could tear down the
// conversation or the shared registry.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/voyago/voyago/assistant"
	"github.com/voyago/voyago/logging"
)

// User-facing fallback replies. The failed variant embeds the reported error.
const (
	apologyErrorFmt = "Sorry, I encountered an error: %s"
	apologyTimeout  = "Sorry, the request timed out. Please try again."
)

// Dispatcher services one tool-call request and returns the output text to
// submit back into the run.
type Dispatcher interface {
	Dispatch(ctx context.Context, call assistant.ToolCall) string
}

// Options configure the Runner.
type Options struct {
	// PollInterval is the fixed wait between run status polls.
	PollInterval time.Duration
	// RunTimeout bounds the whole poll loop. The external service can sit in
	// a non-terminal state forever; without this bound the loop would too.
	RunTimeout time.Duration
	// Logger for run lifecycle records.
	Logger logging.Logger
}

// Runner drives runs over conversation threads. Safe for concurrent use; one
// message per call, messages for the same thread should be serialized by the
// caller (the per-connection gateway loop does this naturally).
type Runner struct {
	service      assistant.Service
	dispatcher   Dispatcher
	pollInterval time.Duration
	runTimeout   time.Duration
	log          logging.Logger
}

// New constructs a Runner with optional overrides.
func New(service assistant.Service, dispatcher Dispatcher, optFns ...func(o *Options)) *Runner {
	opts := Options{
		PollInterval: time.Second,
		RunTimeout:   2 * time.Minute,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Runner{
		service:      service,
		dispatcher:   dispatcher,
		pollInterval: opts.PollInterval,
		runTimeout:   opts.RunTimeout,
		log:          opts.Logger,
	}
}

// RunMessage submits userText to the thread, drives the resulting run to a
// terminal state and returns the agent's reply. It never returns an error:
// every failure mode is converted into an apology string and the session
// stays usable for the next message.
func (r *Runner) RunMessage(ctx context.Context, threadID, userText string) string {
	reply, err := r.runMessage(ctx, threadID, userText)
	if err != nil {
		r.log.Error("message processing failed", "thread_id", threadID, "error", err.Error())
		if ctx.Err() != nil {
			return apologyTimeout
		}
		return fmt.Sprintf(apologyErrorFmt, err)
	}
	return reply
}

func (r *Runner) runMessage(ctx context.Context, threadID, userText string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.runTimeout)
	defer cancel()

	if err := r.service.AddUserMessage(ctx, threadID, userText); err != nil {
		return "", err
	}

	runID, err := r.service.CreateRun(ctx, threadID)
	if err != nil {
		return "", err
	}

	r.log.Debug("run started", "thread_id", threadID, "run_id", runID)

	for {
		run, err := r.service.GetRun(ctx, threadID, runID)
		if err != nil {
			return "", err
		}

		r.log.Debug("run status", "thread_id", threadID, "run_id", runID, "status", string(run.Status))

		switch run.Status {
		case assistant.RunStatusCompleted:
			return r.service.LatestAssistantMessage(ctx, threadID)

		case assistant.RunStatusFailed:
			r.log.Error("run failed", "thread_id", threadID, "run_id", runID, "error", run.LastError)
			return fmt.Sprintf(apologyErrorFmt, run.LastError), nil

		case assistant.RunStatusExpired, assistant.RunStatusCancelled:
			r.log.Error("run did not complete", "thread_id", threadID, "run_id", runID, "status", string(run.Status))
			return apologyTimeout, nil

		case assistant.RunStatusRequiresAction:
			if err := r.serviceToolCalls(ctx, threadID, runID, run.ToolCalls); err != nil {
				return "", err
			}
		}

		select {
		case <-ctx.Done():
			// Bounded wait: either the run deadline elapsed or the client
			// went away. The in-flight run on the service is abandoned.
			r.log.Warn("run polling aborted", "thread_id", threadID, "run_id", runID, "cause", ctx.Err().Error())
			return apologyTimeout, nil
		case <-time.After(r.pollInterval):
		}
	}
}

// serviceToolCalls dispatches every pending tool-call request and submits
// the collected outputs so the run can resume. The design supports zero or
// more pending calls even though this domain emits exactly one per step.
func (r *Runner) serviceToolCalls(ctx context.Context, threadID, runID string, calls []assistant.ToolCall) error {
	if len(calls) == 0 {
		return nil
	}

	outputs := make([]assistant.ToolOutput, 0, len(calls))
	for _, call := range calls {
		r.log.Info("servicing tool call", "thread_id", threadID, "run_id", runID,
			"tool_name", call.Name, "call_id", call.ID)
		outputs = append(outputs, assistant.ToolOutput{
			CallID: call.ID,
			Output: r.dispatcher.Dispatch(ctx, call),
		})
	}

	return r.service.SubmitToolOutputs(ctx, threadID, runID, outputs)
}
