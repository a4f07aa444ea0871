package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/voyago/voyago/logging"
)

// instructions given to a newly created assistant. The agent gathers holiday
// preferences conversationally and calls the search capability with a JSON
// parameter object.
const defaultInstructions = `You are a holiday search assistant helping users find travel offers.
Gather the user's preferences (destinations, budget, dates, party, hotel wishes)
through conversation. When enough is known, call the makeSearch function with a
JSON object describing the search parameters. Summarize the search outcome for
the user in plain language.`

// ToolDefinition is the capability schema registered with the assistant at
// bootstrap. It mirrors the subset of the Tool interface the service needs.
type ToolDefinition interface {
	Name() string
	Description() string
	Parameters() map[string]any
}

// OpenAIOptions configure the OpenAI-backed Service.
type OpenAIOptions struct {
	// Model used when a new assistant has to be created.
	Model string
	// AssistantName shown in the OpenAI dashboard.
	AssistantName string
	// Instructions override the default system prompt.
	Instructions string
	// Logger for service-level records.
	Logger logging.Logger
}

// OpenAIService implements Service on top of the OpenAI Assistants API
// (threads, runs, tool outputs).
type OpenAIService struct {
	client      openai.Client
	assistantID string
	opts        OpenAIOptions
	log         logging.Logger
}

// NewOpenAIService creates the service with an API key and an optional
// pre-provisioned assistant ID. When assistantID is empty (or stale),
// EnsureAssistant provisions a new assistant.
func NewOpenAIService(apiKey, assistantID string, optFns ...func(o *OpenAIOptions)) *OpenAIService {
	opts := OpenAIOptions{
		Model:         string(openai.ChatModelGPT4o),
		AssistantName: "Holiday Search Assistant",
		Instructions:  defaultInstructions,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &OpenAIService{
		client:      openai.NewClient(option.WithAPIKey(apiKey)),
		assistantID: assistantID,
		opts:        opts,
		log:         opts.Logger,
	}
}

// EnsureAssistant verifies the configured assistant still exists, creating a
// new one carrying the given tool schemas when it does not. It returns the
// usable assistant ID.
func (s *OpenAIService) EnsureAssistant(ctx context.Context, tools []ToolDefinition) (string, error) {
	if s.assistantID != "" {
		if _, err := s.client.Beta.Assistants.Get(ctx, s.assistantID); err == nil {
			s.log.Info("using existing assistant", "assistant_id", s.assistantID)
			return s.assistantID, nil
		}
		s.log.Warn("configured assistant not found, creating a new one", "assistant_id", s.assistantID)
	}

	toolParams := make([]openai.AssistantToolUnionParam, 0, len(tools))
	for _, t := range tools {
		toolParams = append(toolParams, openai.AssistantToolUnionParam{
			OfFunction: &openai.FunctionToolParam{
				Function: openai.FunctionDefinitionParam{
					Name:        t.Name(),
					Description: openai.String(t.Description()),
					Parameters:  openai.FunctionParameters(t.Parameters()),
				},
			},
		})
	}

	created, err := s.client.Beta.Assistants.New(ctx, openai.BetaAssistantNewParams{
		Model:        openai.ChatModel(s.opts.Model),
		Name:         openai.String(s.opts.AssistantName),
		Instructions: openai.String(s.opts.Instructions),
		Tools:        toolParams,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create assistant: %w", err)
	}

	s.assistantID = created.ID
	s.log.Info("created new assistant", "assistant_id", created.ID)

	return created.ID, nil
}

// CreateThread opens a new conversation thread.
func (s *OpenAIService) CreateThread(ctx context.Context) (string, error) {
	thread, err := s.client.Beta.Threads.New(ctx, openai.BetaThreadNewParams{})
	if err != nil {
		return "", fmt.Errorf("failed to create thread: %w", err)
	}
	return thread.ID, nil
}

// ThreadExists reports whether the handle still resolves on the service.
func (s *OpenAIService) ThreadExists(ctx context.Context, threadID string) bool {
	_, err := s.client.Beta.Threads.Get(ctx, threadID)
	return err == nil
}

// AddUserMessage appends a user utterance to the thread.
func (s *OpenAIService) AddUserMessage(ctx context.Context, threadID, text string) error {
	_, err := s.client.Beta.Threads.Messages.New(ctx, threadID, openai.BetaThreadMessageNewParams{
		Role: openai.BetaThreadMessageNewParamsRoleUser,
		Content: openai.BetaThreadMessageNewParamsContentUnion{
			OfString: openai.String(text),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// CreateRun starts a run of the assistant over the thread.
func (s *OpenAIService) CreateRun(ctx context.Context, threadID string) (string, error) {
	run, err := s.client.Beta.Threads.Runs.New(ctx, threadID, openai.BetaThreadRunNewParams{
		AssistantID: s.assistantID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}
	return run.ID, nil
}

// GetRun fetches the run snapshot, translating the SDK shape into the
// service-neutral Run.
func (s *OpenAIService) GetRun(ctx context.Context, threadID, runID string) (Run, error) {
	run, err := s.client.Beta.Threads.Runs.Get(ctx, threadID, runID)
	if err != nil {
		return Run{}, fmt.Errorf("failed to retrieve run: %w", err)
	}

	snapshot := Run{
		ID:        run.ID,
		Status:    RunStatus(run.Status),
		LastError: run.LastError.Message,
	}
	for _, tc := range run.RequiredAction.SubmitToolOutputs.ToolCalls {
		snapshot.ToolCalls = append(snapshot.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	return snapshot, nil
}

// SubmitToolOutputs feeds the serviced tool results back into the run.
func (s *OpenAIService) SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []ToolOutput) error {
	params := make([]openai.BetaThreadRunSubmitToolOutputsParamsToolOutput, 0, len(outputs))
	for _, out := range outputs {
		params = append(params, openai.BetaThreadRunSubmitToolOutputsParamsToolOutput{
			ToolCallID: openai.String(out.CallID),
			Output:     openai.String(out.Output),
		})
	}

	_, err := s.client.Beta.Threads.Runs.SubmitToolOutputs(ctx, threadID, runID, openai.BetaThreadRunSubmitToolOutputsParams{
		ToolOutputs: params,
	})
	if err != nil {
		return fmt.Errorf("failed to submit tool outputs: %w", err)
	}
	return nil
}

// LatestAssistantMessage returns the text of the most recent assistant reply
// on the thread.
func (s *OpenAIService) LatestAssistantMessage(ctx context.Context, threadID string) (string, error) {
	page, err := s.client.Beta.Threads.Messages.List(ctx, threadID, openai.BetaThreadMessageListParams{
		Order: openai.BetaThreadMessageListParamsOrderDesc,
		Limit: openai.Int(10),
	})
	if err != nil {
		return "", fmt.Errorf("failed to list messages: %w", err)
	}

	for _, msg := range page.Data {
		if string(msg.Role) != "assistant" {
			continue
		}
		var sb strings.Builder
		for _, part := range msg.Content {
			if part.Text.Value != "" {
				sb.WriteString(part.Text.Value)
			}
		}
		if sb.Len() > 0 {
			return sb.String(), nil
		}
	}

	return "", fmt.Errorf("no assistant message found on thread %s", threadID)
}
