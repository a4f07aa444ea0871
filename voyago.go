// Package voyago provides a high-level façade over the building blocks of
// the holiday-search agent: the destination catalog, the parameter
// validator, the offer-search client, the conversational-agent service and
// the websocket gateway. Most applications interact with this package by:
//  1. Loading a Config (config.Load)
//  2. Creating a Bot via New()
//  3. Calling Serve() to accept websocket conversations, or HandleMessage()
//     to process a single message directly.
package voyago

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/voyago/voyago/assistant"
	"github.com/voyago/voyago/catalog"
	"github.com/voyago/voyago/config"
	"github.com/voyago/voyago/logging"
	"github.com/voyago/voyago/params"
	"github.com/voyago/voyago/runner"
	"github.com/voyago/voyago/search"
	"github.com/voyago/voyago/session"
	"github.com/voyago/voyago/tool"
	"github.com/voyago/voyago/ws"
)

// Options configures the Bot instance.
type Options struct {
	// Service overrides the conversational-agent backend. Defaults to the
	// OpenAI assistants implementation built from the config.
	Service assistant.Service

	// Searcher overrides the offer-search backend. Defaults to the HTTP
	// client pointed at Config.SearchBaseURL.
	Searcher tool.HotelSearcher

	// Logger (defaults to a text logger at the configured level if nil)
	Logger logging.Logger

	// Now supplies the clock used for date validation. Defaults to time.Now.
	Now func() time.Time
}

// Bot aggregates the wired components behind a single message entrypoint.
type Bot struct {
	cfg      *config.Config
	log      logging.Logger
	service  assistant.Service
	registry *session.Registry
	runner   *runner.Runner
	gateway  *ws.Gateway
	tools    []tool.Tool
}

// New wires a Bot from the configuration. It does not talk to any backend
// yet; call Bootstrap before serving traffic.
func New(cfg *config.Config, optFns ...func(o *Options)) (*Bot, error) {
	opts := Options{Now: time.Now}
	for _, fn := range optFns {
		fn(&opts)
	}

	log := opts.Logger
	if log == nil {
		log = logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat, nil)
	}

	cat, err := catalog.Load(cfg.CatalogVersion)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	searcher := opts.Searcher
	if searcher == nil {
		searcher = search.NewClient(cfg.SearchBaseURL, func(o *search.Options) {
			o.Logger = log
		})
	}

	validator := params.NewValidator(log, opts.Now)
	searchTool := tool.NewSearchTool(validator, cat, searcher, log)
	dispatcher := tool.NewDispatcher(log, searchTool)

	service := opts.Service
	if service == nil {
		service = assistant.NewOpenAIService(cfg.OpenAIAPIKey, cfg.AssistantID, func(o *assistant.OpenAIOptions) {
			o.Logger = log
		})
	}

	b := &Bot{
		cfg:      cfg,
		log:      log,
		service:  service,
		registry: session.NewRegistry(service, log),
		runner: runner.New(service, dispatcher, func(o *runner.Options) {
			o.PollInterval = cfg.PollInterval
			o.RunTimeout = cfg.RunTimeout
			o.Logger = log
		}),
	}
	b.gateway = ws.NewGateway(b, cfg.WS, log)
	b.tools = dispatcher.Tools()

	return b, nil
}

// bootstrapper is implemented by services that provision the remote agent
// definition, such as the OpenAI assistants backend.
type bootstrapper interface {
	EnsureAssistant(ctx context.Context, tools []assistant.ToolDefinition) (string, error)
}

// Bootstrap ensures the remote assistant exists and carries the current
// tool definitions. It must run once before the first conversation.
func (b *Bot) Bootstrap(ctx context.Context) error {
	bs, ok := b.service.(bootstrapper)
	if !ok {
		return nil
	}
	defs := make([]assistant.ToolDefinition, len(b.tools))
	for i, t := range b.tools {
		defs[i] = t
	}
	id, err := bs.EnsureAssistant(ctx, defs)
	if err != nil {
		return fmt.Errorf("ensure assistant: %w", err)
	}
	b.log.Info("assistant ready", "assistant_id", id)
	return nil
}

// HandleMessage resolves the conversation's thread and drives one message
// through the agent. It never fails: errors come back as apology text.
func (b *Bot) HandleMessage(ctx context.Context, conversationID, userText string) string {
	threadID, err := b.registry.GetOrCreateThread(ctx, conversationID)
	if err != nil {
		b.log.Error("thread resolution failed", "conversation_id", conversationID, "error", err.Error())
		return fmt.Sprintf("Sorry, I encountered an error: %s", err)
	}
	return b.runner.RunMessage(ctx, threadID, userText)
}

// Serve bootstraps the assistant and runs the websocket gateway until ctx
// is cancelled or an interrupt arrives.
func (b *Bot) Serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := b.Bootstrap(ctx); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		b.log.Info("listening", "addr", b.cfg.ListenAddr)
		errCh <- b.gateway.Start(b.cfg.ListenAddr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return b.gateway.Shutdown(shutdownCtx)
}
