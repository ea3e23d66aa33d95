// Package responder orchestrates one conversational turn: load prior
// context for a user, run a single model invocation, and persist the
// updated context under the same identifier with a sliding expiry.
//
//	cfg := responder.DefaultConfig()
//	r, err := responder.New(&cfg, invoker)
//	result, err := r.GetContextResponse(ctx, "alice", "What did I just ask?")
package responder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rmay1er/ai-responder/cache"
	"github.com/rmay1er/ai-responder/core/protocol"
	"github.com/rmay1er/ai-responder/invoke"
	"github.com/rmay1er/ai-responder/observability"
	"github.com/rmay1er/ai-responder/session"
	"github.com/rmay1er/ai-responder/tools"
)

// FaultHandler receives provider connectivity events, invocation failures,
// and the final clean event. It is a notification side-channel: errors it
// reports are also returned to the caller through the normal path.
type FaultHandler func(kind cache.EventKind, detail string)

// Result holds the outcome of one turn.
type Result struct {
	// UserID is the session identifier the turn ran under; generated when
	// the caller passed an empty one.
	UserID string
	// Text is the model's final reply.
	Text string
	// Object is the structured result for GetStructuredObject turns.
	Object json.RawMessage
	// Messages is the ordered list of messages the invocation produced.
	Messages []protocol.Message
	// Token is the fresh continuation token under the token strategy.
	Token string
}

// Responder manages per-user conversational sessions in front of a
// stateless model API. Turns for different users are fully independent;
// concurrent turns for the same user are not serialized and the later save
// wins.
type Responder struct {
	invoker  invoke.Invoker
	provider cache.Provider
	store    *session.Store
	strategy strategy
	registry *tools.Registry
	observer observability.Observer

	system      string
	budget      int
	ttl         time.Duration
	maxTokens   int
	maxSteps    int
	temperature float32

	faultMu sync.RWMutex
	fault   FaultHandler

	shutdownOnce sync.Once
}

// Option configures a Responder after config-driven initialization.
type Option func(*Responder)

// WithProvider overrides the config-created cache provider.
func WithProvider(p cache.Provider) Option {
	return func(r *Responder) { r.provider = p }
}

// WithObserver overrides the default SlogObserver.
func WithObserver(o observability.Observer) Option {
	return func(r *Responder) { r.observer = o }
}

// WithTools installs a tool registry whose definitions are offered to the
// model on every turn.
func WithTools(registry *tools.Registry) Option {
	return func(r *Responder) { r.registry = registry }
}

// New creates a Responder from configuration and a model-invocation
// collaborator. The cache provider is built from cfg.Cache unless
// WithProvider overrides it.
func New(cfg *Config, invoker invoke.Invoker, opts ...Option) (*Responder, error) {
	if invoker == nil {
		return nil, ErrNilInvoker
	}

	// A non-positive budget would disable trimming and let sessions grow
	// without bound; treat it like an unset value.
	budget := cfg.RetentionBudget
	if budget < 1 {
		budget = defaultRetentionBudget
	}
	ttlSeconds := cfg.TTLSeconds
	if ttlSeconds == 0 {
		ttlSeconds = defaultTTLSeconds
	}

	r := &Responder{
		invoker:     invoker,
		observer:    observability.NewSlogObserver(slog.Default()),
		system:      cfg.SystemPrompt,
		budget:      budget,
		ttl:         time.Duration(ttlSeconds) * time.Second,
		maxTokens:   cfg.MaxTokens,
		maxSteps:    cfg.MaxSteps,
		temperature: cfg.Temperature,
	}

	switch cfg.Strategy {
	case "", StrategyTranscript:
		r.strategy = transcriptStrategy{}
	case StrategyToken:
		r.strategy = tokenStrategy{}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, cfg.Strategy)
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.provider == nil {
		provider, err := cache.New(&cfg.Cache)
		if err != nil {
			return nil, fmt.Errorf("failed to create cache provider: %w", err)
		}
		r.provider = provider
	}
	r.store = session.NewStore(r.provider)

	for _, kind := range []cache.EventKind{
		cache.EventError, cache.EventConnect, cache.EventReconnecting, cache.EventEnd,
	} {
		r.provider.Subscribe(kind, func(detail string) {
			r.notify("cache", kind, detail)
		})
	}

	return r, nil
}

// RegisterFaultHandler installs the single optional fault handler,
// replacing any previous one. A nil handler disables notification.
func (r *Responder) RegisterFaultHandler(handler FaultHandler) {
	r.faultMu.Lock()
	r.fault = handler
	r.faultMu.Unlock()
}

// CallOption adjusts a single turn.
type CallOption func(*callSettings)

type callSettings struct {
	memory bool
}

// WithoutMemory runs the turn with no session state: prior context is not
// loaded, the invocation sees only the new prompt, and nothing is saved.
func WithoutMemory() CallOption {
	return func(s *callSettings) { s.memory = false }
}

// GetContextResponse runs one conversational turn for userID and returns
// the model's reply. An empty userID starts an anonymous session whose
// generated identifier is reported in the Result.
//
// Invocation errors are returned unchanged after informing the fault
// handler; no retry is attempted. A failed state save still returns the
// model response alongside the error.
func (r *Responder) GetContextResponse(ctx context.Context, userID, prompt string, opts ...CallOption) (*Result, error) {
	return r.turn(ctx, userID, prompt, nil, opts)
}

// GetStructuredObject runs one turn asking the model for data conforming to
// schema instead of free text. Context handling is identical to
// GetContextResponse; the serialized object joins the history as an
// assistant message.
func (r *Responder) GetStructuredObject(ctx context.Context, userID, prompt string, schema invoke.Schema, opts ...CallOption) (*Result, error) {
	return r.turn(ctx, userID, prompt, &schema, opts)
}

func (r *Responder) turn(ctx context.Context, userID, prompt string, schema *invoke.Schema, opts []CallOption) (*Result, error) {
	settings := callSettings{memory: true}
	for _, opt := range opts {
		opt(&settings)
	}

	if userID == "" {
		userID = uuid.NewString()
	}

	req := &invoke.Request{
		System:      r.system,
		MaxTokens:   r.maxTokens,
		MaxSteps:    r.maxSteps,
		Temperature: r.temperature,
		Schema:      schema,
	}
	if r.registry != nil {
		req.Tools = r.registry.List()
	}

	if settings.memory {
		r.strategy.prepare(ctx, r, userID, prompt, req)
	} else {
		req.Prompt = prompt
	}

	resp, err := r.invoker.Invoke(ctx, req)
	if err != nil {
		r.notify("invoke", cache.EventError, err.Error())
		return nil, fmt.Errorf("model invocation failed: %w", err)
	}

	result := &Result{
		UserID:   userID,
		Text:     resp.Text,
		Object:   resp.Object,
		Messages: resp.Messages,
		Token:    resp.Token,
	}

	if settings.memory {
		if err := r.strategy.persist(ctx, r, userID, req, resp); err != nil {
			r.notify("session", cache.EventError, err.Error())
			return result, fmt.Errorf("failed to persist session state: %w", err)
		}
	}

	return result, nil
}

// Shutdown flushes and closes the session cache exactly once, then emits
// the clean event. Subsequent calls are no-ops. Turns racing a shutdown may
// observe a closed provider and report it as a cache error.
func (r *Responder) Shutdown(ctx context.Context) error {
	var err error
	r.shutdownOnce.Do(func() {
		err = r.store.FlushAndClose(ctx)
		if err != nil {
			r.notify("shutdown", cache.EventError, err.Error())
			return
		}
		r.notify("shutdown", cache.EventClean, "session cache flushed and closed")
	})
	return err
}

// notify forwards an event to the registered fault handler and the
// observer.
func (r *Responder) notify(source string, kind cache.EventKind, detail string) {
	r.faultMu.RLock()
	handler := r.fault
	r.faultMu.RUnlock()

	if handler != nil {
		handler(kind, detail)
	}

	eventKind, level := eventFor(kind)
	r.observer.OnEvent(context.Background(), observability.Event{
		Kind:   eventKind,
		Level:  level,
		Time:   time.Now(),
		Source: "responder." + source,
		Detail: detail,
	})
}
