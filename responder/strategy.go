package responder

import (
	"context"

	"github.com/rmay1er/ai-responder/core/protocol"
	"github.com/rmay1er/ai-responder/invoke"
	"github.com/rmay1er/ai-responder/session"
)

// strategy is the context-representation variant chosen at construction
// time. Both share the turn skeleton (load, invoke, persist) and differ in
// how prior context is loaded into the request and merged back afterwards.
type strategy interface {
	// prepare loads prior context for userID into req.
	prepare(ctx context.Context, r *Responder, userID, prompt string, req *invoke.Request)
	// persist merges the invocation outcome back into the session entry.
	persist(ctx context.Context, r *Responder, userID string, req *invoke.Request, resp *invoke.Response) error
}

// transcriptStrategy replays the full stored message history each turn and
// trims it before saving.
type transcriptStrategy struct{}

func (transcriptStrategy) prepare(ctx context.Context, r *Responder, userID, prompt string, req *invoke.Request) {
	prior := r.store.LoadTranscript(ctx, userID)
	req.Messages = append(prior, protocol.NewMessage(protocol.RoleUser, prompt))
}

func (transcriptStrategy) persist(ctx context.Context, r *Responder, userID string, req *invoke.Request, resp *invoke.Response) error {
	produced := resp.Messages
	if len(produced) == 0 && resp.Text != "" {
		// Invoker did not report its messages; record the final reply so
		// the next turn still sees it.
		produced = []protocol.Message{protocol.NewMessage(protocol.RoleAssistant, resp.Text)}
	}

	full := make([]protocol.Message, 0, len(req.Messages)+len(produced))
	full = append(full, req.Messages...)
	full = append(full, produced...)

	return r.store.SaveTranscript(ctx, userID, session.Trim(full, r.budget), r.ttl)
}

// tokenStrategy stores only the provider-issued continuation token; history
// lives server-side and no trimming applies.
type tokenStrategy struct{}

func (tokenStrategy) prepare(ctx context.Context, r *Responder, userID, prompt string, req *invoke.Request) {
	req.Prompt = prompt
	req.Continuation = true
	req.PreviousToken = r.store.LoadToken(ctx, userID)
}

func (tokenStrategy) persist(ctx context.Context, r *Responder, userID string, _ *invoke.Request, resp *invoke.Response) error {
	if resp.Token == "" {
		return ErrNoContinuationToken
	}
	return r.store.SaveToken(ctx, userID, resp.Token, r.ttl)
}
