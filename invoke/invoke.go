// Package invoke defines the model-invocation collaborator contract the
// responder calls once per turn, and an OpenAI-backed implementation.
package invoke

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rmay1er/ai-responder/core/protocol"
)

// Schema describes the structured output a caller wants instead of free
// text. Parameters is the JSON Schema shape of the expected object.
type Schema struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Request carries everything one model invocation needs. Exactly one of
// Messages (full-transcript replay) or Prompt (token replay and no-memory
// turns) describes the conversation input.
type Request struct {
	// System is the system instruction prepended to the conversation.
	System string
	// Messages is the full prior transcript including the new user prompt.
	Messages []protocol.Message
	// Prompt is the new user prompt when no transcript is replayed.
	Prompt string
	// Continuation requests provider-side history: the response must carry
	// a fresh continuation token, and PreviousToken (when non-empty) names
	// the history to continue from.
	Continuation  bool
	PreviousToken string

	Tools       []protocol.Tool
	MaxTokens   int
	MaxSteps    int
	Temperature float32
	// Schema, when set, asks for a structured object conforming to it
	// instead of free text.
	Schema *Schema
}

// Response reports one invocation's outcome. Messages holds the complete
// ordered list of messages the invocation produced, including intermediate
// tool calls and results, so the trimmer can see protected pairs.
type Response struct {
	Text     string
	Object   json.RawMessage
	Messages []protocol.Message
	// Token is the fresh continuation token for Continuation requests.
	Token string
}

// Invoker executes a single model invocation. Implementations impose their
// own timeout and retry policy; the responder adds none.
type Invoker interface {
	Invoke(ctx context.Context, req *Request) (*Response, error)
}

// Sentinel errors for invokers.
var (
	ErrEmptyResponse           = errors.New("model returned no choices")
	ErrMaxSteps                = errors.New("tool steps exhausted without a final response")
	ErrContinuationUnsupported = errors.New("provider does not retain server-side history")
)
