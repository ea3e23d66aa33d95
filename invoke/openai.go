package invoke

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/rmay1er/ai-responder/core/protocol"
	"github.com/rmay1er/ai-responder/tools"
)

const defaultMaxSteps = 5

// OpenAIConfig holds parameters for the OpenAI-backed invoker.
type OpenAIConfig struct {
	APIKey string `json:"-"`
	// BaseURL overrides the API endpoint for OpenAI-compatible servers.
	BaseURL string `json:"base_url,omitempty"`
	Model   string `json:"model,omitempty"`
}

// OpenAIInvoker runs chat-completion invocations, executing requested tool
// calls through its registry until the model produces a final message or
// the step budget runs out.
//
// The chat-completions API keeps no server-side history, so Continuation
// requests fail with ErrContinuationUnsupported; continuation tokens need a
// provider that retains history.
type OpenAIInvoker struct {
	client   *openai.Client
	model    string
	registry *tools.Registry
}

// NewOpenAIInvoker creates an invoker for the configured model. registry
// supplies handlers for the tool definitions passed on each request; nil is
// allowed when no tools are used.
func NewOpenAIInvoker(cfg OpenAIConfig, registry *tools.Registry) *OpenAIInvoker {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAIInvoker{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    model,
		registry: registry,
	}
}

func (inv *OpenAIInvoker) Invoke(ctx context.Context, req *Request) (*Response, error) {
	if req.Continuation {
		return nil, ErrContinuationUnsupported
	}

	chat := inv.buildChat(req)

	maxSteps := req.MaxSteps
	if maxSteps < 1 {
		maxSteps = defaultMaxSteps
	}

	var produced []protocol.Message

	for step := 0; step < maxSteps; step++ {
		completion, err := inv.complete(ctx, chat, req)
		if err != nil {
			return nil, fmt.Errorf("chat completion failed: %w", err)
		}
		if len(completion.Choices) == 0 {
			return nil, ErrEmptyResponse
		}

		msg := completion.Choices[0].Message

		if len(msg.ToolCalls) == 0 {
			produced = append(produced, protocol.NewMessage(protocol.RoleAssistant, msg.Content))
			resp := &Response{Text: msg.Content, Messages: produced}
			if req.Schema != nil {
				resp.Object = json.RawMessage(msg.Content)
			}
			return resp, nil
		}

		calls := make([]protocol.ToolCall, len(msg.ToolCalls))
		for i, tc := range msg.ToolCalls {
			calls[i] = protocol.ToolCall{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			}
		}
		produced = append(produced, protocol.Message{
			Role:      protocol.RoleAssistant,
			Content:   msg.Content,
			ToolCalls: calls,
		})
		chat = append(chat, msg)

		for _, call := range calls {
			content := inv.execute(ctx, call)
			produced = append(produced, protocol.Message{
				Role:       protocol.RoleTool,
				Content:    content,
				ToolCallID: call.ID,
			})
			chat = append(chat, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    content,
				ToolCallID: call.ID,
			})
		}
	}

	return nil, ErrMaxSteps
}

func (inv *OpenAIInvoker) complete(ctx context.Context, chat []openai.ChatCompletionMessage, req *Request) (openai.ChatCompletionResponse, error) {
	completion := openai.ChatCompletionRequest{
		Model:    inv.model,
		Messages: chat,
	}
	if req.Temperature > 0 {
		completion.Temperature = req.Temperature
	}
	if req.MaxTokens > 0 {
		completion.MaxCompletionTokens = req.MaxTokens
	}
	if len(req.Tools) > 0 {
		completion.Tools = toolDefinitions(req.Tools)
	}
	if req.Schema != nil {
		shape, err := json.Marshal(req.Schema.Parameters)
		if err != nil {
			return openai.ChatCompletionResponse{}, fmt.Errorf("marshal schema %q: %w", req.Schema.Name, err)
		}
		completion.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        req.Schema.Name,
				Description: req.Schema.Description,
				Schema:      json.RawMessage(shape),
				Strict:      true,
			},
		}
	}

	return inv.client.CreateChatCompletion(ctx, completion)
}

// execute runs one tool call; failures feed back to the model as error text
// rather than aborting the turn.
func (inv *OpenAIInvoker) execute(ctx context.Context, call protocol.ToolCall) string {
	if inv.registry == nil {
		return fmt.Sprintf("error: no handler for tool %s", call.Name)
	}

	result, err := inv.registry.Execute(ctx, call.Name, json.RawMessage(call.Arguments))
	if err != nil {
		return fmt.Sprintf("error: %s", err)
	}
	return result.Content
}

func (inv *OpenAIInvoker) buildChat(req *Request) []openai.ChatCompletionMessage {
	history := req.Messages
	if len(history) == 0 && req.Prompt != "" {
		history = []protocol.Message{protocol.NewMessage(protocol.RoleUser, req.Prompt)}
	}

	chat := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	if req.System != "" {
		chat = append(chat, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, msg := range history {
		chat = append(chat, toOpenAIMessage(msg))
	}
	return chat
}

func toOpenAIMessage(msg protocol.Message) openai.ChatCompletionMessage {
	out := openai.ChatCompletionMessage{
		Role:       string(msg.Role),
		Content:    msg.Content,
		ToolCallID: msg.ToolCallID,
	}
	for _, call := range msg.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, openai.ToolCall{
			ID:   call.ID,
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      call.Name,
				Arguments: call.Arguments,
			},
		})
	}
	return out
}

func toolDefinitions(defs []protocol.Tool) []openai.Tool {
	out := make([]openai.Tool, len(defs))
	for i, def := range defs {
		out[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Parameters,
			},
		}
	}
	return out
}
