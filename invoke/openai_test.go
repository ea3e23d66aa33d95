package invoke

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/rmay1er/ai-responder/core/protocol"
)

func TestOpenAIInvoker_RejectsContinuation(t *testing.T) {
	inv := NewOpenAIInvoker(OpenAIConfig{APIKey: "test"}, nil)

	_, err := inv.Invoke(context.Background(), &Request{
		Prompt:       "hello",
		Continuation: true,
	})
	if !errors.Is(err, ErrContinuationUnsupported) {
		t.Errorf("got %v, want ErrContinuationUnsupported", err)
	}
}

func TestBuildChat_SystemAndTranscript(t *testing.T) {
	inv := NewOpenAIInvoker(OpenAIConfig{APIKey: "test"}, nil)

	chat := inv.buildChat(&Request{
		System: "be brief",
		Messages: []protocol.Message{
			protocol.NewMessage(protocol.RoleUser, "hi"),
			protocol.NewMessage(protocol.RoleAssistant, "hello"),
		},
	})

	if len(chat) != 3 {
		t.Fatalf("got %d messages, want 3", len(chat))
	}
	if chat[0].Role != openai.ChatMessageRoleSystem || chat[0].Content != "be brief" {
		t.Errorf("first message should be the system instruction, got %+v", chat[0])
	}
	if chat[2].Role != openai.ChatMessageRoleAssistant {
		t.Errorf("got role %q, want assistant", chat[2].Role)
	}
}

func TestBuildChat_PromptOnly(t *testing.T) {
	inv := NewOpenAIInvoker(OpenAIConfig{APIKey: "test"}, nil)

	chat := inv.buildChat(&Request{Prompt: "just this"})

	if len(chat) != 1 {
		t.Fatalf("got %d messages, want 1", len(chat))
	}
	if chat[0].Role != openai.ChatMessageRoleUser || chat[0].Content != "just this" {
		t.Errorf("got %+v", chat[0])
	}
}

func TestToOpenAIMessage_ToolFields(t *testing.T) {
	msg := protocol.Message{
		Role:    protocol.RoleAssistant,
		Content: "checking",
		ToolCalls: []protocol.ToolCall{
			{ID: "call_1", Name: "get_weather", Arguments: `{"city":"Boston"}`},
		},
	}

	out := toOpenAIMessage(msg)
	if len(out.ToolCalls) != 1 {
		t.Fatalf("got %d tool calls, want 1", len(out.ToolCalls))
	}
	tc := out.ToolCalls[0]
	if tc.Type != openai.ToolTypeFunction {
		t.Errorf("got type %q, want function", tc.Type)
	}
	if tc.Function.Name != "get_weather" || tc.Function.Arguments != `{"city":"Boston"}` {
		t.Errorf("got %+v", tc.Function)
	}

	result := toOpenAIMessage(protocol.Message{
		Role:       protocol.RoleTool,
		Content:    "sunny",
		ToolCallID: "call_1",
	})
	if result.ToolCallID != "call_1" {
		t.Errorf("got tool call id %q, want call_1", result.ToolCallID)
	}
}

func TestToolDefinitions(t *testing.T) {
	defs := toolDefinitions([]protocol.Tool{
		{Name: "lookup", Description: "finds things", Parameters: map[string]any{"type": "object"}},
	})

	if len(defs) != 1 {
		t.Fatalf("got %d tools, want 1", len(defs))
	}
	if defs[0].Type != openai.ToolTypeFunction {
		t.Errorf("got type %q, want function", defs[0].Type)
	}
	if defs[0].Function.Name != "lookup" {
		t.Errorf("got name %q, want lookup", defs[0].Function.Name)
	}
}

func TestExecute_NoRegistry(t *testing.T) {
	inv := NewOpenAIInvoker(OpenAIConfig{APIKey: "test"}, nil)

	content := inv.execute(context.Background(), protocol.ToolCall{Name: "ghost"})
	if content != "error: no handler for tool ghost" {
		t.Errorf("got %q", content)
	}
}
