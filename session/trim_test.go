package session_test

import (
	"reflect"
	"testing"

	"github.com/rmay1er/ai-responder/core/protocol"
	"github.com/rmay1er/ai-responder/session"
)

func user(content string) protocol.Message {
	return protocol.NewMessage(protocol.RoleUser, content)
}

func assistant(content string) protocol.Message {
	return protocol.NewMessage(protocol.RoleAssistant, content)
}

func assistantToolCall(content string) protocol.Message {
	return protocol.Message{
		Role:      protocol.RoleAssistant,
		Content:   content,
		ToolCalls: []protocol.ToolCall{{ID: "call_1", Name: "lookup", Arguments: "{}"}},
	}
}

func toolResult(content string) protocol.Message {
	return protocol.Message{Role: protocol.RoleTool, Content: content, ToolCallID: "call_1"}
}

func assistantMultiCall(content string, ids ...string) protocol.Message {
	calls := make([]protocol.ToolCall, len(ids))
	for i, id := range ids {
		calls[i] = protocol.ToolCall{ID: id, Name: "lookup", Arguments: "{}"}
	}
	return protocol.Message{Role: protocol.RoleAssistant, Content: content, ToolCalls: calls}
}

func toolResultFor(id, content string) protocol.Message {
	return protocol.Message{Role: protocol.RoleTool, Content: content, ToolCallID: id}
}

func roles(messages []protocol.Message) []protocol.Role {
	out := make([]protocol.Role, len(messages))
	for i, m := range messages {
		out[i] = m.Role
	}
	return out
}

func TestTrim_NoOpBelowBudget(t *testing.T) {
	transcript := []protocol.Message{user("A"), assistant("B")}

	got := session.Trim(transcript, 5)
	if !reflect.DeepEqual(got, transcript) {
		t.Errorf("trim below budget should be a no-op, got %v", roles(got))
	}

	exact := session.Trim(transcript, 2)
	if !reflect.DeepEqual(exact, transcript) {
		t.Errorf("trim at exact budget should be a no-op, got %v", roles(exact))
	}
}

func TestTrim_Empty(t *testing.T) {
	if got := session.Trim(nil, 3); len(got) != 0 {
		t.Errorf("trimming empty input should return empty, got %v", roles(got))
	}
}

func TestTrim_PlainCut(t *testing.T) {
	// [user A, assistant B, user C], budget 2 -> [assistant B, user C].
	transcript := []protocol.Message{user("A"), assistant("B"), user("C")}

	got := session.Trim(transcript, 2)
	if len(got) != 2 {
		t.Fatalf("got %d messages, want 2", len(got))
	}
	if got[0].Content != "B" || got[1].Content != "C" {
		t.Errorf("got %v, want [B C]", []string{got[0].Content, got[1].Content})
	}
}

func TestTrim_ProtectsPairAtBoundary(t *testing.T) {
	// [user A, assistant B(tool-call), tool C, assistant D], budget 2:
	// the naive cut at index 2 would split the B/C pair, so the cut moves
	// back and three messages survive.
	transcript := []protocol.Message{
		user("A"),
		assistantToolCall("B"),
		toolResult("C"),
		assistant("D"),
	}

	got := session.Trim(transcript, 2)
	if len(got) != 3 {
		t.Fatalf("got %d messages, want 3 (budget exceeded to keep the pair)", len(got))
	}
	want := []protocol.Role{protocol.RoleAssistant, protocol.RoleTool, protocol.RoleAssistant}
	if !reflect.DeepEqual(roles(got), want) {
		t.Errorf("got roles %v, want %v", roles(got), want)
	}
	if got[0].Content != "B" {
		t.Errorf("pair start lost: got %q, want %q", got[0].Content, "B")
	}
}

func TestTrim_CutAfterPairIsExact(t *testing.T) {
	// Cut lands after the pair; no adjustment needed.
	transcript := []protocol.Message{
		assistantToolCall("A"),
		toolResult("B"),
		user("C"),
		assistant("D"),
	}

	got := session.Trim(transcript, 2)
	if len(got) != 2 {
		t.Fatalf("got %d messages, want 2", len(got))
	}
	if got[0].Content != "C" {
		t.Errorf("got first message %q, want %q", got[0].Content, "C")
	}
}

func TestTrim_ChainedPairs(t *testing.T) {
	// Alternating pairs; the cut lands inside one and moves to its start.
	transcript := []protocol.Message{
		user("A"),
		assistantToolCall("B"), toolResult("C"),
		assistantToolCall("D"), toolResult("E"),
		assistant("F"),
	}

	got := session.Trim(transcript, 3)
	// Naive cut at index 3 splits D/E? Index 3 is the assistant D, cutting
	// before it keeps the pair whole; exact budget holds.
	if len(got) != 3 {
		t.Fatalf("got %d messages, want 3", len(got))
	}
	if got[0].Content != "D" {
		t.Errorf("got first message %q, want %q", got[0].Content, "D")
	}

	got = session.Trim(transcript, 2)
	// Naive cut at index 4 splits the D/E pair; keep it whole.
	if len(got) != 3 {
		t.Fatalf("budget 2: got %d messages, want 3", len(got))
	}
	if got[0].Content != "D" {
		t.Errorf("budget 2: got first message %q, want %q", got[0].Content, "D")
	}
}

func TestTrim_ProtectsParallelToolRun(t *testing.T) {
	// An assistant message requesting two tools is followed by two
	// consecutive tool results. A cut landing between the results must walk
	// back past the whole run to the owning assistant message.
	transcript := []protocol.Message{
		user("A"),
		assistantMultiCall("B", "c1", "c2"),
		toolResultFor("c1", "r1"),
		toolResultFor("c2", "r2"),
		assistant("D"),
	}

	got := session.Trim(transcript, 2)
	if len(got) != 4 {
		t.Fatalf("got %d messages, want 4 (budget exceeded to keep the run)", len(got))
	}
	if !got[0].RequestsTools() {
		t.Errorf("run start lost: got %+v", got[0])
	}
	if got[0].Content != "B" {
		t.Errorf("got first message %q, want %q", got[0].Content, "B")
	}

	// The cut landing on the first result of the run walks back one step.
	got = session.Trim(transcript, 3)
	if len(got) != 4 || got[0].Content != "B" {
		t.Errorf("budget 3: got %d messages starting at %q, want 4 starting at B", len(got), got[0].Content)
	}
}

func TestTrim_ParallelToolRunIdempotent(t *testing.T) {
	transcript := []protocol.Message{
		user("A"),
		assistantMultiCall("B", "c1", "c2", "c3"),
		toolResultFor("c1", "r1"),
		toolResultFor("c2", "r2"),
		toolResultFor("c3", "r3"),
		assistant("E"),
	}

	for budget := 1; budget <= len(transcript); budget++ {
		once := session.Trim(transcript, budget)
		if len(once) > 0 && once[0].Role == protocol.RoleTool {
			t.Errorf("budget %d: tool result %q survived without its assistant", budget, once[0].Content)
		}
		twice := session.Trim(once, budget)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("budget %d: trim not idempotent: %v then %v", budget, roles(once), roles(twice))
		}
	}
}

func TestTrim_PairPreservation(t *testing.T) {
	transcript := []protocol.Message{
		user("A"),
		assistantToolCall("B"), toolResult("C"),
		user("D"),
		assistantToolCall("E"), toolResult("F"),
		assistant("G"),
	}

	for budget := 1; budget <= len(transcript)+1; budget++ {
		got := session.Trim(transcript, budget)
		for i, m := range got {
			if m.Role == protocol.RoleTool && i == 0 {
				t.Errorf("budget %d: tool result %q survived without its assistant", budget, m.Content)
			}
		}
	}
}

func TestTrim_Idempotent(t *testing.T) {
	transcripts := [][]protocol.Message{
		nil,
		{user("A")},
		{user("A"), assistant("B"), user("C")},
		{user("A"), assistantToolCall("B"), toolResult("C"), assistant("D")},
		{assistantToolCall("A"), toolResult("B"), assistantToolCall("C"), toolResult("D")},
	}

	for _, transcript := range transcripts {
		for budget := 1; budget <= 5; budget++ {
			once := session.Trim(transcript, budget)
			twice := session.Trim(once, budget)
			if !reflect.DeepEqual(once, twice) {
				t.Errorf("budget %d: trim not idempotent: %v then %v", budget, roles(once), roles(twice))
			}
		}
	}
}

func TestTrim_NonPositiveBudget(t *testing.T) {
	transcript := []protocol.Message{user("A"), assistant("B")}

	if got := session.Trim(transcript, 0); len(got) != 2 {
		t.Errorf("budget 0 should disable trimming, got %d messages", len(got))
	}
}
