package session

import "github.com/rmay1er/ai-responder/core/protocol"

// Trim returns a suffix of messages holding at most budget entries, without
// separating tool results from the assistant message that requested them.
// An assistant message may request several tools at once, which yields a run
// of consecutive tool messages after it; the whole run belongs to that
// assistant message.
//
// When the cut point would land inside such a run, the cut moves back to the
// owning assistant message, so the retained slice can exceed the budget by
// the length of the protected run. The bound is inexact on purpose: a tool
// result detached from the assistant message that requested it makes the
// transcript invalid for replay, and run integrity wins over strict size.
// A budget below 1 disables trimming.
//
// Trim is idempotent: trimming an already trimmed transcript is a no-op.
func Trim(messages []protocol.Message, budget int) []protocol.Message {
	if budget < 1 || len(messages) <= budget {
		return messages
	}

	cut := len(messages) - budget

	// Cutting inside a tool-result run would orphan the remaining results
	// from the assistant request preceding the run. Walk back to the owning
	// assistant message.
	for cut >= 1 && messages[cut].Role == protocol.RoleTool &&
		(messages[cut-1].Role == protocol.RoleAssistant || messages[cut-1].Role == protocol.RoleTool) {
		cut--
	}

	return messages[cut:]
}
