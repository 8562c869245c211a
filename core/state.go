package core

import "strconv"

// ConversationState is the single source of truth for one scenario run: the
// ordered message log, the current turn number, per-participant unseen-message
// queues and the per-turn pending sets. It is created fresh at the start of a
// run and discarded at the end; it is never shared across runs.
//
// The state is exclusively owned by the executor for the run's lifetime and
// mutated only between participant calls, so it carries no locking. Do not
// share a ConversationState across goroutines.
type ConversationState struct {
	participants []Participant
	messages     []Message
	pending      [][]Message // unseen-message queue per participant index
	turn         int         // 0 until the first NewTurn
	turnState    TurnState
	nextID       int
	verdict      *Result // staged partial verdict, see SetVerdict
}

// NewConversationState creates an empty state for the given participant list.
// The turn counter starts at zero with no pending roles; the first NewTurn
// call opens turn one.
func NewConversationState(participants []Participant) *ConversationState {
	return &ConversationState{
		participants: participants,
		pending:      make([][]Message, len(participants)),
		nextID:       1,
	}
}

// AddMessage appends the message to the log, assigns its monotonic id, and
// atomically enqueues it into every other participant's pending queue.
// sourceIdx identifies the participant that produced the message and is
// excluded from the broadcast to prevent echo; pass -1 for messages with no
// source (scripted injections). The stored message is returned.
func (s *ConversationState) AddMessage(m Message, sourceIdx int) Message {
	m.ID = "msg-" + strconv.Itoa(s.nextID)
	s.nextID++
	s.messages = append(s.messages, m)
	for i := range s.pending {
		if i == sourceIdx {
			continue
		}
		s.pending[i] = append(s.pending[i], m)
	}
	return m
}

// PendingMessages returns a copy of the participant's unseen-message queue in
// append order.
func (s *ConversationState) PendingMessages(idx int) []Message {
	queue := make([]Message, len(s.pending[idx]))
	copy(queue, s.pending[idx])
	return queue
}

// ClearPendingMessages resets the participant's unseen-message queue after it
// has acted.
func (s *ConversationState) ClearPendingMessages(idx int) {
	s.pending[idx] = nil
}

// NewTurn increments the turn counter and re-arms all roles and participants.
func (s *ConversationState) NewTurn() {
	s.turn++
	s.turnState = newTurnState(len(s.participants))
}

// Turn returns the current turn number (zero before the first NewTurn).
func (s *ConversationState) Turn() int { return s.turn }

// TurnState exposes the per-turn pending sets.
func (s *ConversationState) TurnState() *TurnState { return &s.turnState }

// RemovePendingRole marks a role as already acted (or skipped) this turn.
func (s *ConversationState) RemovePendingRole(role ParticipantRole) {
	s.turnState.RemoveRole(role)
}

// RemovePendingParticipant marks a participant as already acted this turn.
func (s *ConversationState) RemovePendingParticipant(idx int) {
	s.turnState.RemoveParticipant(idx)
}

// NextParticipantForRole returns the index of the first participant matching
// the role that is still pending this turn, in scheduling order. Multiple
// participants sharing a role therefore round-robin by registration order.
func (s *ConversationState) NextParticipantForRole(role ParticipantRole) (int, bool) {
	for _, idx := range s.turnState.pendingParticipants {
		if s.participants[idx].Role() == role {
			return idx, true
		}
	}
	return 0, false
}

// Participants returns the scenario participant list in scheduling order.
func (s *ConversationState) Participants() []Participant { return s.participants }

// Messages returns a defensive copy of the full message log in append order.
func (s *ConversationState) Messages() []Message {
	msgs := make([]Message, len(s.messages))
	copy(msgs, s.messages)
	return msgs
}

// LastMessage returns the most recently appended message, if any.
func (s *ConversationState) LastMessage() (Message, bool) {
	if len(s.messages) == 0 {
		return Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// LastMessageOfRole returns the most recent message of the given role.
func (s *ConversationState) LastMessageOfRole(role Role) (Message, bool) {
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role == role {
			return s.messages[i], true
		}
	}
	return Message{}, false
}

// LastToolResult returns the most recent result recorded for the named tool.
func (s *ConversationState) LastToolResult(name string) (ToolResult, bool) {
	for i := len(s.messages) - 1; i >= 0; i-- {
		for _, tr := range s.messages[i].ToolResults() {
			if tr.Name == name {
				return tr, true
			}
		}
	}
	return ToolResult{}, false
}

// WasToolCalled reports whether any message in the log carries a call to the
// named tool.
func (s *ConversationState) WasToolCalled(name string) bool {
	for _, m := range s.messages {
		for _, tc := range m.ToolCalls() {
			if tc.Name == name {
				return true
			}
		}
	}
	return false
}

// SetVerdict stages a partial verdict produced by a participant mid-run. A
// staged verdict only becomes the final result if a script step (or the
// max-turns fallback) returns it; otherwise it is discarded at the end of the
// script.
func (s *ConversationState) SetVerdict(r *Result) { s.verdict = r }

// Verdict returns the staged partial verdict, if any.
func (s *ConversationState) Verdict() *Result { return s.verdict }
