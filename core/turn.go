package core

// TurnState tracks which roles and participants are still owed an action in
// the current turn. A fresh value is built by ConversationState.NewTurn
// rather than incrementally resetting mutated collections, so turn invariants
// can be tested in isolation.
//
// Roles are consumed front-to-back in fixed priority order
// (user, agent, judge); the pending role set shrinks monotonically within a
// turn until NewTurn re-arms all three.
type TurnState struct {
	pendingRoles        []ParticipantRole
	pendingParticipants []int // indices into the scenario participant list, scheduling order
}

// newTurnState arms all three roles and all n participants.
func newTurnState(n int) TurnState {
	t := TurnState{
		pendingRoles:        []ParticipantRole{ParticipantUser, ParticipantAgent, ParticipantJudge},
		pendingParticipants: make([]int, n),
	}
	for i := range t.pendingParticipants {
		t.pendingParticipants[i] = i
	}
	return t
}

// PendingRoles returns a copy of the roles still owed an action this turn,
// in consumption order.
func (t *TurnState) PendingRoles() []ParticipantRole {
	roles := make([]ParticipantRole, len(t.pendingRoles))
	copy(roles, t.pendingRoles)
	return roles
}

// PendingParticipants returns a copy of the participant indices still owed
// an action this turn, in scheduling order.
func (t *TurnState) PendingParticipants() []int {
	idxs := make([]int, len(t.pendingParticipants))
	copy(idxs, t.pendingParticipants)
	return idxs
}

// FrontRole returns the head of the pending role queue, if any.
func (t *TurnState) FrontRole() (ParticipantRole, bool) {
	if len(t.pendingRoles) == 0 {
		return "", false
	}
	return t.pendingRoles[0], true
}

// HasRole reports whether the role is still pending this turn.
func (t *TurnState) HasRole(role ParticipantRole) bool {
	for _, r := range t.pendingRoles {
		if r == role {
			return true
		}
	}
	return false
}

// RemoveRole marks a role as already acted (or skipped) this turn.
func (t *TurnState) RemoveRole(role ParticipantRole) {
	for i, r := range t.pendingRoles {
		if r == role {
			t.pendingRoles = append(t.pendingRoles[:i], t.pendingRoles[i+1:]...)
			return
		}
	}
}

// RemoveParticipant marks a participant index as already acted this turn.
func (t *TurnState) RemoveParticipant(idx int) {
	for i, p := range t.pendingParticipants {
		if p == idx {
			t.pendingParticipants = append(t.pendingParticipants[:i], t.pendingParticipants[i+1:]...)
			return
		}
	}
}

// HasParticipant reports whether the participant index is still pending.
func (t *TurnState) HasParticipant(idx int) bool {
	for _, p := range t.pendingParticipants {
		if p == idx {
			return true
		}
	}
	return false
}

// Exhausted reports whether the turn is complete (no pending roles remain).
func (t *TurnState) Exhausted() bool { return len(t.pendingRoles) == 0 }
