package core

import "context"

// ParticipantRole identifies which of the three scenario roles a participant
// fulfills. Within a turn roles act in fixed order: user, agent, judge.
type ParticipantRole string

const (
	// ParticipantUser produces user-turn content (e.g. a user simulator).
	ParticipantUser ParticipantRole = "user"
	// ParticipantAgent produces assistant-turn content. Exactly one
	// agent-role participant is required per scenario.
	ParticipantAgent ParticipantRole = "agent"
	// ParticipantJudge evaluates the conversation and may conclude the run.
	ParticipantJudge ParticipantRole = "judge"
)

// Valid reports whether the role is one of the three known scenario roles.
func (r ParticipantRole) Valid() bool {
	switch r {
	case ParticipantUser, ParticipantAgent, ParticipantJudge:
		return true
	}
	return false
}

// MessageRole returns the message role implied by the participant role:
// user-role participants speak as "user", everything else as "assistant".
func (r ParticipantRole) MessageRole() Role {
	if r == ParticipantUser {
		return RoleUser
	}
	return RoleAssistant
}

// CallInput is the envelope handed to a participant when it is its slot in
// the turn. Messages is the full log snapshot; NewMessages are the messages
// broadcast to this participant since it last acted, in append order.
type CallInput struct {
	ThreadID        string
	Messages        []Message
	NewMessages     []Message
	RequestedRole   ParticipantRole
	JudgmentRequest bool
	State           *ConversationState
	Config          *Config
}

// Participant is the uniform contract every scenario role must satisfy.
// A call returns one of:
//   - nil Output: continue, nothing to add (typical for a judge mid-run)
//   - TextOutput / MessageOutput / MessagesOutput: content merged into state
//   - ResultOutput: a terminal verdict concluding the scenario
//
// Implementations must respect context cancellation; a call may perform
// network I/O to a language model or external tool.
type Participant interface {
	Name() string
	Role() ParticipantRole
	Call(ctx context.Context, input *CallInput) (Output, error)
}

// Judge extends Participant with the evaluation criteria read by the
// orchestrator for max-turns and no-criteria fallback reasoning.
type Judge interface {
	Participant
	Criteria() []string
}

// Output is the tagged union of participant return shapes. Concrete types
// implement the unexported isOutput marker enabling a closed set; dispatch
// happens in a single normalization step rather than duck-typing.
type Output interface{ isOutput() }

// TextOutput is plain text wrapped as one message of the role-implied kind.
type TextOutput struct{ Text string }

// isOutput implements the Output interface for TextOutput.
func (TextOutput) isOutput() {}

// MessageOutput is a single fully-formed message.
type MessageOutput struct{ Message Message }

// isOutput implements the Output interface for MessageOutput.
func (MessageOutput) isOutput() {}

// MessagesOutput is an ordered batch of messages appended as-is.
type MessagesOutput struct{ Messages []Message }

// isOutput implements the Output interface for MessagesOutput.
func (MessagesOutput) isOutput() {}

// ResultOutput is a terminal verdict; it concludes the scenario unchanged.
type ResultOutput struct{ Result *Result }

// isOutput implements the Output interface for ResultOutput.
func (ResultOutput) isOutput() {}
