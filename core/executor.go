package core

import "context"

// Step is one unit of a declarative scenario script. A step receives the
// executor handle and either returns nil (continue with the next step) or a
// Result (terminates the script immediately). Errors abort the run.
//
// Steps are produced by the factories in the script package.
type Step func(ctx context.Context, ex Executor) (*Result, error)

// Executor is the handle a script step uses to drive the run. It is
// implemented by the execute package; the indirection keeps the script DSL
// free of orchestration dependencies.
type Executor interface {
	// Config returns the immutable scenario description.
	Config() *Config

	// State returns the live conversation state of this run.
	State() *ConversationState

	// InjectMessage appends a literal message to the log via broadcast and
	// returns the stored message (with its assigned id).
	InjectMessage(m Message) Message

	// RequestRole advances the current turn to the given role and either
	// injects the literal content (when non-nil) as that role's output or
	// invokes the scheduled participant. A missing participant for the role
	// is a configuration error.
	RequestRole(ctx context.Context, role ParticipantRole, content *string) (*Result, error)

	// Proceed performs repeated single-step advancement until the turn
	// budget is exhausted (turns < 0 means unlimited), a verdict is
	// produced, or the scenario turn limit is reached. onTurn fires at each
	// new-turn boundary, onStep after every individual participant call.
	Proceed(ctx context.Context, turns int, onTurn, onStep func(*ConversationState)) (*Result, error)

	// Succeed concludes the scenario successfully.
	Succeed(reasoning string) *Result

	// Fail concludes the scenario as failed.
	Fail(reasoning string) *Result
}
