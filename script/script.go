package script

import (
	"context"

	"github.com/hupe1980/scenariokit/core"
)

// optContent reduces an optional variadic content argument to a pointer.
func optContent(content []string) *string {
	if len(content) == 0 {
		return nil
	}
	return &content[0]
}

// Message injects a literal message into the conversation via broadcast
// without consuming any participant's turn slot.
func Message(m core.Message) core.Step {
	return func(_ context.Context, ex core.Executor) (*core.Result, error) {
		ex.InjectMessage(m)
		return nil, nil
	}
}

// User requests the next user turn. With content the literal text is
// injected as the user's output instead of invoking the participant.
func User(content ...string) core.Step {
	return roleStep(core.ParticipantUser, content)
}

// Agent requests the next agent turn. With content the literal text is
// injected as the agent's output instead of invoking the participant.
func Agent(content ...string) core.Step {
	return roleStep(core.ParticipantAgent, content)
}

// Judge requests the next judge turn, typically to obtain a verdict. With
// content the literal text is injected instead of invoking the judge.
func Judge(content ...string) core.Step {
	return roleStep(core.ParticipantJudge, content)
}

func roleStep(role core.ParticipantRole, content []string) core.Step {
	return func(ctx context.Context, ex core.Executor) (*core.Result, error) {
		return ex.RequestRole(ctx, role, optContent(content))
	}
}

// Proceed auto-advances the scenario by repeated single-step advancement
// until the given number of new turns has completed, a verdict is produced,
// or the scenario turn limit is reached. turns < 0 advances indefinitely
// until conclusion. onTurn fires at each new-turn boundary and onStep after
// every individual participant call; either may be nil.
func Proceed(turns int, onTurn, onStep func(*core.ConversationState)) core.Step {
	return func(ctx context.Context, ex core.Executor) (*core.Result, error) {
		return ex.Proceed(ctx, turns, onTurn, onStep)
	}
}

// ProceedAll advances indefinitely until a verdict or the turn limit.
func ProceedAll() core.Step { return Proceed(-1, nil, nil) }

// Succeed forces an immediate successful verdict.
func Succeed(reasoning ...string) core.Step {
	return func(_ context.Context, ex core.Executor) (*core.Result, error) {
		r := "scenario concluded successfully by script"
		if len(reasoning) > 0 {
			r = reasoning[0]
		}
		return ex.Succeed(r), nil
	}
}

// Fail forces an immediate failed verdict.
func Fail(reasoning ...string) core.Step {
	return func(_ context.Context, ex core.Executor) (*core.Result, error) {
		r := "scenario failed by script"
		if len(reasoning) > 0 {
			r = reasoning[0]
		}
		return ex.Fail(r), nil
	}
}
