package participant

import (
	"context"

	"github.com/hupe1980/scenariokit/core"
)

// CallFunc is the signature of an inline participant body.
type CallFunc func(ctx context.Context, input *core.CallInput) (core.Output, error)

// funcParticipant adapts a plain function into a core.Participant.
type funcParticipant struct {
	name string
	role core.ParticipantRole
	fn   CallFunc
}

// Func wraps fn as a named participant of the given role. Useful for stub
// agents and users in tests and examples.
func Func(name string, role core.ParticipantRole, fn CallFunc) core.Participant {
	return &funcParticipant{name: name, role: role, fn: fn}
}

// Name returns the participant name.
func (p *funcParticipant) Name() string { return p.name }

// Role returns the scenario role this participant fulfills.
func (p *funcParticipant) Role() core.ParticipantRole { return p.role }

// Call invokes the wrapped function.
func (p *funcParticipant) Call(ctx context.Context, input *core.CallInput) (core.Output, error) {
	return p.fn(ctx, input)
}

// judgeFunc adapts a plain function plus criteria list into a core.Judge.
type judgeFunc struct {
	funcParticipant
	criteria []string
}

// JudgeFunc wraps fn as a named judge exposing the given criteria.
func JudgeFunc(name string, criteria []string, fn CallFunc) core.Judge {
	return &judgeFunc{
		funcParticipant: funcParticipant{name: name, role: core.ParticipantJudge, fn: fn},
		criteria:        criteria,
	}
}

// Criteria returns the evaluation criteria.
func (p *judgeFunc) Criteria() []string { return p.criteria }
