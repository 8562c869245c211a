package core

import (
	"errors"
	"fmt"
)

// DefaultMaxTurns bounds a run when the config does not set MaxTurns.
const DefaultMaxTurns = 10

// Configuration errors raised by Config.Validate. These are programmer errors
// in test authoring and cross the API boundary as thrown errors rather than
// failed results.
var (
	ErrEmptyName          = errors.New("scenario name must not be empty")
	ErrEmptyDescription   = errors.New("scenario description must not be empty")
	ErrInvalidMaxTurns    = errors.New("max turns must be at least 1")
	ErrNoParticipants     = errors.New("scenario requires at least one participant")
	ErrNoAgentParticipant = errors.New("scenario requires an agent-role participant")
)

// Config is the immutable description of a scenario run. It is created once
// per run and never mutated during execution.
type Config struct {
	// Name identifies the scenario in results and notifications.
	Name string
	// Description is the human-readable situation under test; generated
	// participants use it to build their default prompts.
	Description string
	// Participants in scheduling order. Multiple participants may share a
	// role; exactly one agent-role participant is required.
	Participants []Participant
	// Script is the ordered step list driving the run. When empty the run
	// auto-advances until a verdict or the turn limit.
	Script []Step
	// MaxTurns bounds the run; zero selects DefaultMaxTurns.
	MaxTurns int
	// ThreadID pins the conversation identifier; generated when empty.
	ThreadID string
}

// EffectiveMaxTurns returns MaxTurns with the default applied.
func (c *Config) EffectiveMaxTurns() int {
	if c.MaxTurns == 0 {
		return DefaultMaxTurns
	}
	return c.MaxTurns
}

// Validate checks the run preconditions: non-empty name and description,
// MaxTurns >= 1, at least one participant, at least one agent-role
// participant, and only known participant roles.
func (c *Config) Validate() error {
	if c.Name == "" {
		return ErrEmptyName
	}
	if c.Description == "" {
		return ErrEmptyDescription
	}
	if c.MaxTurns < 0 {
		return ErrInvalidMaxTurns
	}
	if len(c.Participants) == 0 {
		return ErrNoParticipants
	}
	hasAgent := false
	for _, p := range c.Participants {
		if !p.Role().Valid() {
			return fmt.Errorf("participant %q has unknown role %q", p.Name(), p.Role())
		}
		if p.Role() == ParticipantAgent {
			hasAgent = true
		}
	}
	if !hasAgent {
		return ErrNoAgentParticipant
	}
	return nil
}
