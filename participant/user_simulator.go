package participant

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/scenariokit/core"
	"github.com/hupe1980/scenariokit/model"
)

// UserSimulatorOptions configures a UserSimulator.
type UserSimulatorOptions struct {
	// Name labels the participant in logs and errors.
	Name string
	// SystemPrompt overrides the generated instruction prompt entirely.
	SystemPrompt string
	// Temperature forwarded to the model, if set.
	Temperature *float64
}

// UserSimulator is a model-backed user-role participant. It plays the human
// side of the conversation, building its instruction prompt from the
// scenario name and description unless an explicit system prompt is given.
type UserSimulator struct {
	model model.Model
	opts  UserSimulatorOptions
}

// NewUserSimulator creates a user simulator driven by the given model.
func NewUserSimulator(m model.Model, optFns ...func(o *UserSimulatorOptions)) *UserSimulator {
	opts := UserSimulatorOptions{Name: "user-simulator"}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &UserSimulator{model: m, opts: opts}
}

// Name returns the participant name.
func (u *UserSimulator) Name() string { return u.opts.Name }

// Role returns ParticipantUser.
func (u *UserSimulator) Role() core.ParticipantRole { return core.ParticipantUser }

// Call generates the next user turn from the conversation so far.
func (u *UserSimulator) Call(ctx context.Context, input *core.CallInput) (core.Output, error) {
	req := model.Request{
		Instructions: u.instructions(input.Config),
		Messages:     flipPerspective(input.Messages),
		Temperature:  u.opts.Temperature,
	}

	resp, err := u.model.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("user simulator generation failed: %w", err)
	}

	text := strings.TrimSpace(resp.Message.Text())
	if text == "" {
		return nil, fmt.Errorf("user simulator produced empty content")
	}

	return core.MessageOutput{Message: core.NewUserMessage(text)}, nil
}

// instructions builds the simulator prompt from the scenario description.
func (u *UserSimulator) instructions(cfg *core.Config) string {
	if u.opts.SystemPrompt != "" {
		return u.opts.SystemPrompt
	}
	var b strings.Builder
	b.WriteString("You are role-playing the human user in a conversation with an AI assistant under test.\n\n")
	fmt.Fprintf(&b, "Scenario: %s\n%s\n\n", cfg.Name, cfg.Description)
	b.WriteString("Stay in character as the user described above. ")
	b.WriteString("Write only the user's next message, with no meta commentary, no quotation marks and no role labels. ")
	b.WriteString("Keep it short and natural, the way a real user types.")
	return b.String()
}

// flipPerspective swaps user and assistant roles so the simulator sees the
// conversation from the user's side: the agent's output becomes the "user"
// input it reacts to.
func flipPerspective(msgs []core.Message) []core.Message {
	flipped := make([]core.Message, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case core.RoleUser:
			m.Role = core.RoleAssistant
		case core.RoleAssistant:
			m.Role = core.RoleUser
		case core.RoleSystem, core.RoleTool:
			continue // internal plumbing, not part of the user's view
		}
		flipped = append(flipped, m)
	}
	return flipped
}
