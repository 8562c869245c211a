package participant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hupe1980/scenariokit/core"
	"github.com/hupe1980/scenariokit/model"
)

// JudgeOptions configures a JudgeAgent.
type JudgeOptions struct {
	// Name labels the participant in logs and errors.
	Name string
	// SystemPrompt overrides the generated instruction prompt entirely.
	SystemPrompt string
	// Temperature forwarded to the model, if set. Judges default to 0 for
	// reproducible verdicts.
	Temperature *float64
}

// JudgeAgent is a model-backed judge-role participant. It watches the
// conversation against a list of evaluation criteria and either lets the
// scenario continue or concludes it with a verdict.
type JudgeAgent struct {
	model    model.Model
	criteria []string
	opts     JudgeOptions
}

// NewJudge creates a judge evaluating the given criteria with the model.
func NewJudge(m model.Model, criteria []string, optFns ...func(o *JudgeOptions)) *JudgeAgent {
	zero := 0.0
	opts := JudgeOptions{Name: "judge", Temperature: &zero}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &JudgeAgent{model: m, criteria: criteria, opts: opts}
}

// Name returns the participant name.
func (j *JudgeAgent) Name() string { return j.opts.Name }

// Role returns ParticipantJudge.
func (j *JudgeAgent) Role() core.ParticipantRole { return core.ParticipantJudge }

// Criteria returns the evaluation criteria.
func (j *JudgeAgent) Criteria() []string {
	criteria := make([]string, len(j.criteria))
	copy(criteria, j.criteria)
	return criteria
}

// rawVerdict is the JSON shape the judge model is instructed to emit.
type rawVerdict struct {
	Verdict   string   `json:"verdict"` // "continue", "success", "failure" or "inconclusive"
	Reasoning string   `json:"reasoning"`
	Met       []string `json:"met_criteria"`
	Unmet     []string `json:"unmet_criteria"`
}

// Call evaluates the conversation. Outside a judgment request the judge may
// answer "continue" (nil output); under a judgment request it must conclude,
// and with zero configured criteria it fails rather than silently passing.
func (j *JudgeAgent) Call(ctx context.Context, input *core.CallInput) (core.Output, error) {
	if len(j.criteria) == 0 {
		if !input.JudgmentRequest {
			return nil, nil
		}
		return core.ResultOutput{Result: core.NewFailureResult(
			fmt.Sprintf("no criteria provided for judge %q", j.opts.Name),
		)}, nil
	}

	req := model.Request{
		Instructions: j.instructions(input),
		Messages:     input.Messages,
		Temperature:  j.opts.Temperature,
	}

	resp, err := j.model.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("judge generation failed: %w", err)
	}

	verdict, err := parseVerdict(resp.Message.Text())
	if err != nil {
		return nil, fmt.Errorf("judge returned malformed verdict: %w", err)
	}

	if verdict.Verdict == "continue" && !input.JudgmentRequest {
		return nil, nil
	}

	return core.ResultOutput{Result: j.buildResult(verdict)}, nil
}

func (j *JudgeAgent) buildResult(v *rawVerdict) *core.Result {
	res := &core.Result{
		Reasoning:     v.Reasoning,
		MetCriteria:   v.Met,
		UnmetCriteria: v.Unmet,
	}
	switch v.Verdict {
	case "success":
		res.Success = true
		res.Verdict = core.VerdictSuccess
	case "inconclusive", "continue":
		// A forced judgment answered "continue" counts as inconclusive.
		res.Verdict = core.VerdictInconclusive
		if res.Reasoning == "" {
			res.Reasoning = "judge could not reach a definitive verdict"
		}
		if len(res.UnmetCriteria) == 0 {
			res.UnmetCriteria = j.Criteria()
		}
	default:
		res.Verdict = core.VerdictFailure
		if len(res.UnmetCriteria) == 0 {
			res.UnmetCriteria = j.Criteria()
		}
	}
	return res
}

func (j *JudgeAgent) instructions(input *core.CallInput) string {
	if j.opts.SystemPrompt != "" {
		return j.opts.SystemPrompt
	}
	var b strings.Builder
	b.WriteString("You are an impartial evaluator of a conversation between a user and an AI assistant under test.\n\n")
	fmt.Fprintf(&b, "Scenario: %s\n%s\n\n", input.Config.Name, input.Config.Description)
	b.WriteString("Evaluation criteria:\n")
	for i, c := range j.criteria {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c)
	}
	b.WriteString("\nRespond with a single JSON object, no prose around it:\n")
	b.WriteString(`{"verdict": "continue|success|failure|inconclusive", "reasoning": "...", "met_criteria": [...], "unmet_criteria": [...]}`)
	b.WriteString("\n\nReturn \"success\" only when every criterion is clearly met, \"failure\" when one is clearly violated.")
	if input.JudgmentRequest {
		b.WriteString(" You must reach a definitive verdict now; \"continue\" is not allowed.")
	} else {
		b.WriteString(" Return \"continue\" while the conversation has not yet produced enough evidence either way.")
	}
	return b.String()
}

// parseVerdict extracts the verdict JSON object from the model output,
// tolerating surrounding prose or code fences.
func parseVerdict(text string) (*rawVerdict, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in %q", text)
	}
	var v rawVerdict
	if err := json.Unmarshal([]byte(text[start:end+1]), &v); err != nil {
		return nil, err
	}
	if v.Verdict == "" {
		return nil, fmt.Errorf("missing verdict field in %q", text)
	}
	return &v, nil
}
