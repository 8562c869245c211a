package execute

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/scenariokit/core"
	"github.com/hupe1980/scenariokit/internal/util"
	"github.com/hupe1980/scenariokit/logging"
	"github.com/hupe1980/scenariokit/notify"
)

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// Logger provides structured logging; defaults to NoOpLogger.
	Logger logging.Logger
	// Notifier receives lifecycle notifications; defaults to NoOpNotifier.
	Notifier notify.Notifier
	// BatchID groups runs for reporting. Resolution precedence: this value,
	// the SCENARIOKIT_BATCH_RUN_ID environment variable, a generated id.
	BatchID string
}

// Executor drives a single scenario run to completion: it interprets the
// script, schedules participants within turns, merges their output into the
// conversation state, times calls, and produces the terminal Result. An
// Executor must not be reused across runs.
type Executor struct {
	cfg      *core.Config
	state    *core.ConversationState
	maxTurns int

	logger   logging.Logger
	notifier notify.Notifier

	batchID    string
	scenarioID string
	runID      string

	startedAt time.Time
	agentTime time.Duration
}

// New constructs an Executor for the given scenario, validating the config
// preconditions up front.
func New(cfg *core.Config, optFns ...func(o *Options)) (*Executor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario config: %w", err)
	}

	opts := Options{
		Logger:   logging.NoOpLogger{},
		Notifier: notify.NoOpNotifier{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	cfgCopy := *cfg
	if cfgCopy.ThreadID == "" {
		cfgCopy.ThreadID = "thread-" + util.NewID()
	}

	return &Executor{
		cfg:        &cfgCopy,
		state:      core.NewConversationState(cfgCopy.Participants),
		maxTurns:   cfgCopy.EffectiveMaxTurns(),
		logger:     opts.Logger,
		notifier:   opts.Notifier,
		batchID:    notify.ResolveBatchID(opts.BatchID),
		scenarioID: util.Slug(cfgCopy.Name),
		runID:      "scenariorun-" + util.NewID(),
	}, nil
}

// Config returns the immutable scenario description.
func (e *Executor) Config() *core.Config { return e.cfg }

// State returns the live conversation state of this run.
func (e *Executor) State() *core.ConversationState { return e.state }

// RunID returns the unique identifier of this run.
func (e *Executor) RunID() string { return e.runID }

// Run executes the scenario script to completion and returns the terminal
// result. Anticipated test failures (criteria unmet, turn limit, script
// fail()) are returned as a Result with Success=false and a nil error.
// Configuration errors and participant exceptions are converted into a
// failed Result carrying the error text and additionally returned as the
// error, so host test frameworks that expect errors to fail the test still
// observe the failure.
func (e *Executor) Run(ctx context.Context) (*core.Result, error) {
	e.startedAt = time.Now()

	e.notifier.RunStarted(notify.RunStarted{
		BatchID:       e.batchID,
		ScenarioID:    e.scenarioID,
		ScenarioRunID: e.runID,
		Name:          e.cfg.Name,
		Description:   e.cfg.Description,
	})

	res, err := e.runScript(ctx)
	if err != nil {
		failed := core.NewFailureResult(fmt.Sprintf("scenario %q errored: %v", e.cfg.Name, err))
		failed.Error = err.Error()
		e.finalize(failed)
		e.emitFinished(failed, "error")
		e.logger.Error("scenario run errored scenario=%s run_id=%s err=%v", e.cfg.Name, e.runID, err)
		return failed, err
	}

	e.finalize(res)
	status := "failure"
	if res.Success {
		status = "success"
	}
	e.emitFinished(res, status)
	e.logger.Info("scenario run finished scenario=%s run_id=%s success=%t turns=%d", e.cfg.Name, e.runID, res.Success, e.state.Turn())

	return res, nil
}

// runScript interprets the step list. An empty script auto-advances until a
// verdict or the turn limit. A verdict staged on the state but never
// returned from a step is discarded; only returned values conclude the run.
func (e *Executor) runScript(ctx context.Context) (*core.Result, error) {
	steps := e.cfg.Script
	if len(steps) == 0 {
		steps = []core.Step{func(ctx context.Context, ex core.Executor) (*core.Result, error) {
			return ex.Proceed(ctx, -1, nil, nil)
		}}
	}

	for _, step := range steps {
		res, err := step(ctx, e)
		if err != nil {
			return nil, err
		}
		if res != nil {
			return res, nil
		}
	}

	res := core.NewFailureResult("script ended without a conclusion; end the script with proceed, judge, succeed or fail")
	res.UnmetCriteria = e.allCriteria()
	return res, nil
}

// InjectMessage appends a literal message via broadcast, excluding no one.
func (e *Executor) InjectMessage(m core.Message) core.Message {
	return e.append(m, -1)
}

// RequestRole advances the current turn to the target role and lets it act.
// Pending roles ahead of the target lose their slot for this turn; when the
// role cannot be served in the current turn exactly one new turn is opened
// before giving up with a configuration error.
func (e *Executor) RequestRole(ctx context.Context, role core.ParticipantRole, content *string) (*core.Result, error) {
	retried := false
	for {
		e.fastForwardTo(role)

		if e.state.TurnState().HasRole(role) {
			if idx, ok := e.state.NextParticipantForRole(role); ok {
				return e.actAs(ctx, idx, role, content)
			}
			if content != nil {
				// Literal content needs no registered participant; the
				// scripted text simply takes the role's slot this turn.
				e.state.RemovePendingRole(role)
				e.append(core.NewTextMessage(role.MessageRole(), *content), -1)
				return nil, nil
			}
		}

		if retried {
			return nil, e.missingParticipantErr(role)
		}
		if e.state.Turn() >= e.maxTurns {
			return e.maxTurnsResult(), nil
		}
		e.state.NewTurn()
		retried = true
	}
}

// Proceed performs repeated single-step advancement. turns < 0 advances
// until a verdict or the turn limit; otherwise the loop stops once the given
// number of turns has completed.
func (e *Executor) Proceed(ctx context.Context, turns int, onTurn, onStep func(*core.ConversationState)) (*core.Result, error) {
	completed := 0
	inTurn := e.state.Turn() > 0 && !e.state.TurnState().Exhausted()

	for {
		front, ok := e.state.TurnState().FrontRole()
		if !ok {
			if inTurn {
				completed++
				inTurn = false
			}
			if turns >= 0 && completed >= turns {
				return nil, nil
			}
			if e.state.Turn() >= e.maxTurns {
				return e.maxTurnsResult(), nil
			}
			e.state.NewTurn()
			inTurn = true
			if onTurn != nil {
				onTurn(e.state)
			}
			continue
		}

		idx, found := e.state.NextParticipantForRole(front)
		if !found {
			// Some turns legitimately have no participant for a role,
			// e.g. a scripted-only run without a user simulator.
			e.state.RemovePendingRole(front)
			continue
		}

		e.consumeSlot(idx, front)

		res, err := e.invoke(ctx, idx, front, e.forcedJudgment(front))
		if err != nil {
			return nil, err
		}
		if res != nil {
			return res, nil
		}
		if onStep != nil {
			onStep(e.state)
		}
	}
}

// Succeed concludes the scenario successfully.
func (e *Executor) Succeed(reasoning string) *core.Result {
	return core.NewSuccessResult(reasoning)
}

// Fail concludes the scenario as failed.
func (e *Executor) Fail(reasoning string) *core.Result {
	return core.NewFailureResult(reasoning)
}

// actAs consumes the participant's slot for this turn and either injects the
// literal content as its output or invokes it.
func (e *Executor) actAs(ctx context.Context, idx int, role core.ParticipantRole, content *string) (*core.Result, error) {
	e.consumeSlot(idx, role)

	if content != nil {
		e.append(core.NewTextMessage(role.MessageRole(), *content), idx)
		return nil, nil
	}

	// A scripted judge turn is an explicit judgment request: the author
	// asked for a verdict, "continue" is not an acceptable answer.
	judgment := role == core.ParticipantJudge
	return e.invoke(ctx, idx, role, judgment)
}

// forcedJudgment reports whether a judge call on the current turn must
// produce a definitive verdict: on the final turn the judge may not answer
// "continue", otherwise the run would silently pass the limit.
func (e *Executor) forcedJudgment(role core.ParticipantRole) bool {
	return role == core.ParticipantJudge && e.state.Turn() >= e.maxTurns
}

// invoke calls the participant at idx with a state snapshot, merges its
// output into the conversation, and propagates a verdict unchanged.
func (e *Executor) invoke(ctx context.Context, idx int, role core.ParticipantRole, judgment bool) (*core.Result, error) {
	p := e.cfg.Participants[idx]

	if judgment {
		if j, ok := p.(core.Judge); ok && len(j.Criteria()) == 0 {
			res := core.NewFailureResult(fmt.Sprintf("no criteria provided for judge %q", p.Name()))
			return res, nil
		}
	}

	input := &core.CallInput{
		ThreadID:        e.cfg.ThreadID,
		Messages:        e.state.Messages(),
		NewMessages:     e.state.PendingMessages(idx),
		RequestedRole:   role,
		JudgmentRequest: judgment,
		State:           e.state,
		Config:          e.cfg,
	}

	start := time.Now()
	out, err := p.Call(ctx, input)
	elapsed := time.Since(start)
	if p.Role() == core.ParticipantAgent {
		e.agentTime += elapsed
	}

	e.state.ClearPendingMessages(idx)

	if err != nil {
		e.logger.Error("participant call failed participant=%s role=%s duration=%s err=%v", p.Name(), role, elapsed, err)
		return nil, fmt.Errorf("participant %q (%s) call failed: %w", p.Name(), role, err)
	}
	e.logger.Debug("participant call completed participant=%s role=%s duration=%s", p.Name(), role, elapsed)

	switch v := out.(type) {
	case nil:
	case core.ResultOutput:
		return v.Result, nil
	case core.TextOutput:
		e.append(core.NewTextMessage(role.MessageRole(), v.Text), idx)
	case core.MessageOutput:
		e.append(v.Message, idx)
	case core.MessagesOutput:
		for _, m := range v.Messages {
			e.append(m, idx)
		}
	default:
		return nil, fmt.Errorf("participant %q returned unsupported output type %T", p.Name(), out)
	}

	if judgment {
		res := core.NewFailureResult(fmt.Sprintf("judge %q did not produce a verdict under forced judgment", p.Name()))
		res.UnmetCriteria = e.allCriteria()
		return res, nil
	}

	return nil, nil
}

// fastForwardTo discards pending roles from the front of the turn's role
// queue until the target role is at the front or the queue is empty. Roles
// ahead of the target lose their slot for this turn; consumption order is
// fixed front-to-back (user, agent, judge).
func (e *Executor) fastForwardTo(role core.ParticipantRole) {
	for {
		front, ok := e.state.TurnState().FrontRole()
		if !ok || front == role {
			return
		}
		e.state.RemovePendingRole(front)
	}
}

// consumeSlot removes the participant from the pending set, and its role
// once no more participants of that role remain pending.
func (e *Executor) consumeSlot(idx int, role core.ParticipantRole) {
	e.state.RemovePendingParticipant(idx)
	if _, ok := e.state.NextParticipantForRole(role); !ok {
		e.state.RemovePendingRole(role)
	}
}

// append broadcasts a message (excluding the source participant) and emits a
// snapshot notification.
func (e *Executor) append(m core.Message, sourceIdx int) core.Message {
	stored := e.state.AddMessage(m, sourceIdx)
	e.notifier.MessageSnapshot(notify.MessageSnapshot{
		BatchID:       e.batchID,
		ScenarioID:    e.scenarioID,
		ScenarioRunID: e.runID,
		Messages:      e.state.Messages(),
	})
	return stored
}

// maxTurnsResult builds the forced failure for turn-limit exhaustion; every
// configured judge criterion is marked unmet.
func (e *Executor) maxTurnsResult() *core.Result {
	res := core.NewFailureResult(fmt.Sprintf("reached maximum turns (%d) without conclusion", e.maxTurns))
	res.UnmetCriteria = e.allCriteria()
	return res
}

// allCriteria collects the evaluation criteria of every judge participant in
// scheduling order.
func (e *Executor) allCriteria() []string {
	var criteria []string
	for _, p := range e.cfg.Participants {
		if j, ok := p.(core.Judge); ok {
			criteria = append(criteria, j.Criteria()...)
		}
	}
	return criteria
}

func (e *Executor) missingParticipantErr(role core.ParticipantRole) error {
	switch role {
	case core.ParticipantUser:
		return fmt.Errorf("no user-role participant available in scenario %q: register one (e.g. participant.NewUserSimulator) or script the turn with script.User(content)", e.cfg.Name)
	case core.ParticipantJudge:
		return fmt.Errorf("no judge-role participant available in scenario %q: register one (e.g. participant.NewJudge)", e.cfg.Name)
	default:
		return fmt.Errorf("no agent-role participant available in scenario %q: add the agent under test to Config.Participants", e.cfg.Name)
	}
}

func (e *Executor) finalize(res *core.Result) {
	res.Messages = e.state.Messages()
	res.TotalTime = time.Since(e.startedAt)
	res.AgentTime = e.agentTime
	if res.Verdict == "" {
		if res.Success {
			res.Verdict = core.VerdictSuccess
		} else {
			res.Verdict = core.VerdictFailure
		}
	}
}

func (e *Executor) emitFinished(res *core.Result, status string) {
	e.notifier.RunFinished(notify.RunFinished{
		BatchID:       e.batchID,
		ScenarioID:    e.scenarioID,
		ScenarioRunID: e.runID,
		Status:        status,
		Verdict:       res.Verdict,
		MetCriteria:   res.MetCriteria,
		UnmetCriteria: res.UnmetCriteria,
		Reasoning:     res.Reasoning,
		Error:         res.Error,
	})
}
