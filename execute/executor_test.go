package execute

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hupe1980/scenariokit/core"
	"github.com/hupe1980/scenariokit/notify"
	"github.com/hupe1980/scenariokit/participant"
	"github.com/hupe1980/scenariokit/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoAgent replies to the latest user message.
func echoAgent() core.Participant {
	return participant.Func("echo-agent", core.ParticipantAgent,
		func(_ context.Context, input *core.CallInput) (core.Output, error) {
			last, ok := input.State.LastMessageOfRole(core.RoleUser)
			if !ok {
				return core.TextOutput{Text: "nothing to echo"}, nil
			}
			return core.TextOutput{Text: "You said: " + last.Text()}, nil
		})
}

// collectNotifier records the notification sequence of a run.
type collectNotifier struct {
	sequence []string
	started  []notify.RunStarted
	finished []notify.RunFinished
}

func (c *collectNotifier) RunStarted(ev notify.RunStarted) {
	c.sequence = append(c.sequence, "started")
	c.started = append(c.started, ev)
}

func (c *collectNotifier) MessageSnapshot(ev notify.MessageSnapshot) {
	c.sequence = append(c.sequence, fmt.Sprintf("snapshot(%d)", len(ev.Messages)))
}

func (c *collectNotifier) RunFinished(ev notify.RunFinished) {
	c.sequence = append(c.sequence, "finished")
	c.finished = append(c.finished, ev)
}

func TestRun_ScriptedEchoScenario(t *testing.T) {
	cfg := &core.Config{
		Name:         "echo scenario",
		Description:  "agent echoes the user's greeting",
		Participants: []core.Participant{echoAgent()},
		Script: []core.Step{
			script.User("hi"),
			script.Agent(),
			script.Succeed("echo observed"),
		},
	}

	ex, err := New(cfg)
	require.NoError(t, err)

	res, err := ex.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.True(t, res.Success)
	assert.Equal(t, core.VerdictSuccess, res.Verdict)
	assert.Equal(t, "echo observed", res.Reasoning)

	require.Len(t, res.Messages, 2)
	assert.Equal(t, core.RoleUser, res.Messages[0].Role)
	assert.Equal(t, "hi", res.Messages[0].Text())
	assert.Equal(t, core.RoleAssistant, res.Messages[1].Role)
	assert.Equal(t, "You said: hi", res.Messages[1].Text())
}

func TestRun_JudgeFailsUnmetCriteria(t *testing.T) {
	judge := participant.JudgeFunc("strict-judge", []string{"must greet"},
		func(_ context.Context, _ *core.CallInput) (core.Output, error) {
			res := core.NewFailureResult("agent never greeted the user")
			res.UnmetCriteria = []string{"must greet"}
			return core.ResultOutput{Result: res}, nil
		})

	cfg := &core.Config{
		Name:         "greeting scenario",
		Description:  "agent is expected to greet",
		Participants: []core.Participant{echoAgent(), judge},
		Script: []core.Step{
			script.User("hi"),
			script.Agent(),
			script.Judge(),
		},
	}

	ex, err := New(cfg)
	require.NoError(t, err)

	res, err := ex.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Equal(t, core.VerdictFailure, res.Verdict)
	assert.Equal(t, []string{"must greet"}, res.UnmetCriteria)
	assert.Equal(t, "agent never greeted the user", res.Reasoning)
	assert.Len(t, res.Messages, 2, "transcript travels with the verdict")
}

func TestRun_MaxTurnsExhaustion(t *testing.T) {
	calls := 0
	chatty := participant.Func("chatty-agent", core.ParticipantAgent,
		func(_ context.Context, _ *core.CallInput) (core.Output, error) {
			calls++
			return core.TextOutput{Text: "still talking"}, nil
		})
	judge := participant.JudgeFunc("patient-judge", []string{"reaches a conclusion"},
		func(_ context.Context, input *core.CallInput) (core.Output, error) {
			if input.JudgmentRequest {
				res := core.NewFailureResult("ran out of turns")
				res.UnmetCriteria = []string{"reaches a conclusion"}
				return core.ResultOutput{Result: res}, nil
			}
			return nil, nil
		})

	cfg := &core.Config{
		Name:         "endless scenario",
		Description:  "conversation that never concludes on its own",
		Participants: []core.Participant{chatty, judge},
		MaxTurns:     3,
	}

	ex, err := New(cfg)
	require.NoError(t, err)

	res, err := ex.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Equal(t, 3, calls, "agent acts once per turn up to the limit")
}

func TestRun_MaxTurnsWithoutJudge(t *testing.T) {
	cfg := &core.Config{
		Name:         "agent only",
		Description:  "no judge registered, turn limit concludes",
		Participants: []core.Participant{echoAgent()},
		MaxTurns:     2,
	}

	ex, err := New(cfg)
	require.NoError(t, err)

	res, err := ex.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Equal(t, core.VerdictFailure, res.Verdict)
	assert.Contains(t, res.Reasoning, "maximum turns (2)")
}

func TestRun_ParticipantErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	failing := participant.Func("failing-agent", core.ParticipantAgent,
		func(_ context.Context, _ *core.CallInput) (core.Output, error) {
			return nil, boom
		})

	cfg := &core.Config{
		Name:         "failing scenario",
		Description:  "agent raises an error mid-run",
		Participants: []core.Participant{failing},
		Script: []core.Step{
			script.User("hi"),
			script.Agent(),
		},
	}

	ex, err := New(cfg)
	require.NoError(t, err)

	res, err := ex.Run(context.Background())
	require.Error(t, err, "participant failures are re-raised")
	assert.ErrorIs(t, err, boom)

	require.NotNil(t, res, "a failed result accompanies the error")
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "boom")
	require.Len(t, res.Messages, 1, "transcript up to the failure is preserved")
	assert.Equal(t, "hi", res.Messages[0].Text())
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	called := false
	user := participant.Func("lonely-user", core.ParticipantUser,
		func(_ context.Context, _ *core.CallInput) (core.Output, error) {
			called = true
			return core.TextOutput{Text: "hello?"}, nil
		})

	cfg := &core.Config{
		Name:         "no agent",
		Description:  "configuration error",
		Participants: []core.Participant{user},
	}

	_, err := New(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNoAgentParticipant)
	assert.False(t, called, "no participant may be called before validation passes")
}

func TestRun_MissingRoleParticipantIsConfigError(t *testing.T) {
	cfg := &core.Config{
		Name:         "missing user",
		Description:  "script requests a user turn without simulator or content",
		Participants: []core.Participant{echoAgent()},
		Script: []core.Step{
			script.User(),
		},
	}

	ex, err := New(cfg)
	require.NoError(t, err)

	res, err := ex.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no user-role participant")
	require.NotNil(t, res)
	assert.Contains(t, res.Error, "no user-role participant")
}

func TestRun_ScriptEndsWithoutConclusion(t *testing.T) {
	judge := participant.JudgeFunc("idle-judge", []string{"is polite", "is helpful"},
		func(_ context.Context, _ *core.CallInput) (core.Output, error) {
			return nil, nil
		})

	cfg := &core.Config{
		Name:         "unfinished scenario",
		Description:  "script forgets to conclude",
		Participants: []core.Participant{echoAgent(), judge},
		Script: []core.Step{
			script.User("hi"),
			script.Agent(),
		},
	}

	ex, err := New(cfg)
	require.NoError(t, err)

	res, err := ex.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Contains(t, res.Reasoning, "without a conclusion")
	assert.Equal(t, []string{"is polite", "is helpful"}, res.UnmetCriteria)
}

func TestRun_EmptyScriptAutoAdvances(t *testing.T) {
	turnsSeen := 0
	judge := participant.JudgeFunc("quick-judge", []string{"agent responds"},
		func(_ context.Context, input *core.CallInput) (core.Output, error) {
			turnsSeen++
			if turnsSeen < 2 {
				return nil, nil
			}
			res := core.NewSuccessResult("agent responded twice")
			res.MetCriteria = []string{"agent responds"}
			return core.ResultOutput{Result: res}, nil
		})

	cfg := &core.Config{
		Name:         "autopilot scenario",
		Description:  "no script, judge concludes on its own",
		Participants: []core.Participant{echoAgent(), judge},
	}

	ex, err := New(cfg)
	require.NoError(t, err)

	res, err := ex.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, []string{"agent responds"}, res.MetCriteria)
	assert.Equal(t, 2, turnsSeen)
}

func TestRun_NotifierEventOrdering(t *testing.T) {
	collector := &collectNotifier{}

	cfg := &core.Config{
		Name:         "observed scenario",
		Description:  "notifications in order",
		Participants: []core.Participant{echoAgent()},
		Script: []core.Step{
			script.User("hi"),
			script.Agent(),
			script.Succeed("done"),
		},
	}

	ex, err := New(cfg, func(o *Options) {
		o.Notifier = collector
		o.BatchID = "batch-test"
	})
	require.NoError(t, err)

	_, err = ex.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"started", "snapshot(1)", "snapshot(2)", "finished"}, collector.sequence)

	require.Len(t, collector.started, 1)
	assert.Equal(t, "batch-test", collector.started[0].BatchID)
	assert.Equal(t, "observed-scenario", collector.started[0].ScenarioID)
	assert.NotEmpty(t, collector.started[0].ScenarioRunID)

	require.Len(t, collector.finished, 1)
	assert.Equal(t, "success", collector.finished[0].Status)
	assert.Equal(t, core.VerdictSuccess, collector.finished[0].Verdict)
}

func TestRun_NotifierErrorStatus(t *testing.T) {
	collector := &collectNotifier{}
	failing := participant.Func("failing-agent", core.ParticipantAgent,
		func(_ context.Context, _ *core.CallInput) (core.Output, error) {
			return nil, errors.New("boom")
		})

	cfg := &core.Config{
		Name:         "erroring scenario",
		Description:  "error status reaches the notifier",
		Participants: []core.Participant{failing},
		Script:       []core.Step{script.Agent()},
	}

	ex, err := New(cfg, func(o *Options) { o.Notifier = collector })
	require.NoError(t, err)

	_, err = ex.Run(context.Background())
	require.Error(t, err)

	require.Len(t, collector.finished, 1)
	assert.Equal(t, "error", collector.finished[0].Status)
	assert.Contains(t, collector.finished[0].Error, "boom")
}

func TestRun_ScriptedContentSkipsParticipant(t *testing.T) {
	userCalled := false
	user := participant.Func("simulator", core.ParticipantUser,
		func(_ context.Context, _ *core.CallInput) (core.Output, error) {
			userCalled = true
			return core.TextOutput{Text: "generated"}, nil
		})

	cfg := &core.Config{
		Name:         "scripted user content",
		Description:  "literal content takes the user's slot",
		Participants: []core.Participant{user, echoAgent()},
		Script: []core.Step{
			script.User("literal line"),
			script.Agent(),
			script.Succeed(),
		},
	}

	ex, err := New(cfg)
	require.NoError(t, err)

	res, err := ex.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, userCalled, "literal content replaces the simulator call")
	require.NotEmpty(t, res.Messages)
	assert.Equal(t, "literal line", res.Messages[0].Text())
}

func TestRun_InjectedMessageBroadcastsToEveryone(t *testing.T) {
	var agentSawIDs []string
	agent := participant.Func("observing-agent", core.ParticipantAgent,
		func(_ context.Context, input *core.CallInput) (core.Output, error) {
			for _, m := range input.NewMessages {
				agentSawIDs = append(agentSawIDs, m.ID)
			}
			return core.TextOutput{Text: "noted"}, nil
		})

	cfg := &core.Config{
		Name:         "injection scenario",
		Description:  "system context reaches all participants",
		Participants: []core.Participant{agent},
		Script: []core.Step{
			script.Message(core.NewSystemMessage("the store is closed today")),
			script.User("are you open?"),
			script.Agent(),
			script.Succeed(),
		},
	}

	ex, err := New(cfg)
	require.NoError(t, err)

	_, err = ex.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"msg-1", "msg-2"}, agentSawIDs,
		"agent sees the injection and the user line as unseen messages, in order")
}

func TestRun_ProceedCountsCompletedTurns(t *testing.T) {
	turnBoundaries := 0
	steps := 0

	cfg := &core.Config{
		Name:         "budgeted scenario",
		Description:  "proceed with an explicit turn budget",
		Participants: []core.Participant{echoAgent()},
		Script: []core.Step{
			script.Proceed(2,
				func(_ *core.ConversationState) { turnBoundaries++ },
				func(_ *core.ConversationState) { steps++ },
			),
			script.Succeed("budget spent"),
		},
		MaxTurns: 10,
	}

	ex, err := New(cfg)
	require.NoError(t, err)

	res, err := ex.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, 2, turnBoundaries)
	assert.Equal(t, 2, steps, "one agent call per turn")
}

func TestRun_JudgeWithoutCriteriaFailsFast(t *testing.T) {
	judgeCalled := false
	judge := participant.JudgeFunc("empty-judge", nil,
		func(_ context.Context, _ *core.CallInput) (core.Output, error) {
			judgeCalled = true
			return nil, nil
		})

	cfg := &core.Config{
		Name:         "criterialess scenario",
		Description:  "judge invoked without criteria",
		Participants: []core.Participant{echoAgent(), judge},
		Script: []core.Step{
			script.User("hi"),
			script.Agent(),
			script.Judge(),
		},
	}

	ex, err := New(cfg)
	require.NoError(t, err)

	res, err := ex.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Contains(t, res.Reasoning, "no criteria")
	assert.False(t, judgeCalled, "judge is not called when it has nothing to evaluate")
}

func TestRun_JudgeMustConcludeWhenScripted(t *testing.T) {
	judge := participant.JudgeFunc("waffling-judge", []string{"is decisive"},
		func(_ context.Context, _ *core.CallInput) (core.Output, error) {
			return core.TextOutput{Text: "hmm, let me think"}, nil
		})

	cfg := &core.Config{
		Name:         "indecisive scenario",
		Description:  "judge dodges a requested verdict",
		Participants: []core.Participant{echoAgent(), judge},
		Script: []core.Step{
			script.User("hi"),
			script.Agent(),
			script.Judge(),
		},
	}

	ex, err := New(cfg)
	require.NoError(t, err)

	res, err := ex.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Contains(t, res.Reasoning, "did not produce a verdict")
	assert.Equal(t, []string{"is decisive"}, res.UnmetCriteria)
}

func TestRun_AgentTimeTracked(t *testing.T) {
	cfg := &core.Config{
		Name:         "timed scenario",
		Description:  "result carries timing",
		Participants: []core.Participant{echoAgent()},
		Script: []core.Step{
			script.User("hi"),
			script.Agent(),
			script.Succeed(),
		},
	}

	ex, err := New(cfg)
	require.NoError(t, err)

	res, err := ex.Run(context.Background())
	require.NoError(t, err)

	assert.Greater(t, res.TotalTime.Nanoseconds(), int64(0))
	assert.GreaterOrEqual(t, res.TotalTime, res.AgentTime)
}

func TestNew_DefaultsThreadID(t *testing.T) {
	cfg := &core.Config{
		Name:         "thread scenario",
		Description:  "thread id generated when empty",
		Participants: []core.Participant{echoAgent()},
	}

	ex, err := New(cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, ex.Config().ThreadID)
	assert.Empty(t, cfg.ThreadID, "caller's config is not mutated")

	cfg.ThreadID = "thread-fixed"
	ex2, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, "thread-fixed", ex2.Config().ThreadID)
}
