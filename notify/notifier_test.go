package notify

import (
	"strings"
	"testing"

	"github.com/hupe1980/scenariokit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBatchID_Precedence(t *testing.T) {
	t.Run("explicit wins", func(t *testing.T) {
		t.Setenv(BatchIDEnvVar, "from-env")
		assert.Equal(t, "explicit", ResolveBatchID("explicit"))
	})

	t.Run("environment second", func(t *testing.T) {
		t.Setenv(BatchIDEnvVar, "from-env")
		assert.Equal(t, "from-env", ResolveBatchID(""))
	})

	t.Run("generated last", func(t *testing.T) {
		t.Setenv(BatchIDEnvVar, "")
		id := ResolveBatchID("")
		assert.True(t, strings.HasPrefix(id, "batch-"), "generated id should carry the batch prefix, got %q", id)
		assert.NotEqual(t, id, ResolveBatchID(""), "generated ids must be unique")
	})
}

// orderedSub records which subscriber received which notification, in order.
type orderedSub struct {
	label string
	log   *[]string
}

func (s orderedSub) RunStarted(RunStarted)           { *s.log = append(*s.log, s.label+":started") }
func (s orderedSub) MessageSnapshot(MessageSnapshot) { *s.log = append(*s.log, s.label+":snapshot") }
func (s orderedSub) RunFinished(RunFinished)         { *s.log = append(*s.log, s.label+":finished") }

func TestMultiNotifier_OrderedFanOut(t *testing.T) {
	var log []string
	m := NewMultiNotifier(orderedSub{"a", &log}, orderedSub{"b", &log})

	m.RunStarted(RunStarted{ScenarioRunID: "r1"})
	m.MessageSnapshot(MessageSnapshot{ScenarioRunID: "r1"})
	m.RunFinished(RunFinished{ScenarioRunID: "r1", Status: "success"})

	assert.Equal(t, []string{
		"a:started", "b:started",
		"a:snapshot", "b:snapshot",
		"a:finished", "b:finished",
	}, log)
}

func TestMultiNotifier_Subscribe(t *testing.T) {
	var log []string
	m := NewMultiNotifier()

	m.RunStarted(RunStarted{})
	require.Empty(t, log, "no subscribers yet")

	m.Subscribe(orderedSub{"late", &log})
	m.RunFinished(RunFinished{})

	assert.Equal(t, []string{"late:finished"}, log)
}

func TestLoggingNotifier_NilLogger(t *testing.T) {
	n := NewLoggingNotifier(nil)

	// Must not panic with the NoOp fallback.
	n.RunStarted(RunStarted{Name: "s"})
	n.MessageSnapshot(MessageSnapshot{Messages: []core.Message{core.NewUserMessage("hi")}})
	n.RunFinished(RunFinished{Status: "failure", Verdict: core.VerdictFailure})
}
