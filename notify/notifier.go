package notify

import (
	"sync"

	"github.com/hupe1980/scenariokit/core"
	"github.com/hupe1980/scenariokit/logging"
)

// RunStarted announces the beginning of a scenario run.
type RunStarted struct {
	BatchID       string `json:"batch_id"`
	ScenarioID    string `json:"scenario_id"`
	ScenarioRunID string `json:"scenario_run_id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
}

// MessageSnapshot carries the full message log after an append. It is
// emitted once per appended message, in append order.
type MessageSnapshot struct {
	BatchID       string         `json:"batch_id"`
	ScenarioID    string         `json:"scenario_id"`
	ScenarioRunID string         `json:"scenario_run_id"`
	Messages      []core.Message `json:"messages"`
}

// RunFinished announces the terminal outcome of a scenario run.
type RunFinished struct {
	BatchID       string       `json:"batch_id"`
	ScenarioID    string       `json:"scenario_id"`
	ScenarioRunID string       `json:"scenario_run_id"`
	Status        string       `json:"status"` // "success", "failure" or "error"
	Verdict       core.Verdict `json:"verdict"`
	MetCriteria   []string     `json:"met_criteria,omitempty"`
	UnmetCriteria []string     `json:"unmet_criteria,omitempty"`
	Reasoning     string       `json:"reasoning,omitempty"`
	Error         string       `json:"error,omitempty"`
}

// Notifier receives lifecycle notifications from a run. Within one run the
// calls are ordered (started, then one snapshot per append, then finished);
// implementations shared across concurrently executing runs must tolerate
// interleaved calls from independent goroutines.
//
// A Notifier must not block scenario execution; slow sinks should buffer
// internally.
type Notifier interface {
	RunStarted(ev RunStarted)
	MessageSnapshot(ev MessageSnapshot)
	RunFinished(ev RunFinished)
}

// NoOpNotifier discards all notifications. Useful when reporting is disabled.
type NoOpNotifier struct{}

// RunStarted discards the notification.
func (NoOpNotifier) RunStarted(RunStarted) {}

// MessageSnapshot discards the notification.
func (NoOpNotifier) MessageSnapshot(MessageSnapshot) {}

// RunFinished discards the notification.
func (NoOpNotifier) RunFinished(RunFinished) {}

// MultiNotifier fans notifications out to an ordered subscriber list. It is
// safe for concurrent use by independent runs.
type MultiNotifier struct {
	mu   sync.RWMutex
	subs []Notifier
}

// NewMultiNotifier creates a fan-out notifier over the given subscribers.
func NewMultiNotifier(subs ...Notifier) *MultiNotifier {
	return &MultiNotifier{subs: subs}
}

// Subscribe appends a subscriber; it receives all subsequent notifications.
func (m *MultiNotifier) Subscribe(n Notifier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, n)
}

func (m *MultiNotifier) snapshot() []Notifier {
	m.mu.RLock()
	defer m.mu.RUnlock()
	subs := make([]Notifier, len(m.subs))
	copy(subs, m.subs)
	return subs
}

// RunStarted forwards the notification to every subscriber in order.
func (m *MultiNotifier) RunStarted(ev RunStarted) {
	for _, s := range m.snapshot() {
		s.RunStarted(ev)
	}
}

// MessageSnapshot forwards the notification to every subscriber in order.
func (m *MultiNotifier) MessageSnapshot(ev MessageSnapshot) {
	for _, s := range m.snapshot() {
		s.MessageSnapshot(ev)
	}
}

// RunFinished forwards the notification to every subscriber in order.
func (m *MultiNotifier) RunFinished(ev RunFinished) {
	for _, s := range m.snapshot() {
		s.RunFinished(ev)
	}
}

// LoggingNotifier bridges lifecycle notifications onto a logging.Logger.
type LoggingNotifier struct {
	Logger logging.Logger
}

// NewLoggingNotifier creates a notifier that logs lifecycle notifications.
func NewLoggingNotifier(logger logging.Logger) *LoggingNotifier {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &LoggingNotifier{Logger: logger}
}

// RunStarted logs the run-started notification.
func (n *LoggingNotifier) RunStarted(ev RunStarted) {
	n.Logger.Info("scenario run started batch_id=%s scenario_id=%s scenario_run_id=%s name=%s",
		ev.BatchID, ev.ScenarioID, ev.ScenarioRunID, ev.Name)
}

// MessageSnapshot logs the message-snapshot notification.
func (n *LoggingNotifier) MessageSnapshot(ev MessageSnapshot) {
	n.Logger.Debug("scenario message appended scenario_run_id=%s message_count=%d",
		ev.ScenarioRunID, len(ev.Messages))
}

// RunFinished logs the run-finished notification.
func (n *LoggingNotifier) RunFinished(ev RunFinished) {
	n.Logger.Info("scenario run finished scenario_run_id=%s status=%s verdict=%s reasoning=%s",
		ev.ScenarioRunID, ev.Status, ev.Verdict, ev.Reasoning)
}
