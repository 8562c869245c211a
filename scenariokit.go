// Package scenariokit provides a high-level façade over the scenario
// execution engine enabling scenario-based testing of conversational agents.
// A scenario drives a multi-party conversation (user simulator, agent under
// test, evaluating judge) through a turn-based protocol, optionally guided by
// a declarative script, and produces a structured verdict with the full
// transcript and reasoning. Most test suites interact with this package by:
//  1. Describing the scenario via core.Config (name, description, participants,
//     script built from the script package, optional turn limit)
//  2. Calling Run (typically inside a Go test) and asserting on the Result
//
// The façade delegates orchestration to execute.Executor while keeping setup
// and usage ergonomics concise. Defaults are safe for tests; CI setups
// typically supply a structured logger and a notifier bridging run lifecycle
// events to an external dashboard.
package scenariokit

import (
	"context"

	"github.com/hupe1980/scenariokit/core"
	"github.com/hupe1980/scenariokit/execute"
	"github.com/hupe1980/scenariokit/logging"
	"github.com/hupe1980/scenariokit/notify"
)

// Options configures a scenario run.
type Options struct {
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger

	// Notifier receives run lifecycle notifications (defaults to NoOp).
	Notifier notify.Notifier

	// BatchID groups runs for reporting. When empty the value of the
	// SCENARIOKIT_BATCH_RUN_ID environment variable is used, then a
	// generated identifier.
	BatchID string
}

// Run validates the scenario config and executes it to completion.
//
// Anticipated test failures (criteria unmet, turn limit reached, explicit
// script fail) come back as a Result with Success=false and a nil error, so
// callers decide whether to assert on them. Configuration errors and
// participant exceptions are returned as errors; when a run was already in
// flight the accompanying Result carries the error text and the transcript
// collected so far.
func Run(ctx context.Context, cfg *core.Config, optFns ...func(o *Options)) (*core.Result, error) {
	opts := Options{
		Logger:   logging.NoOpLogger{},
		Notifier: notify.NoOpNotifier{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	ex, err := execute.New(cfg, func(o *execute.Options) {
		o.Logger = opts.Logger
		o.Notifier = opts.Notifier
		o.BatchID = opts.BatchID
	})
	if err != nil {
		return nil, err
	}

	return ex.Run(ctx)
}
