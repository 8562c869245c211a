// Package execute implements the scenario execution engine: the turn
// scheduler deciding which participant acts next, the script interpreter
// loop, participant invocation with output normalization and timing, and the
// termination logic (script verdict, judge verdict or max-turns exhaustion).
//
// One Executor owns one run. The run is a cooperative single-threaded state
// machine: the executor awaits each participant call to completion before
// scheduling the next, so the conversation state needs no locking. Multiple
// runs may execute concurrently, each with an independent Executor; the only
// shared surface is the notifier sink, whose events carry run identifiers.
package execute
