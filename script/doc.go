// Package script provides the declarative step factories a test author uses
// to drive a scenario: inject literal messages, request specific role turns
// (with optional fixed content overriding generation), auto-advance turns,
// or force an immediate verdict.
//
// A script is an ordered []core.Step; each step either returns nil to
// continue with the next step or a *core.Result that terminates the run.
// Scripts that can end without a concluding step (Proceed, Judge, Succeed or
// Fail as the final step) fail with a diagnostic result.
package script
