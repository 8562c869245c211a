// Package notify defines the lifecycle notification surface of ScenarioKit.
// The executor emits ordered notifications (run started, message snapshot,
// run finished) to a Notifier; external reporting (dashboards, log shipping)
// subscribes here. Notifiers are push-only observers: delivery never affects
// scenario control flow and carries no back-pressure into execution.
//
// Every notification is tagged with the batch, scenario and scenario-run
// identifiers so sinks shared by concurrently executing runs can demultiplex
// interleaved writes.
package notify
