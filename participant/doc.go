// Package participant provides ready-made scenario participants: a
// model-backed user simulator, a model-backed judge evaluating a criteria
// list, and function adapters for inline participants in tests. All of them
// implement the core.Participant contract; the engine itself never depends
// on these concrete types.
package participant
