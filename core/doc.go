// Package core provides the foundational domain types and contracts used by
// ScenarioKit. It defines the core abstractions for:
//
//   - Messages (immutable, append-only conversation records built from parts)
//   - Participants (the User / Agent / Judge roles and their calling contract)
//   - ConversationState (message log, broadcast queues and per-turn state)
//   - Config / Result (the immutable run description and terminal artifact)
//   - Step / Executor (the script-interpreter surface)
//
// The package intentionally keeps implementation concerns (orchestration,
// concrete participants, notification transports) out of scope, exposing small
// interfaces to enable custom backends and extensions.
package core
