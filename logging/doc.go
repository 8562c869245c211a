// Package logging provides a tiny abstraction over slog so downstream code
// can depend on a minimal interface (Logger) while allowing users to plug any
// structured logger. It also offers a richer ScenarioLogger with contextual
// helpers (component, scenario run) and domain specific logging helpers for
// participant calls and whole scenario runs.
package logging
