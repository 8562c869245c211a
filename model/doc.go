// Package model defines the minimal language-model contract consumed by the
// built-in simulated-user and judge participants, plus a MockModel for tests.
// Provider adapters live in the openai and anthropic subpackages.
package model
