// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// AnalyzerService runs one analysis end to end: load, chunk, embed,
// index, retrieve, assemble the prompt and generate. Retriever,
// PromptAssembler and Generator are the stages it composes.
// SettingsService reads and updates persisted configuration.
//
// Services are pure Go with no CGO or external dependencies.
package services
