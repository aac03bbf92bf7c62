// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Pipeline Interfaces
//
// One per stage of an analysis:
//
//   - DocumentLoader / LoaderRegistry: Extract page text from uploaded bytes
//   - Chunker: Split pages into overlapping chunks
//   - EmbeddingService: Turn text into vectors
//   - VectorIndexBuilder / VectorIndex: Build a per-request index and query it
//   - TokenCounter: Measure prompt context against a budget
//   - LLMService: Generate the answer
//
// # Supporting Interfaces
//
//   - ConfigStore: Application configuration
//   - PromptStore: Prompt templates with embedded defaults
//   - AIConfigValidator: Connectivity checks for AI providers
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or loader package
package driven
