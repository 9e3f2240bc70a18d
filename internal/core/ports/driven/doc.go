// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - EmbeddingService: Maps text to fixed-length vectors
//   - LLMService: Maps a prompt to generated text
//   - VectorIndex: Stores entries and runs cosine similarity search
//   - Normaliser / NormaliserRegistry: Extract plain text from uploaded files
//   - TextSplitter: Splits text into overlapping passages
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
