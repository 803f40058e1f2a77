// Package embedding defines provider helpers around the core.Embedder
// contract.
//
// Core goals:
//   - Keep the embedding boundary minimal: one synchronous call, fixed
//     model identifier, fixed dimensionality
//   - Facilitate lightweight mocking for tests (MockEmbedder)
//
// Providers (e.g. OpenAI) implement core.Embedder from their own
// sub-packages so higher layers remain decoupled from vendor SDKs.
package embedding
