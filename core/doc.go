// Package core provides the foundational domain types and collaborator
// contracts used by ThreadMem. It defines:
//
//   - ContentNode (one stored unit of conversational content plus embedding
//     and metadata, in the exact persisted wire shape)
//   - SearchIndex (the document/vector store boundary: ranked search + upsert)
//   - Embedder (the text-embedding provider boundary)
//   - Result / Hit / WriteAck (store response envelopes)
//
// The package intentionally keeps implementation concerns (query
// construction, scoring math, concrete backends) out of scope, exposing small
// interfaces so backends can be swapped without introducing dependency
// cycles. All exported identifiers include concise documentation to aid
// discoverability and external consumption.
package core
