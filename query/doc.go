// Package query builds the structured search requests executed against a
// core.SearchIndex. Two spec kinds exist:
//
//   - RelevanceSpec: ranked retrieval blending text match, recency decay,
//     importance and vector similarity into one summed score that replaces
//     the base match score, scoped to an owner or (for the sentinel owner)
//     a requester IP.
//   - ThreadSpec: reconstructs a conversation thread by fetching the given
//     nodes and their direct children in chronological order.
//
// Specs render their own wire body (Body), which is the de facto schema
// shared with pre-existing index contents; backends that do not speak that
// shape can instead interpret the spec fields directly.
package query
