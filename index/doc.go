// Package index contains concrete SearchIndex implementations. The store
// interface and result envelopes reside in the core package. Import
// github.com/hupe1980/threadmem/core and depend on core.SearchIndex in your
// code; select an implementation (the in-memory index below, or the
// Elasticsearch backend in the elasticsearch sub-package) at wiring time.
//
// Rationale: keeps domain contracts centralized while allowing pluggable
// backends to be added without introducing dependency cycles.
package index
