// Package catalog is the source store: the list of every icon available in
// a session, loaded once at startup and never mutated afterwards.
//
// The catalog document is a single JSON object:
//
//	{"total": 3, "images": [{"name": "home", "id": 1}, ...]}
//
// Only names matter to the rest of the pipeline. Ids are opaque and
// optional; they are accepted as JSON strings or numbers and kept as text.
//
// Failure to retrieve or decode the document is reported as
// ErrCatalogUnavailable. Nothing can be rendered without a catalog, so
// callers surface the error once and stop.
package catalog
