// Package store provides durable SQLite storage for macro records.
//
// The store is deliberately thin: the engine only requires fetch-all (for
// the trigger cache) plus CRUD on individual macros. Listing order is
// created_at descending, which is also the trigger-match candidate order.
//
// Event sequences and bindings are stored as JSON TEXT using the
// internal/event wire codec. Identity fields (token, capture time) are not
// part of the wire form; decoded events always carry fresh identity.
//
// The steps column holds the legacy display projection. It is derived from
// the sequence on every write and is never read back for replay.
package store
