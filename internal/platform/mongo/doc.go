// Package mongo implements the store repositories on MongoDB.
//
// Identifiers are stored as canonical UUID strings in _id so the same
// values flow through every backend. Uniqueness rules (email, username,
// category name per owner) are enforced by named unique indexes created
// by EnsureIndexes; duplicate key errors are translated to the store
// sentinels by index name. Insertion order is kept with a per-collection
// sequence drawn from the counters collection.
package mongo
