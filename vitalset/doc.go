// Package vitalset implements the record service for patient vital signs.
//
// # Overview
//
// The Service orchestrates three collaborators:
//
//   - Gateway: the durable store, the only writer of persistent state
//   - Cache: a record-level cache driven explicitly around every Gateway call
//   - Publisher: a fire-and-forget messaging channel used by SendMessage
//
// # Caching Behavior
//
// Cache directives are plain calls made by the Service after the store
// operation they belong to:
//
//  1. CreateVitalSet and UpdateVitalSet write the persisted record through
//     to its id entry
//  2. FindByID reads through the id entry and never caches a miss
//  3. FindAll reads through a single list entry
//  4. DeleteByID evicts the id entry whether or not the delete succeeded
//
// The list entry is not touched by single-record writes, so FindAll may
// return a stale list until the entry expires. WithListInvalidation evicts it
// on every write instead.
//
// Cache backend failures are logged and never reach the caller. The Gateway
// stays the source of truth.
//
// # Errors
//
// Single-record operations on an unknown identifier fail with a
// *ResourceNotFoundError, which matches ErrResourceNotFound via errors.Is.
// FindAll fails with ErrNoDataFound when the store is empty.
package vitalset
