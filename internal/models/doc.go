// Package models defines the core domain models for SplitShare.
//
// # Models
//
//   - Item: one purchased line, normalized from an extraction payload
//   - OrderMeta: order-level data captured alongside the items (date, tax)
//
// Participants are identified by display name strings. There are no user
// accounts and nothing in this package is persisted.
//
// # Design Principles
//
//  1. Items keep the untouched upstream record in Raw for diagnostics
//  2. Assignments reference participants by name, never by pointer
//  3. Values are safe to copy; the allocation engine never mutates them
package models
