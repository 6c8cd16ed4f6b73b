// Package models defines the core domain models for splitledger.
//
// # Models
//
//   - Entry: one recorded expense inside a group, owning its ordered Split list
//   - Split: one member's obligation for one entry, with paid/unpaid state
//   - Group: a set of members identified by user ID, optionally password protected
//   - User: a registered account
//
// # Design Principles
//
//  1. Money is decimal.Decimal, never float64. The currency unit is 0.01.
//  2. Relationships use ID strings instead of pointers.
//  3. An Entry owns its Splits exclusively; splits are replaced as a whole
//     whenever they are recomputed and are never deleted individually.
//  4. Balances are derived from entries on every query and are never stored.
package models
