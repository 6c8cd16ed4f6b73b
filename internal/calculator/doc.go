// Package calculator is the split and balance engine.
//
// It divides an entry total among members (equal, percentage, manual),
// records paid state on individual splits, and reduces a group's entries to
// per-user outstanding balances. Everything here is a deterministic function
// of its inputs: no I/O, no shared state, no locking. Callers that mutate an
// entry must work on their own copy of it.
package calculator
