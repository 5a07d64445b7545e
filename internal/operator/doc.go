// Package operator implements the pull-based (Volcano) iterator protocol
// that every execution stage satisfies, and the stages themselves.
//
// LIFECYCLE:
//
//	Unopened --Open ok--> Open --Close--> Closed
//	Unopened --Open err-> Failed --Close--> Closed
//
// Open is called exactly once, before any Next. Next returns one row, or
// ok=false once the input is exhausted; exhaustion is not a state and
// further Next calls keep reporting ok=false. Operators are single-pass.
// Close releases resources and closes children. Every operator in this
// package documents Close as idempotent: the second call is a no-op.
//
// Calling Next before Open, Open twice, or Next after Close is misuse and
// returns a *Failure with CodeMisuse rather than corrupting state.
//
// COMPOSITION:
//
// A composite opens its children before its own initialisation. If its
// own initialisation fails, Close still closes every child it opened,
// exactly once. On Close a composite releases its own resources first,
// then closes its children in order; a failing child close does not skip
// the others.
//
// ERRORS:
//
// Every failure is a *Failure carrying the phase, the operator kind where
// it originated and the underlying cause. Parents return a child's error
// unchanged, so errors.As always finds the originating operator.
//
// CONCURRENCY:
//
// An operator tree belongs to one query execution and is driven from a
// single goroutine. There is no cancellation inside the protocol; the
// driver (Drain) stops pulling when its context is done and closes the
// root.
package operator
