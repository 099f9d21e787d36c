// Package breaks implements the break access and workflow state machine.
//
// A break is a detected discrepancy persisted from a matching run. Every
// read, comment and status change is gated by the caller's access-control
// entries, scoped to the break's classification attributes (product,
// sub-product, entity). Status transitions follow a maker/checker state
// machine over OPEN, PENDING_APPROVAL, CLOSED and REJECTED, with an
// immutable audit record appended on every transition.
//
// # Access model
//
// The caller resolves the acting principal's LDAP group memberships
// upstream; this package only consumes the resulting AccessControlEntry
// rows. An actor holding both maker and checker scope on the same break
// acts as maker only, so a maker can never approve their own submission.
//
// # Concurrency
//
// Transitions recompute the allowed status set inside the same database
// transaction that mutates the break, under a row lock. The losing side
// of a concurrent transition fails with an access-denied error instead of
// applying a stale state change.
package breaks
