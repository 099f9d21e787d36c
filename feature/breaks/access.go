package breaks

import (
	"fmt"

	"recon-manager/feature/reconciliation/models"
)

// ScopedEntries filters the caller's entries to those matching the
// break's classification attributes. An entry matches when, for each of
// product, sub-product and entity, its value is nil (wildcard) or equals
// the break's value. All access decisions operate on scoped entries only.
func ScopedEntries(b *BreakItem, entries []AccessControlEntry) []AccessControlEntry {
	scoped := make([]AccessControlEntry, 0, len(entries))
	for _, e := range entries {
		if dimensionMatches(e.Product, b.Product) &&
			dimensionMatches(e.SubProduct, b.SubProduct) &&
			dimensionMatches(e.EntityName, b.EntityName) {
			scoped = append(scoped, e)
		}
	}
	return scoped
}

func dimensionMatches(entryValue *string, breakValue string) bool {
	return entryValue == nil || *entryValue == breakValue
}

// CanView reports whether the caller may see the break. Any scoped role
// grants view.
func CanView(b *BreakItem, entries []AccessControlEntry) bool {
	return len(ScopedEntries(b, entries)) > 0
}

// CanComment reports whether the caller may comment on the break. Viewer
// scope alone is not enough.
func CanComment(b *BreakItem, entries []AccessControlEntry) bool {
	scoped := ScopedEntries(b, entries)
	return hasRole(scoped, RoleMaker) || hasRole(scoped, RoleChecker)
}

func hasRole(entries []AccessControlEntry, role AccessRole) bool {
	for _, e := range entries {
		if e.Role == role {
			return true
		}
	}
	return false
}

// CheckerMaskedByMaker is the segregation-of-duties policy: an actor
// whose scoped entries grant both maker and checker acts as maker only,
// so the same principal can never submit and approve the same break.
func CheckerMaskedByMaker(maker, checker bool) bool {
	return checker && !maker
}

// AllowedStatuses computes the legal next statuses for the caller on the
// given break. The result is surfaced verbatim to API consumers as the
// set of actions the user may take.
func AllowedStatuses(b *BreakItem, def *models.Definition, entries []AccessControlEntry) []BreakStatus {
	scoped := ScopedEntries(b, entries)
	maker := hasRole(scoped, RoleMaker)
	checker := CheckerMaskedByMaker(maker, hasRole(scoped, RoleChecker))

	if def.MakerCheckerEnabled {
		if maker {
			switch b.Status {
			case StatusOpen:
				return []BreakStatus{StatusPendingApproval}
			case StatusPendingApproval:
				return []BreakStatus{StatusOpen}
			default:
				// CLOSED and REJECTED are terminal for makers.
				return []BreakStatus{}
			}
		}
		if checker && b.Status == StatusPendingApproval {
			return []BreakStatus{StatusClosed, StatusRejected}
		}
		return []BreakStatus{}
	}

	// Maker-checker disabled: either role toggles between OPEN and
	// CLOSED. REJECTED is unreachable in this mode.
	if maker || hasRole(scoped, RoleChecker) {
		toggle := make([]BreakStatus, 0, 2)
		for _, s := range []BreakStatus{StatusOpen, StatusClosed} {
			if s != b.Status {
				toggle = append(toggle, s)
			}
		}
		return toggle
	}

	return []BreakStatus{}
}

// AssertTransitionAllowed verifies that target is a legal next status for
// the caller. It never mutates state; on rejection the returned error
// unwraps to ErrAccessDenied.
func AssertTransitionAllowed(b *BreakItem, def *models.Definition, entries []AccessControlEntry, target BreakStatus) error {
	for _, allowed := range AllowedStatuses(b, def, entries) {
		if allowed == target {
			return nil
		}
	}
	return fmt.Errorf("%w: transition %s -> %s not permitted", ErrAccessDenied, b.Status, target)
}

// effectiveRole is the role recorded on the audit trail for a transition
// the caller was allowed to make.
func effectiveRole(b *BreakItem, def *models.Definition, entries []AccessControlEntry) AccessRole {
	scoped := ScopedEntries(b, entries)
	maker := hasRole(scoped, RoleMaker)
	if def.MakerCheckerEnabled && CheckerMaskedByMaker(maker, hasRole(scoped, RoleChecker)) {
		return RoleChecker
	}
	if maker {
		return RoleMaker
	}
	return RoleChecker
}
