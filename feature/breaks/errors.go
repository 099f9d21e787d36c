package breaks

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the workflow service. Handlers map
// ErrAccessDenied and its derivatives to 403 and ErrNotFound to 404.
var (
	// ErrAccessDenied signals a view, comment or transition the caller's
	// scoped entries do not permit. Never downgraded or auto-corrected.
	ErrAccessDenied = errors.New("access denied")

	// ErrSelfApproval signals a checker approving or rejecting a break
	// they submitted themselves. It unwraps to ErrAccessDenied.
	ErrSelfApproval = fmt.Errorf("%w: cannot approve own submission", ErrAccessDenied)

	// ErrCommentRequired signals a close or reject without a comment.
	ErrCommentRequired = errors.New("a comment is required to close or reject a break")

	// ErrNotFound signals an unknown break id.
	ErrNotFound = errors.New("break not found")
)
