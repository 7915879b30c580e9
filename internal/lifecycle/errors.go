package lifecycle

import "errors"

var (
	ErrActionNotAllowed   = errors.New("action not allowed in current status")
	ErrTerminalStatus     = errors.New("entity is in a terminal status")
	ErrNotParty           = errors.New("viewer is neither buyer nor seller")
	ErrStaffOnly          = errors.New("action is restricted to staff")
	ErrAlreadyConfirmed   = errors.New("viewer has already confirmed")
	ErrReasonRequired     = errors.New("a reason is required")
	ErrTooManyPhotos      = errors.New("too many photos for one party")
	ErrIncompleteEvidence = errors.New("each party must supply exactly 3 photos")
	ErrUnknownSide        = errors.New("unknown evidence side")
)
