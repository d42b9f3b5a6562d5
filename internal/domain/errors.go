package domain

import "errors"

// Sentinel errors raised by the pure domain functions. Services wrap
// them into transport-facing validation errors.
var (
	ErrSessionClosed     = errors.New("work already finished for this ticket")
	ErrTicketReferred    = errors.New("only the current assignee may start work on a referred ticket")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrIneligibleTarget  = errors.New("referral target is not eligible")
	ErrNotEditable       = errors.New("ticket is no longer editable")
)
