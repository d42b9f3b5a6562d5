package domain

import "time"

// EditWindow is how long a ticket stays editable after creation or an
// extension.
const EditWindow = 30 * time.Minute

// IsEditable reports whether the ticket's fields may still be
// mutated. A DONE ticket is never editable regardless of the window;
// read-only access is not governed here.
func IsEditable(t *Ticket, now time.Time) bool {
	if t.Status == TicketStatusDone {
		return false
	}
	return now.Before(t.EditableUntil)
}

// ExtendEditWindow resets the window to a full EditWindow from now.
// It does not add to remaining time. Manager-only; the privilege check
// lives in the service layer.
func ExtendEditWindow(t *Ticket, now time.Time) time.Time {
	t.EditableUntil = now.Add(EditWindow)
	return t.EditableUntil
}

// EditCountdown returns the time left in the edit window, zero once
// expired.
func EditCountdown(t *Ticket, now time.Time) time.Duration {
	remaining := t.EditableUntil.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}
