package domain

import "time"

// ToggleWork flips the ticket between a running and a stopped work
// session, keeping the status/session-start/duration triple consistent.
//
// Stopping floors the elapsed time to whole seconds and accumulates it
// into TotalWorkDuration. Toggling a DONE ticket is rejected, which is
// what makes a second stop in a row a no-op instead of a duration
// drift. A REFERRED ticket may only be started by its current
// assignee; that start is the accept step of a referral.
func ToggleWork(t *Ticket, actor *User, now time.Time) error {
	switch t.Status {
	case TicketStatusInProgress:
		return stopWork(t, now)
	case TicketStatusDone:
		return ErrSessionClosed
	case TicketStatusReferred:
		if actor == nil || actor.Username != t.AssignedTo {
			return ErrTicketReferred
		}
		return startWork(t, now)
	default:
		return startWork(t, now)
	}
}

func startWork(t *Ticket, now time.Time) error {
	next, ok := NextStatus(t.Status, TicketEventStartWork)
	if !ok {
		return ErrInvalidTransition
	}
	started := now
	t.Status = next
	t.WorkSessionStartedAt = &started
	t.UpdatedAt = now
	return nil
}

func stopWork(t *Ticket, now time.Time) error {
	next, ok := NextStatus(t.Status, TicketEventStopWork)
	if !ok || t.WorkSessionStartedAt == nil {
		return ErrInvalidTransition
	}
	elapsed := int64(now.Sub(*t.WorkSessionStartedAt) / time.Second)
	if elapsed > 0 {
		t.TotalWorkDuration += elapsed
	}
	t.Status = next
	t.WorkSessionStartedAt = nil
	t.UpdatedAt = now
	return nil
}

// CloseSessionForReferral clears a running session when the ticket is
// handed over. The elapsed time of the open session is discarded, not
// accumulated; this function is the single seam to change if referral
// should ever bank the in-flight time instead.
func CloseSessionForReferral(t *Ticket) {
	t.WorkSessionStartedAt = nil
}

// ForceComplete drives the ticket to DONE outside the start/stop
// cycle, as the bulk complete action does. Any in-flight session time
// is dropped. Returns false when the ticket is already DONE.
func ForceComplete(t *Ticket, now time.Time) bool {
	next, ok := NextStatus(t.Status, TicketEventForceComplete)
	if !ok {
		return false
	}
	t.Status = next
	t.WorkSessionStartedAt = nil
	t.UpdatedAt = now
	return true
}

// Reopen resets a DONE ticket to NOT_STARTED. Accumulated work time
// and referral history are preserved.
func Reopen(t *Ticket, now time.Time) error {
	next, ok := NextStatus(t.Status, TicketEventReopen)
	if !ok {
		return ErrInvalidTransition
	}
	t.Status = next
	t.WorkSessionStartedAt = nil
	t.UpdatedAt = now
	return nil
}
