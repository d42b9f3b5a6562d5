package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusNotStarted TicketStatus = "NOT_STARTED"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusDone       TicketStatus = "DONE"
	TicketStatusReferred   TicketStatus = "REFERRED"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// TicketChannel records how the request arrived.
type TicketChannel string

const (
	TicketChannelPhone    TicketChannel = "PHONE"
	TicketChannelEmail    TicketChannel = "EMAIL"
	TicketChannelPortal   TicketChannel = "PORTAL"
	TicketChannelInPerson TicketChannel = "IN_PERSON"
)

// Ticket is the aggregate for support work tied to a customer.
//
// Invariant: WorkSessionStartedAt is non-nil exactly when Status is
// IN_PROGRESS, and TotalWorkDuration only grows, via session-close
// events. The status/session-start/duration triple is always mutated
// together through ToggleWork and the referral/complete helpers.
type Ticket struct {
	ID                   int64          `json:"id"`
	TicketNumber         string         `json:"ticketNumber"`
	Title                string         `json:"title"`
	Description          string         `json:"description"`
	CustomerID           int64          `json:"customerId"`
	Status               TicketStatus   `json:"status"`
	Priority             TicketPriority `json:"priority"`
	Type                 string         `json:"type"`
	Channel              TicketChannel  `json:"channel"`
	AssignedTo           string         `json:"assignedTo"`
	Attachments          []string       `json:"attachments"`
	EditableUntil        time.Time      `json:"editableUntil"`
	WorkSessionStartedAt *time.Time     `json:"workSessionStartedAt"`
	TotalWorkDuration    int64          `json:"totalWorkDuration"`
	Score                int            `json:"score"`
	CreatedAt            time.Time      `json:"createdAt"`
	UpdatedAt            time.Time      `json:"updatedAt"`
}

// TicketEvent enumerates state machine inputs.
type TicketEvent string

const (
	TicketEventStartWork     TicketEvent = "start_work"
	TicketEventStopWork      TicketEvent = "stop_work"
	TicketEventRefer         TicketEvent = "refer"
	TicketEventReopen        TicketEvent = "reopen"
	TicketEventForceComplete TicketEvent = "force_complete"
)

// transitions is the full state machine table. Any (status, event)
// pair missing here is an invalid transition.
var transitions = map[TicketEvent]map[TicketStatus]TicketStatus{
	TicketEventStartWork: {
		TicketStatusNotStarted: TicketStatusInProgress,
		TicketStatusReferred:   TicketStatusInProgress,
	},
	TicketEventStopWork: {
		TicketStatusInProgress: TicketStatusDone,
	},
	TicketEventRefer: {
		TicketStatusNotStarted: TicketStatusReferred,
		TicketStatusInProgress: TicketStatusReferred,
	},
	TicketEventReopen: {
		TicketStatusDone: TicketStatusNotStarted,
	},
	TicketEventForceComplete: {
		TicketStatusNotStarted: TicketStatusDone,
		TicketStatusInProgress: TicketStatusDone,
		TicketStatusReferred:   TicketStatusDone,
	},
}

// NextStatus resolves the state machine table for one event. The
// second return is false when the pair is not a legal transition.
func NextStatus(current TicketStatus, event TicketEvent) (TicketStatus, bool) {
	next, ok := transitions[event][current]
	return next, ok
}

// CanTransition reports whether the event is legal from the status.
func CanTransition(current TicketStatus, event TicketEvent) bool {
	_, ok := NextStatus(current, event)
	return ok
}
