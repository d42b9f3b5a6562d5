package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated          EventType = "ticket_created"
	EventTicketUpdated          EventType = "ticket_updated"
	EventTicketStatusChanged    EventType = "ticket_status_changed"
	EventTicketReferred         EventType = "ticket_referred"
	EventTicketReopened         EventType = "ticket_reopened"
	EventTicketDeleted          EventType = "ticket_deleted"
	EventReferralCreated        EventType = "referral_created"
	EventIntroductionCreated    EventType = "introduction_created"
	EventIntroductionUpdated    EventType = "introduction_updated"
	EventIntroductionReferred   EventType = "introduction_referred"
	EventIntroductionConverted  EventType = "introduction_converted"
	EventCustomerChanged        EventType = "customer_changed"
	EventEditWindowExtended     EventType = "edit_window_extended"
	EventWorkSessionToggled     EventType = "work_session_toggled"
	EventBulkTicketsCompleted   EventType = "bulk_tickets_completed"
)

// ChangeKind classifies an event for change-feed consumers.
type ChangeKind string

const (
	ChangeInsert ChangeKind = "insert"
	ChangeUpdate ChangeKind = "update"
	ChangeDelete ChangeKind = "delete"
)

// Event represents a domain event emitted by services. Record holds
// the entity after the change (nil for deletes) so subscribers can
// reconcile local state without a refetch.
type Event struct {
	ID        string     `json:"id"`
	Type      EventType  `json:"type"`
	Table     string     `json:"table"`
	Change    ChangeKind `json:"change"`
	RecordID  int64      `json:"record_id"`
	Actor     string     `json:"actor"`
	Timestamp time.Time  `json:"timestamp"`
	Record    any        `json:"record,omitempty"`
}
