package domain

import "time"

// Referral is one hand-over of a ticket. Immutable once created;
// the rows form an append-only history per ticket and are removed
// only by the ticket-delete cascade.
type Referral struct {
	ID         int64     `json:"id"`
	TicketID   int64     `json:"ticketId"`
	ReferredBy string    `json:"referredBy"`
	ReferredTo string    `json:"referredTo"`
	ReferredAt time.Time `json:"referredAt"`
}

// IntroductionReferral mirrors Referral for customer introductions.
type IntroductionReferral struct {
	ID             int64     `json:"id"`
	IntroductionID int64     `json:"introductionId"`
	ReferredBy     string    `json:"referredBy"`
	ReferredTo     string    `json:"referredTo"`
	ReferredAt     time.Time `json:"referredAt"`
}
