package dto

import (
	"time"

	"github.com/spec-kit/crm-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	CustomerID  int64                 `json:"customer_id"`
	Priority    domain.TicketPriority `json:"priority"`
	Type        string                `json:"type"`
	Channel     domain.TicketChannel  `json:"channel"`
	AssignedTo  string                `json:"assigned_to"`
	Attachments []string              `json:"attachments"`
}

// UpdateTicketRequest payload. Absent fields stay untouched.
type UpdateTicketRequest struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	Priority    *domain.TicketPriority `json:"priority"`
	Type        *string                `json:"type"`
	Channel     *domain.TicketChannel  `json:"channel"`
	Attachments []string               `json:"attachments"`
}

// ReferTicketRequest payload.
type ReferTicketRequest struct {
	ReferredTo string `json:"referred_to"`
}

// BulkTicketRequest carries ticket ids for bulk operations.
type BulkTicketRequest struct {
	TicketIDs []int64 `json:"ticket_ids"`
}

// BulkReferRequest payload.
type BulkReferRequest struct {
	TicketIDs  []int64 `json:"ticket_ids"`
	ReferredTo string  `json:"referred_to"`
}

// TicketResponse is the wire form of a ticket.
type TicketResponse struct {
	ID                   int64                 `json:"id"`
	TicketNumber         string                `json:"ticket_number"`
	Title                string                `json:"title"`
	Description          string                `json:"description"`
	CustomerID           int64                 `json:"customer_id"`
	Status               domain.TicketStatus   `json:"status"`
	Priority             domain.TicketPriority `json:"priority"`
	Type                 string                `json:"type"`
	Channel              domain.TicketChannel  `json:"channel"`
	AssignedTo           string                `json:"assigned_to"`
	Attachments          []string              `json:"attachments"`
	EditableUntil        time.Time             `json:"editable_until"`
	Editable             bool                  `json:"editable"`
	WorkSessionStartedAt *time.Time            `json:"work_session_started_at"`
	TotalWorkDuration    int64                 `json:"total_work_duration"`
	Score                int                   `json:"score"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
}

// ReferralResponse is one history entry.
type ReferralResponse struct {
	ID         int64     `json:"id"`
	TicketID   int64     `json:"ticket_id"`
	ReferredBy string    `json:"referred_by"`
	ReferredTo string    `json:"referred_to"`
	ReferredAt time.Time `json:"referred_at"`
}

// BulkFailureResponse reports one failed item of a bulk operation.
type BulkFailureResponse struct {
	TicketID int64  `json:"ticket_id"`
	Reason   string `json:"reason"`
}
