package dto

import (
	"time"

	"github.com/spec-kit/crm-service/internal/domain"
)

// CreateIntroductionRequest payload.
type CreateIntroductionRequest struct {
	AssignedTo    string `json:"assigned_to"`
	ProspectName  string `json:"prospect_name"`
	ProspectPhone string `json:"prospect_phone"`
	CompanyName   string `json:"company_name"`
	Notes         string `json:"notes"`
}

// UpdateIntroductionRequest payload. Absent fields stay untouched.
type UpdateIntroductionRequest struct {
	AssignedTo    *string `json:"assigned_to"`
	ProspectName  *string `json:"prospect_name"`
	ProspectPhone *string `json:"prospect_phone"`
	CompanyName   *string `json:"company_name"`
	Notes         *string `json:"notes"`
}

// ReferIntroductionRequest payload.
type ReferIntroductionRequest struct {
	ReferredTo string `json:"referred_to"`
}

// ConvertIntroductionRequest supplies customer fields for conversion.
type ConvertIntroductionRequest struct {
	FirstName    string               `json:"first_name"`
	LastName     string               `json:"last_name"`
	MobileNumber string               `json:"mobile_number"`
	Email        string               `json:"email"`
	Address      string               `json:"address"`
	SoftwareType string               `json:"software_type"`
	Level        domain.CustomerLevel `json:"level"`
}

// IntroductionResponse is the wire form of a lead.
type IntroductionResponse struct {
	ID            int64                     `json:"id"`
	IntroducedBy  string                    `json:"introduced_by"`
	AssignedTo    string                    `json:"assigned_to"`
	Status        domain.IntroductionStatus `json:"status"`
	ProspectName  string                    `json:"prospect_name"`
	ProspectPhone string                    `json:"prospect_phone"`
	CompanyName   string                    `json:"company_name"`
	Notes         string                    `json:"notes"`
	CustomerID    *int64                    `json:"customer_id"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`
}

// IntroductionReferralResponse is one lead hand-over entry.
type IntroductionReferralResponse struct {
	ID             int64     `json:"id"`
	IntroductionID int64     `json:"introduction_id"`
	ReferredBy     string    `json:"referred_by"`
	ReferredTo     string    `json:"referred_to"`
	ReferredAt     time.Time `json:"referred_at"`
}
