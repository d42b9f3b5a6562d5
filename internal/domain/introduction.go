package domain

import "time"

// IntroductionStatus enumerates lead lifecycle states.
type IntroductionStatus string

const (
	IntroductionStatusNew        IntroductionStatus = "NEW"
	IntroductionStatusInProgress IntroductionStatus = "IN_PROGRESS"
	IntroductionStatusWon        IntroductionStatus = "WON"
	IntroductionStatusLost       IntroductionStatus = "LOST"
)

// CustomerIntroduction is a sales lead: a prospect introduced by one
// user and worked by an assignee until it is won (converted into a
// Customer) or lost.
type CustomerIntroduction struct {
	ID            int64              `json:"id"`
	IntroducedBy  string             `json:"introducedBy"`
	AssignedTo    string             `json:"assignedTo"`
	Status        IntroductionStatus `json:"status"`
	ProspectName  string             `json:"prospectName"`
	ProspectPhone string             `json:"prospectPhone"`
	CompanyName   string             `json:"companyName"`
	Notes         string             `json:"notes"`
	CustomerID    *int64             `json:"customerId"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}
