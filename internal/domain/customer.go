package domain

import "time"

// CustomerLevel grades customers for ticket scoring.
type CustomerLevel string

const (
	CustomerLevelA CustomerLevel = "A"
	CustomerLevelB CustomerLevel = "B"
	CustomerLevelC CustomerLevel = "C"
	CustomerLevelD CustomerLevel = "D"
)

// CustomerStatus marks whether the account is active.
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "ACTIVE"
	CustomerStatusInactive CustomerStatus = "INACTIVE"
)

// Customer is a CRM account record.
type Customer struct {
	ID           int64          `json:"id"`
	FirstName    string         `json:"firstName"`
	LastName     string         `json:"lastName"`
	CompanyName  string         `json:"companyName"`
	MobileNumber string         `json:"mobileNumber"`
	Email        string         `json:"email"`
	Address      string         `json:"address"`
	SoftwareType string         `json:"softwareType"`
	Level        CustomerLevel  `json:"level"`
	Status       CustomerStatus `json:"status"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}
