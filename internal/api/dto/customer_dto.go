package dto

import (
	"time"

	"github.com/spec-kit/crm-service/internal/domain"
)

// CustomerRequest payload for create and update.
type CustomerRequest struct {
	FirstName    string                `json:"first_name"`
	LastName     string                `json:"last_name"`
	CompanyName  string                `json:"company_name"`
	MobileNumber string                `json:"mobile_number"`
	Email        string                `json:"email"`
	Address      string                `json:"address"`
	SoftwareType string                `json:"software_type"`
	Level        domain.CustomerLevel  `json:"level"`
	Status       domain.CustomerStatus `json:"status"`
}

// CustomerResponse is the wire form of a customer.
type CustomerResponse struct {
	ID           int64                 `json:"id"`
	FirstName    string                `json:"first_name"`
	LastName     string                `json:"last_name"`
	CompanyName  string                `json:"company_name"`
	MobileNumber string                `json:"mobile_number"`
	Email        string                `json:"email"`
	Address      string                `json:"address"`
	SoftwareType string                `json:"software_type"`
	Level        domain.CustomerLevel  `json:"level"`
	Status       domain.CustomerStatus `json:"status"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// ContractResponse is the wire form of a support contract.
type ContractResponse struct {
	ID               int64                 `json:"id"`
	CustomerID       int64                 `json:"customer_id"`
	OrganizationName string                `json:"organization_name"`
	SoftwareName     string                `json:"software_name"`
	Level            domain.ContractLevel  `json:"level"`
	Status           domain.ContractStatus `json:"status"`
	StartDate        time.Time             `json:"start_date"`
	EndDate          time.Time             `json:"end_date"`
}
