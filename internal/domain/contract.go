package domain

import "time"

// ContractLevel enumerates support contract tiers.
type ContractLevel string

const (
	ContractLevelGold   ContractLevel = "GOLD"
	ContractLevelSilver ContractLevel = "SILVER"
	ContractLevelBronze ContractLevel = "BRONZE"
)

// ContractStatus enumerates support contract lifecycle states.
type ContractStatus string

const (
	ContractStatusActive    ContractStatus = "ACTIVE"
	ContractStatusPending   ContractStatus = "PENDING"
	ContractStatusExpired   ContractStatus = "EXPIRED"
	ContractStatusCancelled ContractStatus = "CANCELLED"
)

// SupportContract ties a customer to a support tier for a period.
type SupportContract struct {
	ID               int64          `json:"id"`
	CustomerID       int64          `json:"customerId"`
	OrganizationName string         `json:"organizationName"`
	SoftwareName     string         `json:"softwareName"`
	Level            ContractLevel  `json:"level"`
	Status           ContractStatus `json:"status"`
	StartDate        time.Time      `json:"startDate"`
	EndDate          time.Time      `json:"endDate"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// Covers reports whether the contract is active at the given instant.
func (c *SupportContract) Covers(now time.Time) bool {
	if c.Status != ContractStatusActive {
		return false
	}
	return !now.Before(c.StartDate) && now.Before(c.EndDate)
}
