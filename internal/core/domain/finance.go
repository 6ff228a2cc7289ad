package domain

import "time"

// Payout statuses.
const (
	PayoutPending  = "pending"
	PayoutApproved = "approved"
	PayoutPaid     = "paid"
	PayoutFailed   = "failed"
)

type Payout struct {
	ID          ID         `json:"id"                validate:"required"`
	RecipientID ID         `json:"recipient_id"`
	Amount      float64    `json:"amount"`
	Currency    string     `json:"currency,omitempty"`
	Status      string     `json:"status"`
	Period      string     `json:"period,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
}

type PortfolioSummary struct {
	TotalInvested  float64 `json:"total_invested"`
	CurrentValue   float64 `json:"current_value"`
	PropertyCount  int     `json:"property_count"`
	OccupancyRate  float64 `json:"occupancy_rate"`
	YearToDateGain float64 `json:"ytd_return"`
}

type PerformanceReport struct {
	Period    string  `json:"period"`
	Revenue   float64 `json:"revenue"`
	Expenses  float64 `json:"expenses"`
	NetIncome float64 `json:"net_income"`
	ReturnPct float64 `json:"return_pct"`
}
