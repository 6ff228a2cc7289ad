package domain

import "time"

// Job statuses as reported by the backend.
const (
	JobOpen       = "open"
	JobInProgress = "in_progress"
	JobCompleted  = "completed"
	JobCancelled  = "cancelled"
)

// Estimate statuses.
const (
	EstimatePending  = "pending"
	EstimateApproved = "approved"
	EstimateRejected = "rejected"
	EstimateAccepted = "accepted"
)

type Job struct {
	ID           ID        `json:"id"                      validate:"required"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Status       string    `json:"status"`
	Category     string    `json:"category,omitempty"`
	PropertyID   ID        `json:"property_id,omitempty"`
	CustomerID   ID        `json:"customer_id,omitempty"`
	ContractorID ID        `json:"contractor_id,omitempty"`
	Budget       float64   `json:"budget,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CreateJobRequest struct {
	Title       string  `json:"title"                 validate:"required"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	PropertyID  ID      `json:"property_id"           validate:"required"`
	Budget      float64 `json:"budget,omitempty"      validate:"gte=0"`
}

type LineItem struct {
	ID          ID      `json:"id,omitempty"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

type Estimate struct {
	ID           ID         `json:"id"                    validate:"required"`
	JobID        ID         `json:"job_id"`
	ContractorID ID         `json:"contractor_id,omitempty"`
	Status       string     `json:"status"`
	LineItems    []LineItem `json:"line_items"`
	Total        float64    `json:"total"`
	Notes        string     `json:"notes,omitempty"`
	ValidUntil   string     `json:"valid_until,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// LineItemsTotal sums quantity × unit price over the line items.
func (e Estimate) LineItemsTotal() float64 {
	var sum float64
	for _, li := range e.LineItems {
		sum += li.Quantity * li.UnitPrice
	}
	return sum
}

type LineItemInput struct {
	Description string  `json:"description" validate:"required"`
	Quantity    float64 `json:"quantity"    validate:"gt=0"`
	UnitPrice   float64 `json:"unit_price"  validate:"gte=0"`
}

type EstimateRequest struct {
	LineItems  []LineItemInput `json:"line_items"            validate:"required,min=1,dive"`
	Notes      string          `json:"notes,omitempty"`
	ValidUntil string          `json:"valid_until,omitempty"`
}

type RejectEstimateRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type Photo struct {
	ID         ID        `json:"id"                validate:"required"`
	URL        string    `json:"url"`
	Caption    string    `json:"caption,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type SiteVisit struct {
	ID           ID        `json:"id"                      validate:"required"`
	JobID        ID        `json:"job_id"`
	ContractorID ID        `json:"contractor_id,omitempty"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	Status       string    `json:"status"`
	Notes        string    `json:"notes,omitempty"`
	Photos       []Photo   `json:"photos,omitempty"`
}

type ScheduleSiteVisitRequest struct {
	JobID       ID        `json:"job_id"          validate:"required"`
	ScheduledAt time.Time `json:"scheduled_at"    validate:"required"`
	Notes       string    `json:"notes,omitempty"`
}
