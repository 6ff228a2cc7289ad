package domain

import "time"

// Compliance record statuses.
const (
	CompliancePending  = "pending"
	ComplianceVerified = "verified"
	ComplianceExpired  = "expired"
	ComplianceRejected = "rejected"
)

// Dispute statuses.
const (
	DisputeOpen        = "open"
	DisputeUnderReview = "under_review"
	DisputeResolved    = "resolved"
)

type ComplianceRecord struct {
	ID           ID     `json:"id"                 validate:"required"`
	ContractorID ID     `json:"contractor_id"`
	DocumentType string `json:"document_type"`
	Status       string `json:"status"`
	ExpiresAt    string `json:"expires_at,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

type ComplianceUpdate struct {
	Status string `json:"status"          validate:"required,oneof=pending verified expired rejected"`
	Notes  string `json:"notes,omitempty"`
}

type Dispute struct {
	ID         ID        `json:"id"                   validate:"required"`
	JobID      ID        `json:"job_id"`
	RaisedBy   ID        `json:"raised_by,omitempty"`
	Reason     string    `json:"reason"`
	Status     string    `json:"status"`
	Resolution string    `json:"resolution,omitempty"`
	Amount     float64   `json:"amount,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type OpenDisputeRequest struct {
	JobID  ID      `json:"job_id"           validate:"required"`
	Reason string  `json:"reason"           validate:"required"`
	Amount float64 `json:"amount,omitempty" validate:"gte=0"`
}

type ResolveDisputeRequest struct {
	Resolution   string  `json:"resolution"              validate:"required"`
	RefundAmount float64 `json:"refund_amount,omitempty" validate:"gte=0"`
}

type PlatformMetrics struct {
	Period         string  `json:"period,omitempty"`
	ActiveJobs     int     `json:"active_jobs"`
	OpenDisputes   int     `json:"open_disputes"`
	PendingPayouts int     `json:"pending_payouts"`
	GrossVolume    float64 `json:"gross_volume"`
	NewUsers       int     `json:"new_users"`
}
