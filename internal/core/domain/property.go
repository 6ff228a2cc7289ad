package domain

// Work order priorities.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

type Property struct {
	ID        ID     `json:"id"                   validate:"required"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	ZipCode   string `json:"zip_code,omitempty"`
	Units     int    `json:"units,omitempty"`
	OwnerID   ID     `json:"owner_id,omitempty"`
	ManagerID ID     `json:"manager_id,omitempty"`
}

type WorkOrder struct {
	ID         ID     `json:"id"                    validate:"required"`
	PropertyID ID     `json:"property_id"`
	JobID      ID     `json:"job_id,omitempty"`
	Title      string `json:"title"`
	Priority   string `json:"priority"`
	Status     string `json:"status"`
	DueDate    string `json:"due_date,omitempty"`
	AssignedTo ID     `json:"assigned_to,omitempty"`
}

type WorkOrderUpdate struct {
	Status     string `json:"status,omitempty"      validate:"omitempty,oneof=open in_progress completed cancelled"`
	Priority   string `json:"priority,omitempty"    validate:"omitempty,oneof=low normal high urgent"`
	AssignedTo ID     `json:"assigned_to,omitempty"`
	DueDate    string `json:"due_date,omitempty"`
}
