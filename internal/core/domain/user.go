package domain

import "time"

// Portal roles. Each role sees its own workspace and dashboard.
const (
	RoleAdmin           = "admin"
	RoleContractor      = "contractor"
	RoleCustomer        = "customer"
	RoleInvestor        = "investor"
	RoleFacilityManager = "facility_manager"
)

// Roles lists every role the portal knows about.
var Roles = []string{RoleAdmin, RoleContractor, RoleCustomer, RoleInvestor, RoleFacilityManager}

// ValidRole reports whether role is one of Roles.
func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// User models the authenticated account as returned by the backend.
type User struct {
	ID        ID        `json:"id"                   validate:"required"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// FullName joins first and last name, falling back to the email.
func (u User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Email
	}
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"  validate:"required"`
	Role      string `json:"role"       validate:"required,oneof=admin contractor customer investor facility_manager"`
	Company   string `json:"company,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// AuthResponse is the login/register payload. Backends answer with either
// "access" or the older "token" field.
type AuthResponse struct {
	Access  string `json:"access,omitempty"`
	Token   string `json:"token,omitempty"`
	Refresh string `json:"refresh,omitempty"`
	User    *User  `json:"user,omitempty"`
}

// AccessToken returns whichever token field the backend populated.
func (r AuthResponse) AccessToken() string {
	if r.Access != "" {
		return r.Access
	}
	return r.Token
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type RefreshResponse struct {
	Access  string `json:"access"            validate:"required"`
	Refresh string `json:"refresh,omitempty"`
}

// ProfileUpdate carries the editable profile fields; empty fields are not sent.
type ProfileUpdate struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Company   string `json:"company,omitempty"`
}
