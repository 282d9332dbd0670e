package backend

import (
	"time"

	"github.com/staffdesk/staffdesk/internal/identity"
)

// Employee is the backend employee record as returned by GET /employees/:id
// and POST /auth/login. Only the fields the portal consumes are mapped.
type Employee struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
	Active       bool     `json:"active"`
	ProfileImage string   `json:"profileImage"`
	Salary       float64  `json:"salary"`
}

// Identity maps the backend record onto the portal identity model.
// Unknown roles and permissions degrade silently; the evaluator denies them.
func (e *Employee) Identity() *identity.Identity {
	return &identity.Identity{
		ID:           e.ID,
		Name:         e.Name,
		Email:        e.Email,
		Role:         identity.ParseRole(e.Role),
		Permissions:  identity.ParsePermissions(e.Permissions),
		Active:       e.Active,
		ProfileImage: e.ProfileImage,
		Salary:       e.Salary,
	}
}

// Notification is a server-origin notification record.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Category  string    `json:"category"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// PermissionsUpdate is the body of PUT /employees/:id/permissions.
type PermissionsUpdate struct {
	Permissions []string `json:"permissions"`
	Role        string   `json:"role"`
	Active      bool     `json:"active"`
}
