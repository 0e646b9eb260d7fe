package domain

// Role is the access level of a FaceFind user.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
)

// ParseRole normalizes the role flag returned by the backend.
func ParseRole(raw string) Role {
	switch raw {
	case "admin", "ADMIN", "administrador", "Administrador":
		return RoleAdmin
	default:
		return RoleOperator
	}
}

// User is a FaceFind account.
type User struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Active bool   `json:"active"`
}
