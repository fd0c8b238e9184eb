package middleware

// Role constants to avoid string typos
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// AccessContext is the resolved identity handed to every service call.
// Services never read ambient session state; this struct is the only
// carrier of who is acting and with which role.
type AccessContext struct {
	UserID string
	Role   string
}

// IsAdmin returns true for the admin role
func (ac AccessContext) IsAdmin() bool {
	return ac.Role == RoleAdmin
}
