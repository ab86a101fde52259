package types

// AuthenticatedUser is the caller resolved by the auth middleware.
type AuthenticatedUser struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

func (u AuthenticatedUser) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u AuthenticatedUser) HasRole(roles ...string) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
