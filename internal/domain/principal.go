package domain

type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleOwner    Role = "owner"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleStaff, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

// Principal is the acting user of a request. It is resolved by the caller
// and handed to services explicitly.
type Principal struct {
	UserID int64
	Role   Role
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// Is reports whether p acts as userID.
func (p Principal) Is(userID int64) bool { return p.UserID != 0 && p.UserID == userID }
