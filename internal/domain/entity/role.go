package entity

// Role identifies which profile variant an account carries.
type Role string

const (
	// RoleCompany is a registered client company that orders products.
	RoleCompany Role = "company"

	// RoleAdmin is a back-office account with permission flags.
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	return r == RoleCompany || r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}
