// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// Identity is the authenticated principal issued by the identity provider.
// It carries only what the provider knows; the application-owned profile
// lives in UserProfile, keyed by the identity id.
type Identity struct {
	UID         string // Unique id assigned by the identity provider.
	Email       string // Login email address.
	DisplayName string // Optional display name, set once at registration.
}

// UserProfile is the application-owned document keyed by the identity id.
// It is a tagged variant over the account role: exactly one of Company or
// Permissions is non-nil, decided by Role at creation time. Role never
// changes after creation.
type UserProfile struct {
	UID         string
	Email       string
	DisplayName string
	Role        Role
	Company     *CompanyProfile   // Populated only when Role == RoleCompany.
	Permissions *AdminPermissions // Populated only when Role == RoleAdmin.
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CompanyProfile holds the business fields collected on company registration.
type CompanyProfile struct {
	CompanyName               string
	CUI                       string // Fiscal identification code (tax id).
	RegistrationNumber        string
	SocialAddress             string
	DeliveryAddress           string
	ContactName               string
	ContactPosition           string
	PhoneNumber               string
	IBAN                      string
	Bank                      string
	VATPayer                  bool
	CollaborationType         string
	OtherCollaborationDetails string
	PreferredChannel          string
	PreferredLanguage         string
	TermsAccepted             bool
	GDPRAccepted              bool
}

// AdminPermissions holds the permission flags of a back-office account.
type AdminPermissions struct {
	CanView        bool
	CanEdit        bool
	CanDelete      bool
	CanManageUsers bool
}

// Consistent reports whether the profile satisfies the variant invariant:
// the populated side matches the role and the other side is absent.
func (p *UserProfile) Consistent() bool {
	switch p.Role {
	case RoleCompany:
		return p.Company != nil && p.Permissions == nil
	case RoleAdmin:
		return p.Permissions != nil && p.Company == nil
	default:
		return false
	}
}
