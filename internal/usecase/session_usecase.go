// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// RegisterCompanyInput carries everything collected on the company
// registration form.
type RegisterCompanyInput struct {
	Email       string
	Password    string
	DisplayName string
	Company     entity.CompanyProfile
}

// RegisterAdminInput carries the back-office registration payload.
type RegisterAdminInput struct {
	Email       string
	Password    string
	DisplayName string
	Permissions entity.AdminPermissions
}

// LoginOutput is the result of a successful credential check: the resolved
// profile plus the provider-issued bearer token.
type LoginOutput struct {
	Profile *entity.UserProfile
	Token   string
}

// SessionUsecase defines the interface for account and session operations.
type SessionUsecase interface {
	// RegisterCompany creates a company account: identity first, then the
	// profile document. The two writes are not transactional; an identity
	// without a profile can exist after a crash in between.
	RegisterCompany(ctx context.Context, input *RegisterCompanyInput) (*entity.UserProfile, error)

	// RegisterAdmin creates a back-office account the same way.
	RegisterAdmin(ctx context.Context, input *RegisterAdminInput) (*entity.UserProfile, error)

	// Login checks the credential pair and returns the profile with a
	// bearer token. A missing profile document yields a nil Profile, not
	// an error.
	Login(ctx context.Context, email, password string) (*LoginOutput, error)

	// Logout ends the identity's session. Idempotent.
	Logout(ctx context.Context, uid string) error

	// UpdateProfile merge-patches the caller's own profile document.
	UpdateProfile(ctx context.Context, uid string, patch map[string]any) error

	// FetchProfile reads a profile document. An absent document returns
	// (nil, nil) so callers can distinguish "no profile yet" from failure.
	FetchProfile(ctx context.Context, uid string) (*entity.UserProfile, error)

	// ListCompanies returns every company account for the back office.
	// The caller must be an admin with the view permission; anyone else
	// gets ErrForbidden.
	ListCompanies(ctx context.Context, uid string) ([]*entity.UserProfile, error)
}
