package impl

import (
	"context"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/infra/persistence/memory"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionFixture struct {
	identity *fakeIdentity
	store    *memory.Store
	state    *SessionState
	service  usecase.SessionUsecase
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()

	identity := newFakeIdentity()
	store := memory.NewStore()
	state := &SessionState{}

	return &sessionFixture{
		identity: identity,
		store:    store,
		state:    state,
		service:  NewSessionService(identity, store.Users(), state, testLogger()),
	}
}

func companyInput() *usecase.RegisterCompanyInput {
	return &usecase.RegisterCompanyInput{
		Email:       "firm@example.com",
		Password:    "s3cret-pass",
		DisplayName: "Example SRL",
		Company: entity.CompanyProfile{
			CompanyName:   "Example SRL",
			CUI:           "RO123456",
			TermsAccepted: true,
			GDPRAccepted:  true,
		},
	}
}

func TestRegisterCompany_WritesIdentityThenProfile(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	profile, err := f.service.RegisterCompany(ctx, companyInput())
	require.NoError(t, err)

	assert.Equal(t, "uid-1", profile.UID)
	assert.Equal(t, entity.RoleCompany, profile.Role)
	assert.True(t, profile.Consistent())
	assert.Equal(t, "Example SRL", f.identity.names["uid-1"])

	stored, err := f.store.Users().FindByUID(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "RO123456", stored.Company.CUI)
}

func TestRegisterAdmin_CarriesPermissions(t *testing.T) {
	f := newSessionFixture(t)

	profile, err := f.service.RegisterAdmin(context.Background(), &usecase.RegisterAdminInput{
		Email:       "back@example.com",
		Password:    "s3cret-pass",
		DisplayName: "Back Office",
		Permissions: entity.AdminPermissions{CanView: true, CanEdit: true},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.RoleAdmin, profile.Role)
	require.NotNil(t, profile.Permissions)
	assert.True(t, profile.Permissions.CanEdit)
	assert.False(t, profile.Permissions.CanManageUsers)
}

func TestRegister_IdentityFailureWritesNoProfile(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	f.identity.registerErr = domainerrors.ErrEmailAlreadyExists

	_, err := f.service.RegisterCompany(ctx, companyInput())
	assert.ErrorIs(t, err, domainerrors.ErrEmailAlreadyExists)
	assert.ErrorIs(t, f.state.LastFailure(), domainerrors.ErrEmailAlreadyExists)

	_, err = f.store.Users().FindByUID(ctx, "uid-1")
	assert.Error(t, err, "no profile document after a failed identity create")
}

func TestLogin_ReturnsProfileAndToken(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	_, err := f.service.RegisterCompany(ctx, companyInput())
	require.NoError(t, err)

	out, err := f.service.Login(ctx, "firm@example.com", "s3cret-pass")
	require.NoError(t, err)

	assert.Equal(t, "token-uid-1", out.Token)
	require.NotNil(t, out.Profile)
	assert.Equal(t, entity.RoleCompany, out.Profile.Role)
}

func TestLogin_MissingProfileIsNotAnError(t *testing.T) {
	f := newSessionFixture(t)

	// Identity exists but the profile write never happened.
	f.identity.accounts["firm@example.com"] = "s3cret-pass"

	out, err := f.service.Login(context.Background(), "firm@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Nil(t, out.Profile)
	assert.NotEmpty(t, out.Token)
}

func TestLogin_FailureIsRecorded(t *testing.T) {
	f := newSessionFixture(t)

	f.identity.signInErr = domainerrors.ErrInvalidCredentials

	_, err := f.service.Login(context.Background(), "firm@example.com", "wrong")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	assert.ErrorIs(t, f.state.LastFailure(), domainerrors.ErrInvalidCredentials)
}

func TestLogout_Idempotent(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.Logout(ctx, "uid-1"))
	require.NoError(t, f.service.Logout(ctx, "uid-1"))
	assert.Len(t, f.identity.signedOut, 2)
}

func TestUpdateProfile_RequiresIdentity(t *testing.T) {
	f := newSessionFixture(t)

	err := f.service.UpdateProfile(context.Background(), "", map[string]any{"displayName": "X"})
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
}

func TestUpdateProfile_RejectsImmutableFields(t *testing.T) {
	f := newSessionFixture(t)

	err := f.service.UpdateProfile(context.Background(), "uid-1", map[string]any{"role": "admin"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestUpdateProfile_MergesFields(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	_, err := f.service.RegisterCompany(ctx, companyInput())
	require.NoError(t, err)

	require.NoError(t, f.service.UpdateProfile(ctx, "uid-1", map[string]any{"displayName": "Renamed"}))

	stored, err := f.store.Users().FindByUID(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.DisplayName)
	assert.Equal(t, "firm@example.com", stored.Email)
}

func TestListCompanies_ReturnsCompanyAccounts(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	_, err := f.service.RegisterAdmin(ctx, &usecase.RegisterAdminInput{
		Email:       "back@example.com",
		Password:    "s3cret-pass",
		DisplayName: "Back Office",
		Permissions: entity.AdminPermissions{CanView: true},
	})
	require.NoError(t, err)

	f.identity.nextUID = "uid-2"
	_, err = f.service.RegisterCompany(ctx, companyInput())
	require.NoError(t, err)

	companies, err := f.service.ListCompanies(ctx, "uid-1")
	require.NoError(t, err)
	require.Len(t, companies, 1, "admin accounts stay out of the company list")
	assert.Equal(t, "uid-2", companies[0].UID)
	assert.Equal(t, "RO123456", companies[0].Company.CUI)
}

func TestListCompanies_ForbiddenForCompanyCaller(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	_, err := f.service.RegisterCompany(ctx, companyInput())
	require.NoError(t, err)

	_, err = f.service.ListCompanies(ctx, "uid-1")
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestListCompanies_RequiresViewPermission(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	_, err := f.service.RegisterAdmin(ctx, &usecase.RegisterAdminInput{
		Email:       "back@example.com",
		Password:    "s3cret-pass",
		DisplayName: "Back Office",
		Permissions: entity.AdminPermissions{CanEdit: true},
	})
	require.NoError(t, err)

	_, err = f.service.ListCompanies(ctx, "uid-1")
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestListCompanies_ForbiddenWithoutProfile(t *testing.T) {
	f := newSessionFixture(t)

	_, err := f.service.ListCompanies(context.Background(), "ghost")
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestFetchProfile_AbsentIsNilNil(t *testing.T) {
	f := newSessionFixture(t)

	profile, err := f.service.FetchProfile(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, profile)
}
