package impl

import (
	"context"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
)

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	identity service.IdentityService
	users    repository.UserProfileRepository
	state    *SessionState
	logger   *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(
	identity service.IdentityService,
	users repository.UserProfileRepository,
	state *SessionState,
	logger *slog.Logger,
) usecase.SessionUsecase {
	return &sessionService{
		identity: identity,
		users:    users,
		state:    state,
		logger:   logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// fail records the workflow failure in session state and hands it back.
func (srv *sessionService) fail(err error) error {
	srv.state.RecordFailure(err)

	return err
}

// RegisterCompany creates a company account: identity first, then the
// profile document. The steps are not transactional; if the profile write
// fails the identity already exists and the caller retries registration of
// the profile through UpdateProfile.
func (srv *sessionService) RegisterCompany(ctx context.Context, input *usecase.RegisterCompanyInput) (*entity.UserProfile, error) {
	srv.log(ctx).Info("Registering company account", slog.String("email", input.Email))

	profile := &entity.UserProfile{
		Email:       input.Email,
		DisplayName: input.DisplayName,
		Role:        entity.RoleCompany,
		Company:     &input.Company,
	}

	if err := srv.register(ctx, profile, input.Password); err != nil {
		return nil, err
	}

	return profile, nil
}

// RegisterAdmin creates a back-office account the same way.
func (srv *sessionService) RegisterAdmin(ctx context.Context, input *usecase.RegisterAdminInput) (*entity.UserProfile, error) {
	srv.log(ctx).Info("Registering admin account", slog.String("email", input.Email))

	profile := &entity.UserProfile{
		Email:       input.Email,
		DisplayName: input.DisplayName,
		Role:        entity.RoleAdmin,
		Permissions: &input.Permissions,
	}

	if err := srv.register(ctx, profile, input.Password); err != nil {
		return nil, err
	}

	return profile, nil
}

func (srv *sessionService) register(ctx context.Context, profile *entity.UserProfile, password string) error {
	if !profile.Consistent() {
		return srv.fail(errors.Wrap(domainerrors.ErrInvalidInput, "profile does not match its role"))
	}

	// 1. Create the identity with the provider.
	identity, err := srv.identity.Register(ctx, profile.Email, password)
	if err != nil {
		srv.log(ctx).Error("Failed to create identity", slog.Any("error", err), slog.String("email", profile.Email))

		return srv.fail(err)
	}
	profile.UID = identity.UID

	// 2. Attach the display name, set once at registration.
	if profile.DisplayName != "" {
		if err := srv.identity.SetDisplayName(ctx, identity.UID, profile.DisplayName); err != nil {
			srv.log(ctx).Error("Failed to set display name", slog.Any("error", err), slog.String("uid", identity.UID))

			return srv.fail(errors.Wrap(err, "failed to set display name"))
		}
	}

	// 3. Write the application-owned profile document.
	if err := srv.users.Create(ctx, profile); err != nil {
		srv.log(ctx).Error("Failed to write profile", slog.Any("error", err), slog.String("uid", identity.UID))

		return srv.fail(errors.Wrap(err, "failed to write profile"))
	}

	srv.log(ctx).Info("Account registered", slog.String("uid", identity.UID), slog.String("role", profile.Role.String()))

	return nil
}

// Login checks the credential pair against the provider and loads the
// profile document. A user with an identity but no profile yet gets a nil
// profile, not an error.
func (srv *sessionService) Login(ctx context.Context, email, password string) (*usecase.LoginOutput, error) {
	identity, token, err := srv.identity.SignIn(ctx, email, password)
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("email", email), slog.Any("error", err))

		return nil, srv.fail(err)
	}

	profile, err := srv.users.FindByUID(ctx, identity.UID)
	if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
		return nil, srv.fail(errors.Wrap(err, "failed to load profile"))
	}

	srv.log(ctx).Info("Logged in", slog.String("uid", identity.UID))

	return &usecase.LoginOutput{Profile: profile, Token: token}, nil
}

// Logout ends the session with the provider. Idempotent.
func (srv *sessionService) Logout(ctx context.Context, uid string) error {
	if err := srv.identity.SignOut(ctx, uid); err != nil {
		srv.log(ctx).Error("Logout failed", slog.Any("error", err), slog.String("uid", uid))

		return srv.fail(errors.Wrap(err, "failed to sign out"))
	}

	srv.log(ctx).Info("Logged out", slog.String("uid", uid))

	return nil
}

// UpdateProfile merge-patches the caller's own profile document. The
// identity key and role are immutable and rejected up front.
func (srv *sessionService) UpdateProfile(ctx context.Context, uid string, patch map[string]any) error {
	if uid == "" {
		return errors.Wrap(domainerrors.ErrUnauthenticated, "no authenticated identity")
	}
	if len(patch) == 0 {
		return errors.Wrap(domainerrors.ErrInvalidInput, "empty patch")
	}
	for _, immutable := range []string{"uid", "role", "createdAt"} {
		if _, present := patch[immutable]; present {
			return errors.Wrapf(domainerrors.ErrInvalidInput, "field %s is immutable", immutable)
		}
	}

	if err := srv.users.Merge(ctx, uid, patch); err != nil {
		srv.log(ctx).Error("Failed to patch profile", slog.Any("error", err), slog.String("uid", uid))

		return srv.fail(errors.Wrap(err, "failed to patch profile"))
	}

	srv.log(ctx).Info("Profile updated", slog.String("uid", uid), slog.Int("fields", len(patch)))

	return nil
}

// ListCompanies returns every company account. Only an admin holding the
// view permission may call it; a missing profile is no better than a
// company one.
func (srv *sessionService) ListCompanies(ctx context.Context, uid string) ([]*entity.UserProfile, error) {
	if uid == "" {
		return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "no authenticated identity")
	}

	caller, err := srv.users.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, errors.Wrap(domainerrors.ErrForbidden, "no profile for caller")
		}

		return nil, srv.fail(errors.Wrap(err, "failed to load caller profile"))
	}
	if caller.Role != entity.RoleAdmin || caller.Permissions == nil || !caller.Permissions.CanView {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "back-office view permission required")
	}

	companies, err := srv.users.FindByRole(ctx, entity.RoleCompany)
	if err != nil {
		return nil, srv.fail(errors.Wrap(err, "failed to list companies"))
	}

	srv.log(ctx).Info("Companies listed", slog.String("uid", uid), slog.Int("count", len(companies)))

	return companies, nil
}

// FetchProfile reads a profile document; an absent document is (nil, nil).
func (srv *sessionService) FetchProfile(ctx context.Context, uid string) (*entity.UserProfile, error) {
	profile, err := srv.users.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, nil
		}

		return nil, srv.fail(errors.Wrap(err, "failed to load profile"))
	}

	return profile, nil
}
