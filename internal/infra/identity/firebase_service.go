// Package identity adapts Firebase Authentication to the domain's
// IdentityService contract. Account management goes through the Admin SDK;
// password sign-in goes through the Identity Toolkit REST endpoint because
// the Admin SDK does not verify passwords.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"storefront/config"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/option"
)

const signInEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// requestTimeout bounds every identity provider round-trip so a caller is
// never left waiting indefinitely; a timeout surfaces as ErrUnavailable.
const requestTimeout = 10 * time.Second

type firebaseService struct {
	authClient  *auth.Client
	webAPIKey   string
	httpClient  *http.Client
	logger      *slog.Logger
	broadcaster *sessionBroadcaster
}

// ServiceParams holds dependencies for the Firebase identity service.
type ServiceParams struct {
	fx.In
	fx.Lifecycle

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewFirebaseService creates the identity collaborator backed by Firebase
// Authentication. On start it emits the initial session resolution (no
// identity) so session state can flip to ready.
func NewFirebaseService(params ServiceParams) (service.IdentityService, error) {
	cfg := params.Config.Firebase
	if cfg == nil {
		return nil, errors.New("firebase configuration is required")
	}

	opt := option.WithCredentialsFile(cfg.CredentialsPath)
	app, err := firebase.NewApp(params.Ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize Firebase app")
	}

	authClient, err := app.Auth(params.Ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get auth client")
	}

	svc := &firebaseService{
		authClient:  authClient,
		webAPIKey:   cfg.WebAPIKey,
		httpClient:  &http.Client{Timeout: requestTimeout},
		logger:      params.Logger,
		broadcaster: newSessionBroadcaster(),
	}

	params.Append(fx.Hook{
		OnStart: func(context.Context) error {
			// Initial resolution: nobody is signed in when the process
			// starts. This is what flips session state to ready.
			svc.broadcaster.broadcast(nil)

			return nil
		},
	})

	return svc, nil
}

// Register creates a new identity for the email/password pair.
func (s *firebaseService) Register(ctx context.Context, email, password string) (*entity.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	params := (&auth.UserToCreate{}).Email(email).Password(password)

	record, err := s.authClient.CreateUser(ctx, params)
	if err != nil {
		return nil, mapRegisterError(err)
	}

	identity := &entity.Identity{
		UID:   record.UID,
		Email: record.Email,
	}

	s.logger.Info("Registered new identity", slog.String("uid", identity.UID))
	s.broadcaster.broadcast(identity)

	return identity, nil
}

// SetDisplayName sets the identity's display name once, after registration.
func (s *firebaseService) SetDisplayName(ctx context.Context, uid, displayName string) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	update := (&auth.UserToUpdate{}).DisplayName(displayName)
	if _, err := s.authClient.UpdateUser(ctx, uid, update); err != nil {
		return errors.Wrap(mapAvailabilityError(err), "failed to update display name")
	}

	return nil
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID     string `json:"localId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	IDToken     string `json:"idToken"`
}

type signInErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SignIn authenticates the email/password pair through the Identity
// Toolkit endpoint and resolves a session on success. The returned token
// is the provider-issued ID token.
func (s *firebaseService) SignIn(ctx context.Context, email, password string) (*entity.Identity, string, error) {
	body, err := json.Marshal(signInRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to encode sign-in request")
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, signInEndpoint+"?key="+s.webAPIKey, bytes.NewReader(body))
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to build sign-in request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, "", errors.Wrap(domainerrors.ErrUnavailable, "identity provider unreachable")
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", errors.Wrap(domainerrors.ErrUnavailable, "failed to read sign-in response")
	}

	if resp.StatusCode != http.StatusOK {
		var errResp signInErrorResponse
		if err := json.Unmarshal(payload, &errResp); err != nil {
			return nil, "", errors.Wrap(domainerrors.ErrUnavailable, "unreadable sign-in error response")
		}

		s.logger.Warn("Sign-in rejected", slog.String("email", email), slog.String("code", errResp.Error.Message))

		return nil, "", mapSignInError(errResp.Error.Message)
	}

	var ok signInResponse
	if err := json.Unmarshal(payload, &ok); err != nil {
		return nil, "", errors.Wrap(domainerrors.ErrUnavailable, "unreadable sign-in response")
	}

	identity := &entity.Identity{
		UID:         ok.LocalID,
		Email:       ok.Email,
		DisplayName: ok.DisplayName,
	}

	s.logger.Debug("Signed in", slog.String("uid", identity.UID))
	s.broadcaster.broadcast(identity)

	return identity, ok.IDToken, nil
}

// SignOut revokes the identity's refresh tokens and resolves an empty
// session. Revoking twice is harmless, which keeps the operation idempotent.
func (s *firebaseService) SignOut(ctx context.Context, uid string) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	if uid != "" {
		if err := s.authClient.RevokeRefreshTokens(ctx, uid); err != nil && !auth.IsUserNotFound(err) {
			return errors.Wrap(mapAvailabilityError(err), "failed to revoke sessions")
		}
	}

	s.broadcaster.broadcast(nil)

	return nil
}

// VerifyToken validates an ID token issued by Firebase and returns the
// identity it belongs to.
func (s *firebaseService) VerifyToken(ctx context.Context, token string) (*entity.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	decoded, err := s.authClient.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "invalid or expired token")
	}

	identity := &entity.Identity{UID: decoded.UID}
	if email, ok := decoded.Claims["email"].(string); ok {
		identity.Email = email
	}
	if name, ok := decoded.Claims["name"].(string); ok {
		identity.DisplayName = name
	}

	return identity, nil
}

// SubscribeSessionChanges registers a session observer.
func (s *firebaseService) SubscribeSessionChanges(fn func(*entity.Identity)) service.UnsubscribeFunc {
	return s.broadcaster.subscribe(fn)
}

// mapRegisterError classifies Admin SDK account-creation failures.
func mapRegisterError(err error) error {
	switch {
	case auth.IsEmailAlreadyExists(err):
		return errors.Wrap(domainerrors.ErrEmailAlreadyExists, "registration rejected")
	case strings.Contains(err.Error(), "password"):
		return errors.Wrap(domainerrors.ErrWeakCredential, "registration rejected")
	case strings.Contains(err.Error(), "email"):
		return errors.Wrap(domainerrors.ErrInvalidInput, "malformed email")
	default:
		return errors.Wrap(mapAvailabilityError(err), "failed to create identity")
	}
}

// mapSignInError classifies Identity Toolkit sign-in rejection codes.
// Codes may carry a suffix ("TOO_MANY_ATTEMPTS_TRY_LATER : ..."), so only
// the prefix is matched.
func mapSignInError(code string) error {
	switch {
	case strings.HasPrefix(code, "EMAIL_NOT_FOUND"):
		return errors.Wrap(domainerrors.ErrNotFound, "no account for this email")
	case strings.HasPrefix(code, "INVALID_PASSWORD"), strings.HasPrefix(code, "INVALID_LOGIN_CREDENTIALS"):
		return errors.Wrap(domainerrors.ErrInvalidCredentials, "sign-in rejected")
	case strings.HasPrefix(code, "TOO_MANY_ATTEMPTS_TRY_LATER"):
		return errors.Wrap(domainerrors.ErrRateLimited, "sign-in throttled")
	case strings.HasPrefix(code, "USER_DISABLED"):
		return errors.Wrap(domainerrors.ErrForbidden, "account disabled")
	default:
		return errors.Wrapf(domainerrors.ErrUnavailable, "unexpected sign-in code %s", code)
	}
}

// mapAvailabilityError turns transport-level failures into the
// availability error kind; anything else passes through untouched.
func mapAvailabilityError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domainerrors.ErrUnavailable
	}

	return err
}
