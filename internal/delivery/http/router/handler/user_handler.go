// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/delivery/http/response"
	"storefront/internal/domain/entity"
	"storefront/internal/infra/persistence/model"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// RegisterCompanyRequest is the company registration payload: credentials
// plus the full company form.
type RegisterCompanyRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	DisplayName string `json:"displayName" validate:"required"`

	CompanyName               string `json:"companyName" validate:"required"`
	CUI                       string `json:"cui" validate:"required"`
	RegistrationNumber        string `json:"registrationNumber"`
	SocialAddress             string `json:"socialAddress"`
	DeliveryAddress           string `json:"deliveryAddress"`
	ContactName               string `json:"contactName"`
	ContactPosition           string `json:"contactPosition"`
	PhoneNumber               string `json:"phoneNumber"`
	IBAN                      string `json:"iban"`
	Bank                      string `json:"bank"`
	VATPayer                  bool   `json:"vatPayer"`
	CollaborationType         string `json:"collaborationType"`
	OtherCollaborationDetails string `json:"otherCollaborationDetails"`
	PreferredChannel          string `json:"preferredChannel"`
	PreferredLanguage         string `json:"preferredLanguage"`

	// Both consents are hard requirements for company accounts.
	TermsAccepted bool `json:"termsAccepted" validate:"required"`
	GDPRAccepted  bool `json:"gdprAccepted" validate:"required"`
}

// RegisterAdminRequest is the back-office registration payload.
type RegisterAdminRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	DisplayName string `json:"displayName" validate:"required"`

	Permissions struct {
		CanView        bool `json:"canView"`
		CanEdit        bool `json:"canEdit"`
		CanDelete      bool `json:"canDelete"`
		CanManageUsers bool `json:"canManageUsers"`
	} `json:"permissions"`
}

// LoginRequest is the credential payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserHandler holds dependencies for account and session handlers.
type UserHandler struct {
	uc     usecase.SessionUsecase
	logger *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(uc usecase.SessionUsecase, logger *slog.Logger) *UserHandler {
	return &UserHandler{uc: uc, logger: logger}
}

// RegisterCompany handles the company registration request.
func (h *UserHandler) RegisterCompany(c echo.Context) error {
	var req RegisterCompanyRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	profile, err := h.uc.RegisterCompany(c.Request().Context(), &usecase.RegisterCompanyInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Company: entity.CompanyProfile{
			CompanyName:               req.CompanyName,
			CUI:                       req.CUI,
			RegistrationNumber:        req.RegistrationNumber,
			SocialAddress:             req.SocialAddress,
			DeliveryAddress:           req.DeliveryAddress,
			ContactName:               req.ContactName,
			ContactPosition:           req.ContactPosition,
			PhoneNumber:               req.PhoneNumber,
			IBAN:                      req.IBAN,
			Bank:                      req.Bank,
			VATPayer:                  req.VATPayer,
			CollaborationType:         req.CollaborationType,
			OtherCollaborationDetails: req.OtherCollaborationDetails,
			PreferredChannel:          req.PreferredChannel,
			PreferredLanguage:         req.PreferredLanguage,
			TermsAccepted:             req.TermsAccepted,
			GDPRAccepted:              req.GDPRAccepted,
		},
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, model.UserFromEntity(profile), "Company registered successfully")
}

// RegisterAdmin handles the back-office registration request.
func (h *UserHandler) RegisterAdmin(c echo.Context) error {
	var req RegisterAdminRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	profile, err := h.uc.RegisterAdmin(c.Request().Context(), &usecase.RegisterAdminInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Permissions: entity.AdminPermissions{
			CanView:        req.Permissions.CanView,
			CanEdit:        req.Permissions.CanEdit,
			CanDelete:      req.Permissions.CanDelete,
			CanManageUsers: req.Permissions.CanManageUsers,
		},
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, model.UserFromEntity(profile), "Admin registered successfully")
}

// Login handles the credential check.
func (h *UserHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	out, err := h.uc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return errors.WithStack(err)
	}

	data := map[string]any{"token": out.Token}
	if out.Profile != nil {
		data["profile"] = model.UserFromEntity(out.Profile)
	}

	return response.Success(c, http.StatusOK, data, "Login successful")
}

// Logout ends the caller's session.
func (h *UserHandler) Logout(c echo.Context) error {
	identity := deliverycontext.GetIdentity(c)
	if identity == nil {
		return response.Unauthorized(c, "UNAUTHENTICATED", "No authenticated identity")
	}

	if err := h.uc.Logout(c.Request().Context(), identity.UID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Logout successful")
}

// GetProfile returns the caller's profile document. A missing document is a
// successful response with null data, not an error.
func (h *UserHandler) GetProfile(c echo.Context) error {
	identity := deliverycontext.GetIdentity(c)
	if identity == nil {
		return response.Unauthorized(c, "UNAUTHENTICATED", "No authenticated identity")
	}

	profile, err := h.uc.FetchProfile(c.Request().Context(), identity.UID)
	if err != nil {
		return errors.WithStack(err)
	}
	if profile == nil {
		return response.Success(c, http.StatusOK, nil, "No profile yet")
	}

	return response.Success(c, http.StatusOK, model.UserFromEntity(profile), "")
}

// UpdateProfile merge-patches the caller's profile document.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	identity := deliverycontext.GetIdentity(c)
	if identity == nil {
		return response.Unauthorized(c, "UNAUTHENTICATED", "No authenticated identity")
	}

	var patch map[string]any
	if err := c.Bind(&patch); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile patch")
	}

	if err := h.uc.UpdateProfile(c.Request().Context(), identity.UID, patch); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Profile updated")
}

// ListCompanies returns every company account for the back office. The
// usecase enforces the admin view permission.
func (h *UserHandler) ListCompanies(c echo.Context) error {
	identity := deliverycontext.GetIdentity(c)
	if identity == nil {
		return response.Unauthorized(c, "UNAUTHENTICATED", "No authenticated identity")
	}

	companies, err := h.uc.ListCompanies(c.Request().Context(), identity.UID)
	if err != nil {
		return errors.WithStack(err)
	}

	data := make([]*model.UserModel, 0, len(companies))
	for _, company := range companies {
		data = append(data, model.UserFromEntity(company))
	}

	return response.Success(c, http.StatusOK, data, "")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
