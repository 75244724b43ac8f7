// Package validator plugs go-playground validation into echo's binder.
package validator

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator validates bound request payloads against their
// `validate` tags.
type RequestValidator struct {
	validate *validator.Validate
}

// New creates the request validator echo uses for every Bind-and-Validate.
func New() *RequestValidator {
	return &RequestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate implements echo.Validator. Failures surface as 400s with the
// validation detail.
func (v *RequestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return nil
}
