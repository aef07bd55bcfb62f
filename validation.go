package authapi

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
)

// Password policy: minimum length 6, at least one lowercase and one
// uppercase letter. Non-alphanumeric characters are allowed but not
// required.
var (
	hasLowercase = regexp.MustCompile(`[a-z]`)
	hasUppercase = regexp.MustCompile(`[A-Z]`)
)

// PasswordRules returns the reusable ozzo rule set for passwords
func PasswordRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.Length(6, 100),
		validation.Match(hasLowercase).Error("must contain at least one lowercase letter"),
		validation.Match(hasUppercase).Error("must contain at least one uppercase letter"),
	}
}

// RegisterPayload carries the registration input
type RegisterPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(3, 100), is.Email),
		validation.Field(&r.Password, PasswordRules()...),
	)
}

// LoginPayload carries the login input
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// CreateRolePayload carries the role creation input
type CreateRolePayload struct {
	Name string `json:"name"`
}

// Validate will run validation rules
func (r CreateRolePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
	)
}

// wrapValidationError converts ozzo field errors into a categorized error
// carrying the per-field reasons as metadata.
func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}

	rich := goerrors.Wrap(err, goerrors.CategoryValidation, "invalid input")

	if fieldErrs, ok := err.(validation.Errors); ok {
		fields := make(map[string]any, len(fieldErrs))
		for field, ferr := range fieldErrs {
			fields[field] = ferr.Error()
		}
		rich = rich.WithMetadata(fields)
	}

	return rich
}
