package auth

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// RegisterPayload is the registration request.
// Whether password and confirmation match is checked by the registry, after
// email uniqueness, so it is not a payload rule.
type RegisterPayload struct {
	Email           string `json:"email" yaml:"email"`
	DisplayName     string `json:"display_name" yaml:"display_name"`
	Password        string `json:"password" yaml:"password"`
	PasswordConfirm string `json:"password_confirm" yaml:"password_confirm"`
}

// Validate will validate the payload
func (r RegisterPayload) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&r.DisplayName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.PasswordConfirm, validation.Required),
	)
}

// LoginPayload is the login request
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will validate the payload
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// ProfilePayload is a partial profile update. Nil fields are left as they are.
type ProfilePayload struct {
	DisplayName *string `json:"display_name,omitempty"`
	Email       *string `json:"email,omitempty"`
	NewPassword *string `json:"new_password,omitempty"`
}

// Validate will validate the payload
func (r ProfilePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DisplayName, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.NilOrNotEmpty, validation.Length(3, 254), is.Email),
		validation.Field(&r.NewPassword, validation.NilOrNotEmpty),
	)
}

// Update converts the payload into a registry update
func (r ProfilePayload) Update() ProfileUpdate {
	return ProfileUpdate{
		DisplayName: r.DisplayName,
		Email:       r.Email,
		NewPassword: r.NewPassword,
	}
}

// PermissionPayload names a grant by its raw parts
type PermissionPayload struct {
	Role     string `json:"role"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

// Validate only checks presence. Membership in the domain is the engine's
// call so that it reports ErrInvalidGrantDomain.
func (r PermissionPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Role, validation.Required),
		validation.Field(&r.Resource, validation.Required),
		validation.Field(&r.Action, validation.Required),
	)
}

// Grant parses the payload against domain
func (r PermissionPayload) Grant(domain Domain) (Grant, error) {
	return domain.ParseGrant(r.Role, r.Resource, r.Action)
}
