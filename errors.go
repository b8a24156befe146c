package auth

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCreds       = "INVALID_CREDENTIALS"
	TextCodeEmailTaken         = "EMAIL_TAKEN"
	TextCodePasswordMismatch   = "PASSWORD_MISMATCH"
	TextCodeUntrustedToken     = "UNTRUSTED_TOKEN"
	TextCodeTokenMalformed     = "TOKEN_MALFORMED"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeTokenWrongType     = "TOKEN_WRONG_TYPE"
	TextCodeInvalidTokenType   = "INVALID_TOKEN_TYPE"
	TextCodeInvalidSession     = "INVALID_SESSION"
	TextCodeForbidden          = "FORBIDDEN"
	TextCodeInvalidGrantDomain = "INVALID_GRANT_DOMAIN"
	TextCodeGrantNotFound      = "GRANT_NOT_FOUND"
	TextCodeUserNotFound       = "USER_NOT_FOUND"
	TextCodeInvalidInput       = "INVALID_INPUT"
	TextCodeEmptyPassword      = "EMPTY_PASSWORD"
)

// ErrInvalidCredentials covers unknown emails, deleted accounts and wrong
// passwords alike.
var ErrInvalidCredentials = goerrors.New("the credentials provided are invalid", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(goerrors.CodeUnauthorized)

// ErrEmailTaken is returned when an email is already held by any record
var ErrEmailTaken = goerrors.New("email already registered", goerrors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(goerrors.CodeBadRequest)

// ErrPasswordMismatch password and confirmation differ
var ErrPasswordMismatch = goerrors.New("passwords do not match", goerrors.CategoryValidation).
	WithTextCode(TextCodePasswordMismatch).
	WithCode(goerrors.CodeBadRequest)

// ErrUntrustedToken is the single externally visible outcome for malformed,
// expired or wrongly typed tokens.
var ErrUntrustedToken = goerrors.New("could not validate credentials", goerrors.CategoryAuth).
	WithTextCode(TextCodeUntrustedToken).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed bad signature or undecodable token
var ErrTokenMalformed = goerrors.New("could not validate credentials", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired token expiry has passed
var ErrTokenExpired = goerrors.New("could not validate credentials", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenWrongType token type does not match the consuming operation
var ErrTokenWrongType = goerrors.New("could not validate credentials", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenWrongType).
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidTokenType is returned when issuing a token of an unknown type
var ErrInvalidTokenType = goerrors.New("invalid token type", goerrors.CategoryInternal).
	WithTextCode(TextCodeInvalidTokenType).
	WithCode(goerrors.CodeInternal)

// ErrInvalidSession the token is valid but its identity can no longer be used
var ErrInvalidSession = goerrors.New("session is no longer valid", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidSession).
	WithCode(goerrors.CodeUnauthorized)

// ErrForbidden the principal role lacks the required grant
var ErrForbidden = goerrors.New("insufficient permissions", goerrors.CategoryAuthz).
	WithTextCode(TextCodeForbidden).
	WithCode(goerrors.CodeForbidden)

// ErrInvalidGrantDomain role, resource or action outside their enumerations
var ErrInvalidGrantDomain = goerrors.New("invalid role, resource, or action name", goerrors.CategoryValidation).
	WithTextCode(TextCodeInvalidGrantDomain).
	WithCode(goerrors.CodeBadRequest)

// ErrGrantNotFound revoking a grant that is not in the set
var ErrGrantNotFound = goerrors.New("permission not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeGrantNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrUserNotFound is the store level miss. It never leaves the core as is.
var ErrUserNotFound = goerrors.New("user not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrNoEmptyString password must not be empty
var ErrNoEmptyString = goerrors.New("password cannot be empty", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(goerrors.CodeBadRequest)

// IsUntrustedToken reports whether err is any of the token trust failures
func IsUntrustedToken(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrUntrustedToken) ||
		errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenWrongType)
}

// HasTextCode reports whether err carries the given go-errors text code
func HasTextCode(err error, code string) bool {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode == code
	}
	return false
}

// StatusCode maps an error to the fixed status a transport should expose.
// Unknown errors map to an internal error.
func StatusCode(err error) int {
	if err == nil {
		return 200
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.Code != 0 {
		return richErr.Code
	}

	return goerrors.CodeInternal
}

func invalidInput(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid input").
		WithTextCode(TextCodeInvalidInput).
		WithCode(goerrors.CodeBadRequest)
}

func internalError(err error, message string) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, message).
		WithCode(goerrors.CodeInternal)
}
