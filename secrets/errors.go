package secrets

import "errors"

var (
	// ErrSecretNotFound is returned when the secret does not exist.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrSecretEmpty is returned when the secret exists but holds no value.
	ErrSecretEmpty = errors.New("secret value is empty")

	// ErrAccessDenied is returned when the credentials may not read the secret.
	ErrAccessDenied = errors.New("access denied to secret")

	// ErrFieldNotFound is returned when a "#field" reference does not name a
	// string field of a JSON secret.
	ErrFieldNotFound = errors.New("secret field not found")
)

// AWS error codes mapped to the errors above.
const (
	ResourceNotFoundException = "ResourceNotFoundException"
	AccessDeniedException     = "AccessDeniedException"
)
