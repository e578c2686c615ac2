package domain

import (
	"strings"

	apperrors "pmprep/internal/platform/errors"
)

// Account is the locally known identity: a bearer token and the email it
// was issued for. Zero value means logged out.
type Account struct {
	Token string
	Email string
}

func (a Account) LoggedIn() bool {
	return a.Token != ""
}

// ValidateCredentials covers the two checks worth doing before a network
// round-trip.
func ValidateCredentials(email, password string) error {
	if !strings.Contains(email, "@") || password == "" {
		return apperrors.ErrInvalidInput
	}
	return nil
}
