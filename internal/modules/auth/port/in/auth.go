package in

import (
	"context"

	"pmprep/internal/modules/auth/dto"
)

type Usecase interface {
	Login(ctx context.Context, in dto.LoginInput) (dto.AccountOutput, error)
	Register(ctx context.Context, in dto.RegisterInput) (dto.AccountOutput, error)
	// GoogleURL returns the browser URL that starts the OAuth flow.
	GoogleURL(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) dto.AccountOutput
	// Token is what the HTTP client attaches as the bearer; empty when
	// logged out.
	Token() string
}
