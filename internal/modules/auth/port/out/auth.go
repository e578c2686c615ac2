package out

import "context"

// Gateway wraps the authentication endpoints.
type Gateway interface {
	Login(ctx context.Context, email, password string) (token string, err error)
	Register(ctx context.Context, email, password string) (token string, err error)
	GoogleURL(ctx context.Context) (string, error)
}

// CredentialStore persists the token and email across runs.
type CredentialStore interface {
	Save(ctx context.Context, token, email string) error
	Load(ctx context.Context) (token, email string, err error)
	Clear(ctx context.Context) error
}
