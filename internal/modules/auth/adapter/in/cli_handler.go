package in

import (
	"context"

	authdto "pmprep/internal/modules/auth/dto"
	authin "pmprep/internal/modules/auth/port/in"
)

type CLIHandler struct {
	usecase authin.Usecase
}

func NewCLIHandler(usecase authin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Login(ctx context.Context, email, password string) (authdto.AccountOutput, error) {
	return h.usecase.Login(ctx, authdto.LoginInput{Email: email, Password: password})
}

func (h CLIHandler) Register(ctx context.Context, email, password string) (authdto.AccountOutput, error) {
	return h.usecase.Register(ctx, authdto.RegisterInput{Email: email, Password: password})
}

func (h CLIHandler) GoogleURL(ctx context.Context) (string, error) {
	return h.usecase.GoogleURL(ctx)
}

func (h CLIHandler) Logout(ctx context.Context) error {
	return h.usecase.Logout(ctx)
}

func (h CLIHandler) Whoami(ctx context.Context) authdto.AccountOutput {
	return h.usecase.Current(ctx)
}
