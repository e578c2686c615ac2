package usecase

import (
	"context"

	"pmprep/internal/modules/auth/domain"
	"pmprep/internal/modules/auth/dto"
	authin "pmprep/internal/modules/auth/port/in"
	"pmprep/internal/modules/auth/service"
)

type Interactor struct {
	session *service.Session
}

func NewInteractor(session *service.Session) authin.Usecase {
	return &Interactor{session: session}
}

func (i *Interactor) Login(ctx context.Context, in dto.LoginInput) (dto.AccountOutput, error) {
	account, err := i.session.Login(ctx, in.Email, in.Password)
	if err != nil {
		return dto.AccountOutput{}, err
	}
	return toOutput(account), nil
}

func (i *Interactor) Register(ctx context.Context, in dto.RegisterInput) (dto.AccountOutput, error) {
	account, err := i.session.Register(ctx, in.Email, in.Password)
	if err != nil {
		return dto.AccountOutput{}, err
	}
	return toOutput(account), nil
}

func (i *Interactor) GoogleURL(ctx context.Context) (string, error) {
	return i.session.GoogleURL(ctx)
}

func (i *Interactor) Logout(ctx context.Context) error {
	return i.session.Logout(ctx)
}

func (i *Interactor) Current(context.Context) dto.AccountOutput {
	return toOutput(i.session.Current())
}

func (i *Interactor) Token() string {
	return i.session.Token()
}

func toOutput(account domain.Account) dto.AccountOutput {
	return dto.AccountOutput{Email: account.Email, LoggedIn: account.LoggedIn()}
}
