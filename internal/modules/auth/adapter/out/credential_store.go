package out

import (
	"context"

	authout "pmprep/internal/modules/auth/port/out"
	"pmprep/internal/platform/localstore"
)

type CredentialStore struct {
	store *localstore.Store
}

func NewCredentialStore(store *localstore.Store) authout.CredentialStore {
	return &CredentialStore{store: store}
}

func (s *CredentialStore) Save(ctx context.Context, token, email string) error {
	if err := s.store.Set(ctx, localstore.KeyAuthToken, token); err != nil {
		return err
	}
	return s.store.Set(ctx, localstore.KeyUserEmail, email)
}

func (s *CredentialStore) Load(ctx context.Context) (string, string, error) {
	token, err := s.store.Get(ctx, localstore.KeyAuthToken)
	if err != nil {
		return "", "", err
	}
	email, err := s.store.Get(ctx, localstore.KeyUserEmail)
	if err != nil {
		return "", "", err
	}
	return token, email, nil
}

func (s *CredentialStore) Clear(ctx context.Context) error {
	return s.store.Clear(ctx, localstore.KeyAuthToken, localstore.KeyUserEmail)
}
