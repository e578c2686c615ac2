package service

import (
	"context"
	"sync"

	"pmprep/internal/modules/auth/domain"
	authout "pmprep/internal/modules/auth/port/out"
	"pmprep/internal/platform/debuglog"
)

// Session holds the logged-in account in memory, backed by the credential
// store. It is the single writer of local auth state; the 401 hook calls
// ForceLogout so an expired token is dropped exactly once at one layer.
type Session struct {
	gateway authout.Gateway
	store   authout.CredentialStore
	log     debuglog.Logger

	mu       sync.Mutex
	account  domain.Account
	onLogout []func()
}

func NewSession(gateway authout.Gateway, store authout.CredentialStore, log debuglog.Logger) *Session {
	if log == nil {
		log = debuglog.Nop{}
	}
	s := &Session{gateway: gateway, store: store, log: log}
	if token, email, err := store.Load(context.Background()); err == nil {
		s.account = domain.Account{Token: token, Email: email}
	} else {
		log.Printf("credential load: %v", err)
	}
	return s
}

// OnLogout registers a callback fired after local auth state is cleared,
// whether by explicit logout or a 401.
func (s *Session) OnLogout(fn func()) {
	s.mu.Lock()
	s.onLogout = append(s.onLogout, fn)
	s.mu.Unlock()
}

func (s *Session) Login(ctx context.Context, email, password string) (domain.Account, error) {
	if err := domain.ValidateCredentials(email, password); err != nil {
		return domain.Account{}, err
	}
	token, err := s.gateway.Login(ctx, email, password)
	if err != nil {
		return domain.Account{}, err
	}
	return s.adopt(ctx, token, email)
}

func (s *Session) Register(ctx context.Context, email, password string) (domain.Account, error) {
	if err := domain.ValidateCredentials(email, password); err != nil {
		return domain.Account{}, err
	}
	token, err := s.gateway.Register(ctx, email, password)
	if err != nil {
		return domain.Account{}, err
	}
	return s.adopt(ctx, token, email)
}

func (s *Session) adopt(ctx context.Context, token, email string) (domain.Account, error) {
	account := domain.Account{Token: token, Email: email}
	s.mu.Lock()
	s.account = account
	s.mu.Unlock()
	if err := s.store.Save(ctx, token, email); err != nil {
		// The in-memory session stays valid for this run.
		s.log.Printf("credential save: %v", err)
	}
	return account, nil
}

func (s *Session) GoogleURL(ctx context.Context) (string, error) {
	return s.gateway.GoogleURL(ctx)
}

func (s *Session) Logout(ctx context.Context) error {
	s.clear()
	return s.store.Clear(ctx)
}

// ForceLogout is the 401 hook target: clears local auth state without a
// server call and without failing.
func (s *Session) ForceLogout() {
	s.clear()
	if err := s.store.Clear(context.Background()); err != nil {
		s.log.Printf("credential clear: %v", err)
	}
}

func (s *Session) clear() {
	s.mu.Lock()
	s.account = domain.Account{}
	callbacks := append([]func(){}, s.onLogout...)
	s.mu.Unlock()
	for _, fn := range callbacks {
		fn()
	}
}

func (s *Session) Current() domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account
}

// Token is safe to hand to the HTTP client as its TokenSource.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account.Token
}
