package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/riceguard/apiserver/internal/auth"
	"github.com/riceguard/apiserver/internal/store"
	"github.com/riceguard/apiserver/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
}

// LoginResult is a minted token plus the authenticated user.
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        types.PublicUser
}

// AccountService encapsulates registration and login.
type AccountService struct {
	repo   UserRepository
	hasher *auth.PasswordHasher
	tokens *auth.TokenIssuer
}

func NewAccountService(repo UserRepository, hasher *auth.PasswordHasher, tokens *auth.TokenIssuer) *AccountService {
	return &AccountService{repo: repo, hasher: hasher, tokens: tokens}
}

// Register creates a new account. Email collisions return
// store.ErrDuplicateEmail; the pre-check is only a fast path, the unique
// index behind Create is what decides races.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (types.PublicUser, error) {
	email = strings.TrimSpace(email)

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return types.PublicUser{}, store.ErrDuplicateEmail
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.PublicUser{}, err
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return types.PublicUser{}, err
	}

	user, err := s.repo.Create(ctx, types.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: digest,
	})
	if err != nil {
		return types.PublicUser{}, err
	}
	return user.Public(), nil
}

// Login verifies credentials and mints an access token. Unknown email and
// wrong password both surface as ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Name, user.Email)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        user.Public(),
	}, nil
}
