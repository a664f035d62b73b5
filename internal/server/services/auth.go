package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/college/internal/common"
	"github.com/dmitrijs2005/college/internal/server/auth"
)

type AccessToken struct {
	AccessToken string
	TokenType   string
}

// AuthService exchanges the configured credentials for bearer tokens and
// verifies them on protected requests.
type AuthService struct {
	credentials *auth.CredentialStore
	tokens      *auth.TokenService
	ttl         time.Duration
}

func NewAuthService(credentials *auth.CredentialStore, tokens *auth.TokenService, ttl time.Duration) *AuthService {
	return &AuthService{credentials: credentials, tokens: tokens, ttl: ttl}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*AccessToken, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.credentials.Verify(username, password) {
		return nil, common.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(username, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AccessToken{AccessToken: token, TokenType: common.TokenType}, nil
}

// Authenticate returns the token subject when the token is valid.
func (s *AuthService) Authenticate(token string) (string, bool) {
	return s.tokens.Verify(token)
}
