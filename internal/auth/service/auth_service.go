package service

import (
	"context"
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/folio-labs/portfolio-backend/internal/auth/domain"
	"github.com/folio-labs/portfolio-backend/internal/logging"
)

// AuthService authenticates the single site administrator.
type AuthService struct {
	adminEmail   string
	passwordHash []byte
	tokens       *JWTManager
}

func NewAuthService(adminEmail, passwordHash string, tokens *JWTManager) *AuthService {
	return &AuthService{
		adminEmail:   strings.ToLower(strings.TrimSpace(adminEmail)),
		passwordHash: []byte(passwordHash),
		tokens:       tokens,
	}
}

// Login checks the credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	log := logging.FromContext(ctx)

	if s.adminEmail == "" || len(s.passwordHash) == 0 || s.tokens == nil {
		log.Warn("login attempted without admin credentials configured")
		return nil, domain.ErrInvalidCredentials
	}

	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.adminEmail)) == 1
	// bcrypt runs even when the email does not match.
	pwErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if !emailOK || pwErr != nil {
		log.Info("login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Issue(s.adminEmail)
	if err != nil {
		return nil, err
	}
	log.Info("admin logged in")
	return &domain.Session{
		Token:     token,
		ExpiresAt: exp,
		Principal: domain.Principal{Subject: s.adminEmail, Email: s.adminEmail, Provider: providerJWT},
	}, nil
}
