package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/folio-labs/portfolio-backend/internal/auth/domain"
	"github.com/folio-labs/portfolio-backend/internal/utils"
)

const (
	tokenIssuer  = "portfolio"
	providerJWT  = "jwt"
	defaultTTL   = 12 * time.Hour
	minSecretLen = 16
)

type adminClaims struct {
	Email string `json:"email"`
	gojwt.RegisteredClaims
}

// JWTManager issues and verifies HS256 admin tokens.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTManager(secret string, ttl time.Duration) (*JWTManager, error) {
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes", minSecretLen)
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &JWTManager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for email.
func (m *JWTManager) Issue(email string) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.ttl)
	claims := adminClaims{
		Email: email,
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   email,
			ID:        utils.NewHexID(),
			IssuedAt:  gojwt.NewNumericDate(now),
			NotBefore: gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(exp),
		},
	}

	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, exp, nil
}

// Verify parses token and returns its principal. Any failure is ErrUnauthorized.
func (m *JWTManager) Verify(_ context.Context, token string) (*domain.Principal, error) {
	var claims adminClaims
	parser := gojwt.NewParser(
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithIssuer(tokenIssuer),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(m.now),
	)
	_, err := parser.ParseWithClaims(token, &claims, func(*gojwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, fmt.Errorf("%w: token has no subject", domain.ErrUnauthorized)
	}
	return &domain.Principal{Subject: claims.Subject, Email: claims.Email, Provider: providerJWT}, nil
}
