package auth

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-labs/portfolio-backend/internal/auth/domain"
)

type fakeIDTokens map[string]*auth.Token

func (f fakeIDTokens) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	if t, ok := f[idToken]; ok {
		return t, nil
	}
	return nil, errors.New("ID token has invalid signature")
}

func TestFirebaseVerifier(t *testing.T) {
	tokens := fakeIDTokens{
		"admin":      {UID: "u1", Claims: map[string]interface{}{"email": "Me@Example.com", "email_verified": true}},
		"visitor":    {UID: "u2", Claims: map[string]interface{}{"email": "visitor@example.com"}},
		"unverified": {UID: "u3", Claims: map[string]interface{}{"email": "me@example.com", "email_verified": false}},
	}
	v := NewFirebaseVerifier(tokens, "me@example.com", " ")
	ctx := context.Background()

	p, err := v.Verify(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "u1", p.Subject)
	assert.Equal(t, "me@example.com", p.Email)
	assert.Equal(t, "firebase", p.Provider)

	_, err = v.Verify(ctx, "visitor")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = v.Verify(ctx, "unverified")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = v.Verify(ctx, "forged")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestInitializeFirebase_RequiresCredentials(t *testing.T) {
	_, err := InitializeFirebase(context.Background(), "")
	assert.Error(t, err)
}
