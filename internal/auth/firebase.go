package auth

import (
	"context"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/folio-labs/portfolio-backend/internal/auth/domain"
)

// InitializeFirebase initializes the Firebase Admin SDK and returns an Auth client
func InitializeFirebase(ctx context.Context, credentialsPath string) (*auth.Client, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required")
	}

	opt := option.WithCredentialsFile(credentialsPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Auth client: %w", err)
	}

	return authClient, nil
}

// IDTokenVerifier is implemented by *auth.Client.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseVerifier accepts Firebase ID tokens whose email is on the admin list.
type FirebaseVerifier struct {
	client IDTokenVerifier
	admins map[string]struct{}
}

func NewFirebaseVerifier(client IDTokenVerifier, adminEmails ...string) *FirebaseVerifier {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			admins[e] = struct{}{}
		}
	}
	return &FirebaseVerifier{client: client, admins: admins}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*domain.Principal, error) {
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	email, _ := decoded.Claims["email"].(string)
	email = strings.ToLower(strings.TrimSpace(email))
	if verified, ok := decoded.Claims["email_verified"].(bool); ok && !verified {
		return nil, fmt.Errorf("%w: email not verified", domain.ErrForbidden)
	}
	if _, ok := v.admins[email]; !ok {
		return nil, domain.ErrForbidden
	}
	return &domain.Principal{Subject: decoded.UID, Email: email, Provider: "firebase"}, nil
}
