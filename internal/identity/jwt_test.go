package identity

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/famcare-dev/famcare/internal/store"
)

func newTestProvider() *JWTProvider {
	return NewJWTProvider(store.NewMemory(), "test-secret", time.Hour)
}

func TestSignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider()

	ident, err := p.SignUp(ctx, "a@x.com", "secret1")

	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	if !strings.HasPrefix(ident.ID, "user_") {
		t.Errorf("unexpected id %q", ident.ID)
	}

	if ident.Email != "a@x.com" {
		t.Errorf("unexpected email %q", ident.Email)
	}

	token, err := p.SignIn(ctx, "a@x.com", "secret1")

	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	if token == "" {
		t.Fatal("expected a token")
	}

	resolved, err := p.Verify(ctx, token)

	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if resolved != ident {
		t.Errorf("Verify returned %+v, want %+v", resolved, ident)
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider()

	if _, err := p.SignUp(ctx, "a@x.com", "secret1"); err != nil {
		t.Fatalf("first SignUp failed: %v", err)
	}

	if _, err := p.SignUp(ctx, "a@x.com", "other-password"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestSignInWrongPassword(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider()

	p.SignUp(ctx, "a@x.com", "secret1")

	if _, err := p.SignIn(ctx, "a@x.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignInUnknownEmail(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider()

	if _, err := p.SignIn(ctx, "nobody@x.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestVerifyGarbageToken(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider()

	if _, err := p.Verify(ctx, "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	ctx := context.Background()
	records := store.NewMemory()

	issuing := NewJWTProvider(records, "test-secret", -time.Minute)

	issuing.SignUp(ctx, "a@x.com", "secret1")
	token, err := issuing.SignIn(ctx, "a@x.com", "secret1")

	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	verifying := NewJWTProvider(records, "test-secret", time.Hour)

	if _, err := verifying.Verify(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	ctx := context.Background()

	p := newTestProvider()
	p.SignUp(ctx, "a@x.com", "secret1")

	token, _ := p.SignIn(ctx, "a@x.com", "secret1")

	other := NewJWTProvider(store.NewMemory(), "different-secret", time.Hour)

	if _, err := other.Verify(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}
