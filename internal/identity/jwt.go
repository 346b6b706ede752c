package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/famcare-dev/famcare/internal/store"
)

// JWTProvider is a self-hosted identity provider: bcrypt credential
// records in the record store, HS256 bearer tokens.
type JWTProvider struct {
	records store.RecordStore
	secret  []byte
	ttl     time.Duration
}

type credentialRecord struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

func credentialKey(email string) string {
	return "auth:" + email
}

func NewJWTProvider(records store.RecordStore, secret string, ttl time.Duration) *JWTProvider {
	return &JWTProvider{
		records: records,
		secret:  []byte(secret),
		ttl:     ttl,
	}
}

func (p *JWTProvider) SignUp(ctx context.Context, email, password string) (Identity, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	if err != nil {
		return Identity{}, err
	}

	record := credentialRecord{
		ID:           "user_" + uuid.NewString(),
		Email:        email,
		PasswordHash: string(passwordHash),
	}

	// Update is atomic, so two concurrent signups for the same email
	// cannot both pass the existence check.
	err = p.records.Update(ctx, credentialKey(email), func(current []byte) ([]byte, error) {
		if current != nil {
			return nil, ErrEmailTaken
		}
		return json.Marshal(record)
	})

	if err != nil {
		return Identity{}, err
	}

	return Identity{ID: record.ID, Email: record.Email}, nil
}

func (p *JWTProvider) SignIn(ctx context.Context, email, password string) (string, error) {
	raw, err := p.records.Get(ctx, credentialKey(email))

	if errors.Is(err, store.ErrNotFound) {
		return "", ErrInvalidCredentials
	}

	if err != nil {
		return "", err
	}

	var record credentialRecord

	if err := json.Unmarshal(raw, &record); err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"user_id": record.ID,
		"email":   record.Email,
		"exp":     time.Now().Add(p.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

func (p *JWTProvider) Verify(ctx context.Context, tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return p.secret, nil
	})

	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		return Identity{}, ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)

	if !ok {
		return Identity{}, fmt.Errorf("%w: missing user_id claim", ErrInvalidToken)
	}

	email, ok := claims["email"].(string)

	if !ok {
		return Identity{}, fmt.Errorf("%w: missing email claim", ErrInvalidToken)
	}

	return Identity{ID: userID, Email: email}, nil
}
