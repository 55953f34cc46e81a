package service

import (
	"context"
	"testing"
	"time"

	"github.com/a2sh3r/expresswash/internal/apperrors"
	"github.com/a2sh3r/expresswash/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Login(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	svc := NewAuthService(models.Operator{Login: "counter", PasswordHash: hash}, "key", time.Hour)

	tests := []struct {
		name     string
		login    string
		password string
		wantErr  error
	}{
		{"valid", "counter", "s3cret", nil},
		{"wrong password", "counter", "nope", apperrors.ErrInvalidCredentials},
		{"unknown login", "admin", "s3cret", apperrors.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := svc.Login(context.Background(), tt.login, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)

			claims := &jwt.RegisteredClaims{}
			parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
				return []byte("key"), nil
			})
			require.NoError(t, err)
			assert.True(t, parsed.Valid)
			assert.Equal(t, "counter", claims.Subject)
			assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
		})
	}
}

func TestAuthService_NoOperatorConfigured(t *testing.T) {
	svc := NewAuthService(models.Operator{Login: "counter"}, "key", 0)

	_, err := svc.Login(context.Background(), "counter", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_RefusesWithoutSigningKey(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	svc := NewAuthService(models.Operator{Login: "counter", PasswordHash: hash}, "", time.Hour)

	token, err := svc.Login(context.Background(), "counter", "s3cret")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.Empty(t, token)
}
