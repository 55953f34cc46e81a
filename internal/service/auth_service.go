package service

import (
	"context"
	"time"

	"github.com/a2sh3r/expresswash/internal/apperrors"
	"github.com/a2sh3r/expresswash/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const DefaultTokenTTL = 12 * time.Hour

type AuthService interface {
	// Login checks the operator credentials and returns a signed bearer token.
	Login(ctx context.Context, login, password string) (string, error)
}

type authService struct {
	operator  models.Operator
	secretKey string
	ttl       time.Duration
	now       func() time.Time
}

func NewAuthService(operator models.Operator, secretKey string, ttl time.Duration) AuthService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &authService{
		operator:  operator,
		secretKey: secretKey,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Login is refused when no signing key is configured.
func (s *authService) Login(_ context.Context, login, password string) (string, error) {
	if s.secretKey == "" || s.operator.PasswordHash == "" || login != s.operator.Login {
		return "", apperrors.ErrInvalidCredentials
	}

	err := bcrypt.CompareHashAndPassword([]byte(s.operator.PasswordHash), []byte(password))
	if err != nil {
		return "", apperrors.ErrInvalidCredentials
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   login,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})
	return token.SignedString([]byte(s.secretKey))
}

// HashPassword produces the bcrypt hash expected in OPERATOR_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
