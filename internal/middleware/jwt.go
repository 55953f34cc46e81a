package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/a2sh3r/expresswash/internal/apperrors"
	"github.com/a2sh3r/expresswash/internal/logger"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const OperatorKey contextKey = "operator"

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || scheme != "Bearer" || token == "" {
		return "", false
	}
	return token, true
}

// JWTMiddleware requires a bearer token signed with secretKey. With an empty key every request passes.
func JWTMiddleware(secretKey string) func(http.Handler) http.Handler {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	keyFunc := func(*jwt.Token) (any, error) {
		return []byte(secretKey), nil
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secretKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			raw, ok := bearerToken(r)
			if !ok {
				http.Error(w, apperrors.ErrInvalidAuthHeader.Error(), http.StatusUnauthorized)
				return
			}

			var claims jwt.RegisteredClaims
			if _, err := parser.ParseWithClaims(raw, &claims, keyFunc); err != nil || claims.Subject == "" {
				logger.Log.Debug("rejected operator token", zap.String("uri", r.RequestURI), zap.Error(err))
				http.Error(w, apperrors.ErrInvalidToken.Error(), http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), OperatorKey, claims.Subject)))
		})
	}
}

func GetOperator(ctx context.Context) (string, bool) {
	login, ok := ctx.Value(OperatorKey).(string)
	return login, ok && login != ""
}
