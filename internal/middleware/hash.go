package middleware

import (
	"bytes"
	"io"
	"net/http"

	"github.com/a2sh3r/expresswash/internal/hash"
	"github.com/a2sh3r/expresswash/internal/logger"
	"go.uber.org/zap"
)

const HashHeader = "HashSHA256"

type hashResponseWriter struct {
	http.ResponseWriter
	buf    bytes.Buffer
	status int
}

func (w *hashResponseWriter) Write(b []byte) (int, error) {
	return w.buf.Write(b)
}

func (w *hashResponseWriter) WriteHeader(statusCode int) {
	w.status = statusCode
}

// NewHashMiddleware checks the HashSHA256 header of signed request bodies and signs every response body.
// It is a no-op when key is empty.
func NewHashMiddleware(key string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			if sum := r.Header.Get(HashHeader); sum != "" {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					http.Error(w, "failed to read body", http.StatusBadRequest)
					return
				}
				if err := hash.VerifyHash(string(body), key, sum); err != nil {
					logger.Log.Warn("request hash mismatch", zap.String("uri", r.RequestURI))
					http.Error(w, "hash mismatch", http.StatusBadRequest)
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
			}

			hw := &hashResponseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(hw, r)

			w.Header().Set(HashHeader, hash.CalculateHash(hw.buf.String(), key))
			w.WriteHeader(hw.status)
			if _, err := w.Write(hw.buf.Bytes()); err != nil {
				logger.Log.Error("failed to write response", zap.Error(err))
			}
		})
	}
}
