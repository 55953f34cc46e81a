package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/a2sh3r/expresswash/internal/logger"
	"go.uber.org/zap"
)

var gzipWriters = sync.Pool{
	New: func() any { return gzip.NewWriter(io.Discard) },
}

// XLSX files are zip archives already.
var precompressed = []string{
	"application/zip",
	"application/gzip",
	"application/vnd.openxmlformats-officedocument",
}

func compressible(contentType string) bool {
	for _, prefix := range precompressed {
		if strings.HasPrefix(contentType, prefix) {
			return false
		}
	}
	return true
}

// compressWriter picks plain or gzip output once, when the status or the first byte is written.
type compressWriter struct {
	http.ResponseWriter
	gz      *gzip.Writer
	decided bool
}

func (w *compressWriter) decide(status int) {
	if w.decided {
		return
	}
	w.decided = true

	h := w.Header()
	if status == http.StatusNoContent || status == http.StatusNotModified ||
		h.Get("Content-Encoding") != "" || !compressible(h.Get("Content-Type")) {
		return
	}
	h.Del("Content-Length")
	h.Set("Content-Encoding", "gzip")

	w.gz = gzipWriters.Get().(*gzip.Writer)
	w.gz.Reset(w.ResponseWriter)
}

func (w *compressWriter) WriteHeader(statusCode int) {
	w.decide(statusCode)
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *compressWriter) Write(b []byte) (int, error) {
	w.decide(http.StatusOK)
	if w.gz == nil {
		return w.ResponseWriter.Write(b)
	}
	return w.gz.Write(b)
}

func (w *compressWriter) finish() {
	if w.gz == nil {
		return
	}
	if err := w.gz.Close(); err != nil {
		logger.Log.Error("failed to close gzip writer", zap.Error(err))
	}
	gzipWriters.Put(w.gz)
	w.gz = nil
}

// NewGzipMiddleware inflates gzip request bodies and compresses responses for clients that accept it.
func NewGzipMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Content-Encoding") == "gzip" {
				zr, err := gzip.NewReader(r.Body)
				if err != nil {
					http.Error(w, "invalid gzip", http.StatusBadRequest)
					return
				}
				defer func() {
					if err := zr.Close(); err != nil {
						logger.Log.Error("failed to close gzip body", zap.Error(err))
					}
				}()

				r.Body = zr
				r.Header.Del("Content-Encoding")
				r.ContentLength = -1
			}

			if !acceptsGzip(r) {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Add("Vary", "Accept-Encoding")
			cw := &compressWriter{ResponseWriter: w}
			defer cw.finish()
			next.ServeHTTP(cw, r)
		})
	}
}

func acceptsGzip(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		name, _, _ := strings.Cut(strings.TrimSpace(enc), ";")
		if name == "gzip" || name == "*" {
			return true
		}
	}
	return false
}
