// Package cache is a small Redis response cache for the public, read-only
// listings. Entries expire by TTL; mutations do not invalidate, so a just
// approved event may take one TTL to show up.
package cache

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"seatwise/internal/lib/logger/sl"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "seatwise:cache:"

type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	cw.buf.Write(b)
	return cw.ResponseWriter.Write(b)
}

// New caches successful GET responses in Redis under path+query. A nil
// client turns the middleware into a passthrough.
func New(log *slog.Logger, rdb *redis.Client, ttl time.Duration) func(next http.Handler) http.Handler {
	if rdb == nil {
		return func(next http.Handler) http.Handler { return next }
	}

	log = log.With(slog.String("component", "middleware/cache"))

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := cacheKey(r)

			if body, err := rdb.Get(r.Context(), key).Bytes(); err == nil {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(body)
				return
			}

			cw := &captureWriter{ResponseWriter: w, status: http.StatusOK}
			cw.Header().Set("X-Cache", "MISS")

			next.ServeHTTP(cw, r)

			if cw.status == http.StatusOK {
				if err := rdb.Set(r.Context(), key, cw.buf.Bytes(), ttl).Err(); err != nil {
					log.Warn("failed to store response in cache", sl.Err(err))
				}
			}
		}

		return http.HandlerFunc(fn)
	}
}

func cacheKey(r *http.Request) string {
	sum := sha1.Sum([]byte(r.URL.Path + "?" + r.URL.RawQuery))
	return fmt.Sprintf("%s%x", keyPrefix, sum)
}
