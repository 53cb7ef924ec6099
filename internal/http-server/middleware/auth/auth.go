// Package auth carries the identity boundary: it issues and validates the
// HS256 tokens and injects the authenticated user id and role into the
// request context. The booking core trusts these values as given.
package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"seatwise/internal/lib/api/response"
	"seatwise/internal/lib/logger/sl"
	"seatwise/internal/models"

	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	roleKey
)

// NewToken signs an access token for the user: sub, role, exp, iat.
func NewToken(secret string, user *models.User, ttl time.Duration) (string, error) {
	now := time.Now().UTC()

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// JWT validates the Bearer token and puts the subject and role into the
// request context. Requests without a valid token get 401.
func JWT(secret string, log *slog.Logger) func(next http.Handler) http.Handler {
	log = log.With(slog.String("component", "middleware/auth"))

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w, r, "missing bearer token")
				return
			}

			raw := strings.TrimPrefix(header, "Bearer ")

			token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				if err != nil {
					log.Debug("token rejected", sl.Err(err))
				}
				unauthorized(w, r, "invalid token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				unauthorized(w, r, "invalid claims")
				return
			}

			sub, ok := claims["sub"].(float64)
			if !ok {
				unauthorized(w, r, "invalid claims")
				return
			}
			role, _ := claims["role"].(string)

			ctx := WithUser(r.Context(), int64(sub), models.Role(role))
			next.ServeHTTP(w, r.WithContext(ctx))
		}

		return http.HandlerFunc(fn)
	}
}

// RequireRole rejects requests whose authenticated role is not in the
// allowed set. Must run after JWT.
func RequireRole(roles ...models.Role) func(next http.Handler) http.Handler {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			role, ok := Role(r.Context())
			if !ok || !allowed[role] {
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Fail(response.CodeForbidden, "access denied"))
				return
			}
			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}

// WithUser injects an identity into the context. Exported for handler tests.
func WithUser(ctx context.Context, userID int64, role models.Role) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

func Role(ctx context.Context) (models.Role, bool) {
	role, ok := ctx.Value(roleKey).(models.Role)
	return role, ok
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Fail(response.CodeUnauthorized, msg))
}
