package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Rishabh-devloper/wealthwise/internal/auth"
)

type Middleware struct {
	Verifier *auth.Verifier
}

func NewMiddleware(verifier *auth.Verifier) *Middleware {
	return &Middleware{Verifier: verifier}
}

// context key
type contextKey string

const UIDKey contextKey = "uid"

// ResolveIdentity extracts and verifies the bearer token when one is
// present. It never rejects the request: an absent or invalid token
// just leaves the user id empty, and the service layer decides whether
// the operation needs one. Reads degrade to empty results, writes fail
// with unauthorized.
func (m *Middleware) ResolveIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			next.ServeHTTP(w, r)
			return
		}

		uid, err := m.Verifier.Verify(parts[1])
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), UIDKey, uid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UID extracts the resolved user id, empty when anonymous.
func UID(ctx context.Context) string {
	uid, _ := ctx.Value(UIDKey).(string)
	return uid
}
