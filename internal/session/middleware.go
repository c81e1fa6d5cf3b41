// Package session gives every visitor a stable id carried in a signed
// cookie. Storage is scoped by that id, so each visitor has their own cart.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"Storefront/pkg/kit"
)

const CookieName = "so_session"

type ctxKey string

const sessionKey ctxKey = "session_id"

func FromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(sessionKey).(string)
	return v, ok && v != ""
}

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey, id)
}

type Middleware struct {
	Tokens *TokenMaker
	TTL    time.Duration
	Secure bool
	Log    *zap.Logger
}

// Handler resolves the session from the cookie, minting a new one when the
// cookie is missing, expired or forged.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	log := kit.OrNop(m.Log)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(CookieName); err == nil {
			if claims, err := m.Tokens.Parse(c.Value); err == nil {
				next.ServeHTTP(w, r.WithContext(WithID(r.Context(), claims.SessionID)))
				return
			}
		}

		id := uuid.NewString()
		tok, err := m.Tokens.New(id, m.TTL)
		if err != nil {
			log.Error("issue session token", zap.Error(err))
			kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    tok,
			Path:     "/",
			MaxAge:   int(m.TTL.Seconds()),
			HttpOnly: true,
			Secure:   m.Secure,
			SameSite: http.SameSiteLaxMode,
		})
		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
	})
}
