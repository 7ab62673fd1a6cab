package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/markdave123-py/Textora/internal/core/session"
	"github.com/markdave123-py/Textora/internal/services"
)

const CookieName = "session"

type sessionKey struct{}

// SessionMiddleware resolves the session cookie to a live session and attaches
// it to the request context. A missing, invalid or expired cookie starts a new
// session and sets a fresh cookie.
func SessionMiddleware(svc *services.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sess *session.Session
			if c, err := r.Cookie(CookieName); err == nil {
				sess, err = svc.Resume(c.Value)
				if err != nil {
					hlog.FromRequest(r).Debug().Err(err).Msg("session cookie rejected")
				}
			}

			if sess == nil {
				s, token, err := svc.Start()
				if err != nil {
					hlog.FromRequest(r).Error().Err(err).Msg("start session")
					http.Error(w, "could not start session", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
				sess = s
			}

			hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("session_id", sess.ID)
			})

			ctx := context.WithValue(r.Context(), sessionKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFrom returns the session attached by SessionMiddleware.
func SessionFrom(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(sessionKey{}).(*session.Session)
	return sess, ok
}
