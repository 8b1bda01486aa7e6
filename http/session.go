package http

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"loan-desk/service"
)

const SessionCookie = "loan_desk_session"

type sessionKey struct{}

// SessionMiddleware makes sure every request carries a stored session and
// puts its id in the request context.
func SessionMiddleware(
	sessions *service.SessionService,
	ttl time.Duration,
	secure bool,
	log *logrus.Logger,
	next http.Handler,
) http.Handler {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(SessionCookie); err == nil {
			id = c.Value
		}

		session, err := sessions.Resolve(r.Context(), id)
		if err != nil {
			log.WithError(err).Error("failed to resolve session")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		if session.ID != id {
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    session.ID,
				Path:     "/",
				MaxAge:   int(ttl.Seconds()),
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionKey{}, session.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionID(r *http.Request) string {
	id, _ := r.Context().Value(sessionKey{}).(string)
	return id
}
