package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/Madmax-op/FoodShare/session"
	"github.com/Madmax-op/FoodShare/webutil"
)

// AccessLogger is chi's request logger writing through logrus.
func AccessLogger(log *logrus.Logger) func(http.Handler) http.Handler {
	return middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: log, NoColor: true})
}

// SetHeader is a middleware to set a response header.
func SetHeader(key, value string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(key, value)
			next.ServeHTTP(w, r)
		})
	}
}

// RequireToken rejects requests whose header does not carry token.
func RequireToken(header, token string, log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(header)
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				log.WithFields(logrus.Fields{"path": r.URL.Path, "remote": r.RemoteAddr}).Warn("rejected request with bad token")
				webutil.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Sessions attaches the visitor's session to the request context. A visitor
// without a valid cookie gets a new anonymous session, stored right away so
// that per-session caches have a stable key.
func Sessions(m *session.Manager, log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, isNew, err := m.Load(r)
			if err != nil {
				log.WithError(err).WithField("path", r.URL.Path).Error("session load failed")
				if webutil.WantsHTML(r) {
					webutil.RespondWithErrorPage(w, http.StatusInternalServerError, "Internal Server Error")
				} else {
					webutil.RespondWithError(w, http.StatusInternalServerError, "Internal Server Error")
				}
				return
			}
			if isNew {
				if err := m.Save(r.Context(), w, s); err != nil {
					// The request still works; the next one starts over.
					log.WithError(err).Warn("failed to store new session")
				}
			}
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
		})
	}
}
