package webutil

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Madmax-op/FoodShare/session"
)

// AppHandler represents a handler function that returns an error.
type AppHandler func(w http.ResponseWriter, r *http.Request) error

var logger = logrus.StandardLogger()

// SetLogger replaces the logger MakeHandler reports errors to.
func SetLogger(l *logrus.Logger) {
	logger = l
}

// MakeHandler adapts an AppHandler to the standard http.HandlerFunc signature.
// A returned error is logged and answered with a JSON body, or a minimal HTML
// page when the client asked for HTML.
func MakeHandler(handler AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tw := &trackingWriter{ResponseWriter: w}
		err := handler(tw, r)
		if err == nil {
			return
		}

		var (
			httpErr       *HTTPError
			publicMessage string
			statusCode    int
		)
		entry := logger.WithFields(logrus.Fields{"path": r.URL.Path, "method": r.Method})

		switch {
		case errors.As(err, &httpErr):
			statusCode = httpErr.Code
			publicMessage = httpErr.Message
			level := logrus.WarnLevel
			if statusCode >= 500 {
				level = logrus.ErrorLevel
			}
			entry = entry.WithField("code", statusCode)
			if cause := errors.Unwrap(httpErr); cause != nil && cause.Error() != publicMessage {
				entry = entry.WithField("cause", cause.Error())
			}
			entry.Log(level, "Client error response: ", publicMessage)

		case errors.Is(err, session.ErrNotFound):
			statusCode = http.StatusNotFound
			publicMessage = msgNotFound
			entry.WithError(err).Info("Resource not found")

		default:
			statusCode = http.StatusInternalServerError
			publicMessage = msgInternalServer
			entry.WithError(err).Error("Unhandled internal error")
		}

		if tw.wroteHeader {
			entry.WithError(err).Warn("Handler returned error after writing response header")
			return
		}

		if WantsHTML(r) {
			RespondWithErrorPage(w, statusCode, publicMessage)
			return
		}
		RespondWithError(w, statusCode, publicMessage)
	}
}

// WantsHTML reports whether the request prefers an HTML response.
func WantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get(HeaderAccept), "text/html")
}

type trackingWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (t *trackingWriter) WriteHeader(code int) {
	t.wroteHeader = true
	t.ResponseWriter.WriteHeader(code)
}

func (t *trackingWriter) Write(b []byte) (int, error) {
	t.wroteHeader = true
	return t.ResponseWriter.Write(b)
}

func (t *trackingWriter) Unwrap() http.ResponseWriter {
	return t.ResponseWriter
}
