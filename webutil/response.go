package webutil

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"
	"time"
)

// RespondWithError writes {"error": message} with code.
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]string{"error": message})
}

func RespondWithJSON(w http.ResponseWriter, status int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.WithError(err).Error("Failed to marshal JSON response")
		w.Header().Set(HeaderContentType, ContentTypeJSONUTF8)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal Server Error"}`))
		return
	}

	w.Header().Set(HeaderContentType, ContentTypeJSONUTF8)
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

// RespondWithHTML writes an already rendered page.
func RespondWithHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set(HeaderContentType, ContentTypeHTMLUTF8)
	w.Header().Set(HeaderContentLength, strconv.Itoa(len(body)))
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

var errorPage = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html lang="en"><head><meta charset="utf-8"><title>{{.Code}} {{.Status}} | FoodShare</title></head>
<body><main class="error-page"><h1>{{.Status}}</h1><p>{{.Message}}</p><a href="/">Back to FoodShare</a></main></body></html>
`))

// RespondWithErrorPage writes a self-contained HTML error page.
func RespondWithErrorPage(w http.ResponseWriter, code int, message string) {
	w.Header().Set(HeaderContentType, ContentTypeHTMLUTF8)
	w.WriteHeader(code)
	_ = errorPage.Execute(w, struct {
		Code    int
		Status  string
		Message string
	}{code, http.StatusText(code), message})
}

// Redirect sends a See Other so that a POST is never replayed.
func Redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// RefreshHeader formats a Refresh header value that navigates to path after d.
func RefreshHeader(path string, d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + "; url=" + path
}
