package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/Madmax-op/FoodShare/webutil"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	layoutFile   = "templates/layout.html"
	partialsGlob = "templates/_*.html"
)

// Pages rendered through the layout.
const (
	PageIndex       = "index"
	PageLogin       = "login"
	PageRegister    = "register"
	PageDashboard   = "dashboard"
	PageLeaderboard = "leaderboard"
	PageMap         = "map"
)

// FragmentLeaderboardGrid is the partial served on its own for tab switches.
const FragmentLeaderboardGrid = "leaderboard-grid"

var funcs = template.FuncMap{
	"field": func(values map[string][]string, name string) string {
		if v := values[name]; len(v) > 0 {
			return v[0]
		}
		return ""
	},
	"selected": func(values map[string][]string, name, option string) bool {
		v := values[name]
		return len(v) > 0 && v[0] == option
	},
	"refresh": webutil.RefreshHeader,
	"year": func() int { return time.Now().Year() },
	"dict": func(kv ...any) (map[string]any, error) {
		if len(kv)%2 != 0 {
			return nil, fmt.Errorf("dict: odd number of arguments")
		}
		m := make(map[string]any, len(kv)/2)
		for i := 0; i < len(kv); i += 2 {
			key, ok := kv[i].(string)
			if !ok {
				return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
			}
			m[key] = kv[i+1]
		}
		return m, nil
	},
}

// Renderer executes the embedded page templates.
type Renderer struct {
	pages     map[string]*template.Template
	fragments *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: map[string]*template.Template{}}
	for _, name := range []string{PageIndex, PageLogin, PageRegister, PageDashboard, PageLeaderboard, PageMap} {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, layoutFile, partialsGlob, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}

	fragments, err := template.New("fragments").Funcs(funcs).ParseFS(templateFS, partialsGlob)
	if err != nil {
		return nil, fmt.Errorf("failed to parse partial templates: %w", err)
	}
	r.fragments = fragments
	return r, nil
}

// Render writes page name with data. Output is buffered so a template error
// never leaves a half-written page.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return r.execute(w, status, t, "layout", data)
}

// RenderFragment writes one partial without the layout.
func (r *Renderer) RenderFragment(w http.ResponseWriter, status int, name string, data any) error {
	return r.execute(w, status, r.fragments, name, data)
}

func (r *Renderer) execute(w http.ResponseWriter, status int, t *template.Template, name string, data any) error {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	webutil.RespondWithHTML(w, status, buf.Bytes())
	return nil
}

// Static serves the embedded stylesheet and page scripts with an ETag.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		name := strings.TrimPrefix(req.URL.Path, "/")
		data, err := fs.ReadFile(sub, name)
		if err != nil {
			http.NotFound(w, req)
			return
		}

		etag := webutil.ETag(data)
		w.Header().Set(webutil.HeaderETag, etag)
		w.Header().Set(webutil.HeaderCacheControl, "public, max-age=3600")
		if req.Header.Get(webutil.HeaderIfNoneMatch) == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		switch {
		case strings.HasSuffix(name, ".css"):
			w.Header().Set(webutil.HeaderContentType, webutil.ContentTypeCSSUTF8)
		case strings.HasSuffix(name, ".js"):
			w.Header().Set(webutil.HeaderContentType, webutil.ContentTypeJS)
		}
		_, _ = w.Write(data)
	})
}
