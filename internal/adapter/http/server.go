package adapthttp

import (
	"html/template"
	"net/http"
	"path/filepath"
	"strings"

	"notekeep/internal/app"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

const sessionCookie = "session"

// OIDCConfig carries the optional SSO configuration. When Enabled is false
// the SSO routes answer 404.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config *oauth2.Config
}

// Server is the driving HTTP adapter that routes requests to application
// services and renders page templates.
type Server struct {
	auth       *app.AuthService
	entries    *app.EntryService
	tmpl       map[string]*template.Template
	staticDir  string
	oidcConfig OIDCConfig
}

// New creates a Server wired to the given application services. Page
// templates are parsed from webDir/templates against the shared layout;
// webDir/static is served under /static/.
func New(auth *app.AuthService, entries *app.EntryService, webDir string, oidcConfig OIDCConfig) (*Server, error) {
	templateDir := filepath.Join(webDir, "templates")
	layout := filepath.Join(templateDir, "layout.html")
	pages, err := filepath.Glob(filepath.Join(templateDir, "*.html"))
	if err != nil {
		return nil, err
	}

	templates := map[string]*template.Template{}
	for _, page := range pages {
		if filepath.Base(page) == "layout.html" {
			continue
		}
		t, err := template.ParseFiles(layout, page)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(page), ".html")
		templates[name] = t
	}

	return &Server{
		auth:       auth,
		entries:    entries,
		tmpl:       templates,
		staticDir:  filepath.Join(webDir, "static"),
		oidcConfig: oidcConfig,
	}, nil
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/signup", s.handleSignup)
	mux.HandleFunc("/logout", s.handleLogout)

	mux.HandleFunc("/main2", s.requirePage(s.handleListPage))
	mux.HandleFunc("/main3-1", s.requirePage(s.handleBoardPage))
	mux.HandleFunc("/main3-2", s.handleCategoryPage)
	mux.HandleFunc("/update", s.handleUpdate)

	mux.HandleFunc("/save_data", s.requireJSON(s.handleSaveData))
	mux.HandleFunc("/delete_data", s.requireJSON(s.handleDeleteData))

	mux.HandleFunc("/auth/sso/login", s.handleSSOLogin)
	mux.HandleFunc("/auth/sso/callback", s.handleSSOCallback)

	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(s.staticDir))))

	return s.loggingMiddleware(mux)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	t, ok := s.tmpl[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}
