package adapthttp

import (
	"log"
	"net/http"
	"time"

	"notekeep/internal/domain"
)

// currentUser resolves the requesting user, or nil when the request carries
// no valid credentials. A forward auth header takes precedence over the
// session cookie.
func (s *Server) currentUser(r *http.Request) *domain.User {
	if remoteUser := r.Header.Get("Remote-User"); remoteUser != "" {
		user, err := s.auth.ValidateForwardAuth(r.Context(), remoteUser)
		if err == nil && user != nil {
			return user
		}
	}

	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}
	user, err := s.auth.ValidateSession(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}
	return user
}

// requirePage gates an HTML page behind a session; anonymous requests are
// redirected to the landing page.
func (s *Server) requirePage(next func(http.ResponseWriter, *http.Request, *domain.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := s.currentUser(r)
		if user == nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next(w, r, user)
	}
}

// requireJSON gates a JSON endpoint behind a session; anonymous requests get
// a 401 failure payload.
func (s *Server) requireJSON(next func(http.ResponseWriter, *http.Request, *domain.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := s.currentUser(r)
		if user == nil {
			writeResult(w, http.StatusUnauthorized, false, "login required")
			return
		}
		next(w, r, user)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs method, path, status and duration for each request.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
