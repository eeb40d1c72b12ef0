package adapthttp

import (
	"net/http"

	"notekeep/internal/domain"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	user := s.currentUser(r)
	if user == nil {
		s.render(w, "index", map[string]any{})
		return
	}

	groups, err := s.entries.ListGrouped(r.Context(), user.Username)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.render(w, "index", map[string]any{
		"User":   user,
		"Groups": groups,
	})
}

func (s *Server) handleListPage(w http.ResponseWriter, r *http.Request, user *domain.User) {
	entries, err := s.entries.ListFlat(r.Context(), user.Username)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.render(w, "main2", map[string]any{
		"User":    user,
		"Entries": entries,
	})
}

func (s *Server) handleBoardPage(w http.ResponseWriter, r *http.Request, user *domain.User) {
	s.render(w, "main3-1", map[string]any{"User": user})
}

// handleCategoryPage forwards the category query parameter to the view for
// client-side filtering. It carries no state and needs no session.
func (s *Server) handleCategoryPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.render(w, "main3-2", map[string]any{
		"User":     s.currentUser(r),
		"Category": r.URL.Query().Get("category"),
	})
}
