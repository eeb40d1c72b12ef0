package adapthttp

import (
	"errors"
	"net/http"
	"strconv"

	"notekeep/internal/app"
	"notekeep/internal/domain"
)

func (s *Server) handleSaveData(w http.ResponseWriter, r *http.Request, user *domain.User) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Category string `json:"category"`
		Content  string `json:"content"`
		Date     string `json:"date"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeResult(w, http.StatusBadRequest, false, "invalid request")
		return
	}

	// Username always comes from the session, never from the request body.
	if err := s.entries.Create(r.Context(), user.Username, req.Category, req.Content, req.Date); err != nil {
		writeServiceError(w, err)
		return
	}
	writeResult(w, http.StatusOK, true, "Data saved successfully")
}

func (s *Server) handleDeleteData(w http.ResponseWriter, r *http.Request, user *domain.User) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ID int64 `json:"id"`
	}
	if err := parseJSON(r, &req); err != nil || req.ID == 0 {
		writeResult(w, http.StatusBadRequest, false, "invalid request")
		return
	}

	if err := s.entries.Delete(r.Context(), user.Username, req.ID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeResult(w, http.StatusOK, true, "Data deleted successfully")
}

// handleUpdate serves the prefilled edit form on GET and applies the edit on
// PUT. Both sides go through the owner check.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.requirePage(s.handleUpdatePage)(w, r)
	case http.MethodPut:
		s.requireJSON(s.handleUpdateEntry)(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleUpdatePage(w http.ResponseWriter, r *http.Request, user *domain.User) {
	id, err := strconv.ParseInt(r.URL.Query().Get("user_data_id"), 10, 64)
	if err != nil || id == 0 {
		http.NotFound(w, r)
		return
	}

	entry, err := s.entries.Get(r.Context(), user.Username, id)
	switch {
	case errors.Is(err, app.ErrNotFound):
		http.NotFound(w, r)
		return
	case errors.Is(err, app.ErrNotOwner):
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	case err != nil:
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.render(w, "update", map[string]any{
		"User":  user,
		"Entry": entry,
	})
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request, user *domain.User) {
	var req struct {
		Category   string `json:"category"`
		Content    string `json:"content"`
		Date       string `json:"date"`
		UserDataID int64  `json:"user_data_id"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeResult(w, http.StatusBadRequest, false, "invalid request")
		return
	}

	if err := s.entries.Update(r.Context(), user.Username, req.UserDataID, req.Category, req.Content, req.Date); err != nil {
		writeServiceError(w, err)
		return
	}
	writeResult(w, http.StatusOK, true, "Data updated successfully")
}
