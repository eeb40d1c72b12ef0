package adapthttp_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	adapthttp "notekeep/internal/adapter/http"
	"notekeep/internal/adapter/memory"
	"notekeep/internal/app"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	db := memory.New()
	authSvc := app.NewAuthService(db, db.NewSessionRepo())
	entrySvc := app.NewEntryService(db.NewEntryRepo())

	srv, err := adapthttp.New(authSvc, entrySvc, filepath.Join("..", "..", "..", "web"), adapthttp.OIDCConfig{})
	if err != nil {
		t.Fatalf("server setup: %v", err)
	}
	return srv.Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

// signupAndLogin registers a user and returns the session cookie.
func signupAndLogin(t *testing.T, h http.Handler, username, password string) *http.Cookie {
	t.Helper()

	w := doJSON(t, h, http.MethodPost, "/signup", map[string]string{"username": username, "password": password}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("signup: status %d body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, h, http.MethodPost, "/login", map[string]string{"username": username, "password": password}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login: status %d body %s", w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" && c.Value != "" {
			return c
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func TestSignup_DuplicateUsername(t *testing.T) {
	h := newTestServer(t)

	w := doJSON(t, h, http.MethodPost, "/signup", map[string]string{"username": "alice", "password": "pw1"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("first signup: status %d", w.Code)
	}

	w = doJSON(t, h, http.MethodPost, "/signup", map[string]string{"username": "alice", "password": "pw2"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("duplicate signup: expected 400, got %d", w.Code)
	}
	res := decodeResult(t, w)
	if res["success"] != false {
		t.Error("duplicate signup must fail")
	}
	if msg, _ := res["message"].(string); !strings.Contains(msg, "exists") {
		t.Errorf("expected a distinct duplicate message, got %q", msg)
	}

	// First password still works: the failed signup mutated nothing.
	w = doJSON(t, h, http.MethodPost, "/login", map[string]string{"username": "alice", "password": "pw1"}, nil)
	if w.Code != http.StatusOK {
		t.Errorf("original credentials broken after duplicate signup: %d", w.Code)
	}
}

func TestSignup_MissingFields(t *testing.T) {
	h := newTestServer(t)

	w := doJSON(t, h, http.MethodPost, "/signup", map[string]string{"username": "", "password": "pw"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if res := decodeResult(t, w); res["success"] != false {
		t.Error("expected failure payload")
	}
}

func TestLogin_NoCredentialOracle(t *testing.T) {
	h := newTestServer(t)
	signupAndLogin(t, h, "alice", "pw1")

	wrongPass := doJSON(t, h, http.MethodPost, "/login", map[string]string{"username": "alice", "password": "nope"}, nil)
	unknownUser := doJSON(t, h, http.MethodPost, "/login", map[string]string{"username": "mallory", "password": "nope"}, nil)

	if wrongPass.Code != http.StatusUnauthorized || unknownUser.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrongPass.Code, unknownUser.Code)
	}
	if wrongPass.Body.String() != unknownUser.Body.String() {
		t.Errorf("failure responses must be indistinguishable: %q vs %q",
			wrongPass.Body.String(), unknownUser.Body.String())
	}
}

func TestSaveData_RequiresSession(t *testing.T) {
	h := newTestServer(t)

	w := doJSON(t, h, http.MethodPost, "/save_data",
		map[string]string{"category": "todo", "content": "x", "date": "2024-01-01"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if res := decodeResult(t, w); res["success"] != false {
		t.Error("expected failure payload")
	}
}

func TestDeleteData_RequiresSession(t *testing.T) {
	h := newTestServer(t)

	w := doJSON(t, h, http.MethodPost, "/delete_data", map[string]int{"id": 1}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestPages_RedirectWhenAnonymous(t *testing.T) {
	h := newTestServer(t)

	for _, path := range []string{"/main2", "/main3-1", "/update?user_data_id=1"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusSeeOther {
			t.Errorf("GET %s: expected redirect, got %d", path, w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "/" {
			t.Errorf("GET %s: expected redirect to /, got %q", path, loc)
		}
	}
}

func TestCategoryPage_NoAuthRequired(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/main3-2?category=todo", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "todo") {
		t.Error("category parameter not passed through to the view")
	}
}

func TestNoteLifecycle(t *testing.T) {
	h := newTestServer(t)
	cookie := signupAndLogin(t, h, "alice", "pw1")

	w := doJSON(t, h, http.MethodPost, "/save_data",
		map[string]string{"category": "todo", "content": "buy milk", "date": "2024-01-01"}, []*http.Cookie{cookie})
	if w.Code != http.StatusOK {
		t.Fatalf("save: status %d body %s", w.Code, w.Body.String())
	}

	// Grouped view on the landing page.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("index: status %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "todo") || !strings.Contains(body, "buy milk") {
		t.Errorf("index missing grouped note, body: %s", body)
	}
	if strings.Count(body, "buy milk") != 1 {
		t.Errorf("entry content must appear exactly once")
	}

	// Flat list.
	req = httptest.NewRequest(http.MethodGet, "/main2", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "buy milk") {
		t.Errorf("main2: status %d", rec.Code)
	}

	// Update round trip.
	w = doJSON(t, h, http.MethodPut, "/update",
		map[string]any{"category": "errands", "content": "buy oat milk", "date": "2024-01-02", "user_data_id": 1},
		[]*http.Cookie{cookie})
	if w.Code != http.StatusOK {
		t.Fatalf("update: status %d body %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/update?user_data_id=1", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "buy oat milk") {
		t.Errorf("update page: status %d body %s", rec.Code, rec.Body.String())
	}

	// Delete.
	w = doJSON(t, h, http.MethodPost, "/delete_data", map[string]int{"id": 1}, []*http.Cookie{cookie})
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status %d body %s", w.Code, w.Body.String())
	}
	w = doJSON(t, h, http.MethodPost, "/delete_data", map[string]int{"id": 1}, []*http.Cookie{cookie})
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", w.Code)
	}
}

func TestCrossUserAccessDenied(t *testing.T) {
	h := newTestServer(t)
	alice := signupAndLogin(t, h, "alice", "pw1")
	bob := signupAndLogin(t, h, "bob", "pw2")

	w := doJSON(t, h, http.MethodPost, "/save_data",
		map[string]string{"category": "secret", "content": "alice only", "date": "2024-01-01"}, []*http.Cookie{alice})
	if w.Code != http.StatusOK {
		t.Fatalf("save: status %d", w.Code)
	}

	// Bob cannot read, update or delete alice's entry.
	req := httptest.NewRequest(http.MethodGet, "/update?user_data_id=1", nil)
	req.AddCookie(bob)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("edit page: expected 403, got %d", rec.Code)
	}

	w = doJSON(t, h, http.MethodPut, "/update",
		map[string]any{"category": "x", "content": "hijack", "date": "2024-01-02", "user_data_id": 1}, []*http.Cookie{bob})
	if w.Code != http.StatusForbidden {
		t.Errorf("update: expected 403, got %d", w.Code)
	}

	w = doJSON(t, h, http.MethodPost, "/delete_data", map[string]int{"id": 1}, []*http.Cookie{bob})
	if w.Code != http.StatusForbidden {
		t.Errorf("delete: expected 403, got %d", w.Code)
	}

	// The entry is untouched for alice.
	req = httptest.NewRequest(http.MethodGet, "/update?user_data_id=1", nil)
	req.AddCookie(alice)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "alice only") {
		t.Errorf("entry changed after denied access: status %d", rec.Code)
	}
}

func TestLogout_InvalidatesSession(t *testing.T) {
	h := newTestServer(t)
	cookie := signupAndLogin(t, h, "alice", "pw1")

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("logout: expected redirect, got %d", rec.Code)
	}

	// Old token no longer opens gated pages.
	req = httptest.NewRequest(http.MethodGet, "/main2", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected redirect after logout, got %d", rec.Code)
	}
}

func TestForwardAuthHeader(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/main2", nil)
	req.Header.Set("Remote-User", "proxyuser")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("forward auth: expected 200, got %d", rec.Code)
	}
}

func TestSSORoutesDisabledByDefault(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/sso/login", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 with SSO disabled, got %d", rec.Code)
	}
}
