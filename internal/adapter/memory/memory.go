// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"sync"
	"time"

	"notekeep/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu       sync.Mutex
	users    []*domain.User
	sessions map[string]*domain.Session
	entries  []domain.Entry

	userIDCounter  int64
	entryIDCounter int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		sessions: make(map[string]*domain.Session),
	}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)
var _ domain.EntryRepository = (*EntryRepo)(nil)

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return nil, domain.ErrDuplicateUsername
		}
	}

	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	return u, nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	s, ok := r.db.sessions[token]
	if !ok {
		return nil, nil
	}
	return s, nil
}

// Delete deletes a session by token.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := time.Now()
	for token, s := range r.db.sessions {
		if now.After(s.ExpiresAt) {
			delete(r.db.sessions, token)
		}
	}
	return nil
}

// --- EntryRepository ---

// EntryRepo implements entry persistence.
type EntryRepo struct {
	db *DB
}

// NewEntryRepo creates a new entry repository.
func (db *DB) NewEntryRepo() *EntryRepo {
	return &EntryRepo{db: db}
}

// Create inserts a new entry and returns its id.
func (r *EntryRepo) Create(ctx context.Context, username, category, date, content string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.entryIDCounter++
	e := domain.Entry{
		ID:       r.db.entryIDCounter,
		Username: username,
		Category: category,
		Date:     date,
		Content:  content,
	}
	r.db.entries = append(r.db.entries, e)
	return e.ID, nil
}

// GetByID retrieves an entry by id.
func (r *EntryRepo) GetByID(ctx context.Context, id int64) (*domain.Entry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.entries {
		if r.db.entries[i].ID == id {
			e := r.db.entries[i]
			return &e, nil
		}
	}
	return nil, nil
}

// ListByUser returns a user's entries ordered by id ascending. Entries are
// appended with increasing ids, so insertion order is id order.
func (r *EntryRepo) ListByUser(ctx context.Context, username string) ([]domain.Entry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var out []domain.Entry
	for _, e := range r.db.entries {
		if e.Username == username {
			out = append(out, e)
		}
	}
	return out, nil
}

// Update overwrites the mutable fields of an entry by id.
func (r *EntryRepo) Update(ctx context.Context, id int64, category, date, content string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.entries {
		if r.db.entries[i].ID == id {
			r.db.entries[i].Category = category
			r.db.entries[i].Date = date
			r.db.entries[i].Content = content
			return nil
		}
	}
	return nil
}

// Delete removes an entry by id and username, reporting rows removed.
func (r *EntryRepo) Delete(ctx context.Context, id int64, username string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i, e := range r.db.entries {
		if e.ID == id && e.Username == username {
			r.db.entries = append(r.db.entries[:i], r.db.entries[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}
