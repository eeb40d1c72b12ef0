package app

import (
	"context"
	"errors"

	"notekeep/internal/domain"
)

var (
	// ErrMissingFields indicates that a required entry field was empty.
	ErrMissingFields = errors.New("all fields are required")
	// ErrNotFound indicates that no entry exists with the requested id.
	ErrNotFound = errors.New("entry not found")
	// ErrNotOwner indicates an attempt to read or mutate another user's entry.
	ErrNotOwner = errors.New("entry belongs to another user")
)

// EntryService encapsulates note CRUD use cases. Every operation that takes
// an entry id resolves the owning username first and compares it against the
// caller's before proceeding.
type EntryService struct {
	repo domain.EntryRepository
}

// NewEntryService creates an EntryService backed by the given repository.
func NewEntryService(repo domain.EntryRepository) *EntryService {
	return &EntryService{repo: repo}
}

// Create validates and stores a new entry for username. The username comes
// from the caller's session, never from client input.
func (s *EntryService) Create(ctx context.Context, username, category, content, date string) error {
	if username == "" || category == "" || content == "" || date == "" {
		return ErrMissingFields
	}
	_, err := s.repo.Create(ctx, username, category, date, content)
	return err
}

// ListGrouped returns the user's entries grouped by category. Groups appear
// in first-seen order over the id-ascending entry sequence; contents keep
// insertion order within each group.
func (s *EntryService) ListGrouped(ctx context.Context, username string) ([]domain.CategoryGroup, error) {
	entries, err := s.repo.ListByUser(ctx, username)
	if err != nil {
		return nil, err
	}

	groups := []domain.CategoryGroup{}
	index := map[string]int{}
	for _, e := range entries {
		i, ok := index[e.Category]
		if !ok {
			i = len(groups)
			index[e.Category] = i
			groups = append(groups, domain.CategoryGroup{Category: e.Category})
		}
		groups[i].Contents = append(groups[i].Contents, e.Content)
	}
	return groups, nil
}

// ListFlat returns one record per entry for username, ordered by id.
func (s *EntryService) ListFlat(ctx context.Context, username string) ([]domain.Entry, error) {
	return s.repo.ListByUser(ctx, username)
}

// Get returns the entry with the given id if it belongs to username.
func (s *EntryService) Get(ctx context.Context, username string, id int64) (*domain.Entry, error) {
	return s.ownedEntry(ctx, username, id)
}

// Update overwrites the category, content and date of an owned entry.
// Ownership is never reassigned.
func (s *EntryService) Update(ctx context.Context, username string, id int64, category, content, date string) error {
	if category == "" || content == "" || date == "" {
		return ErrMissingFields
	}
	if _, err := s.ownedEntry(ctx, username, id); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, category, date, content)
}

// Delete removes an owned entry. The delete statement stays scoped by id
// and username so a concurrent ownership mismatch deletes nothing.
func (s *EntryService) Delete(ctx context.Context, username string, id int64) error {
	if _, err := s.ownedEntry(ctx, username, id); err != nil {
		return err
	}
	n, err := s.repo.Delete(ctx, id, username)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *EntryService) ownedEntry(ctx context.Context, username string, id int64) (*domain.Entry, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrNotFound
	}
	if entry.Username != username {
		return nil, ErrNotOwner
	}
	return entry, nil
}
