package postgres

import (
	"context"
	"database/sql"

	"notekeep/internal/domain"
)

// EntryRepo implements entry repository operations on DB.
type EntryRepo struct {
	db *DB
}

// NewEntryRepo wraps a DB as an EntryRepository.
func NewEntryRepo(db *DB) *EntryRepo {
	return &EntryRepo{db: db}
}

// Create inserts a new entry and returns its id.
func (r *EntryRepo) Create(ctx context.Context, username, category, date, content string) (int64, error) {
	var id int64
	err := r.db.sql.QueryRowContext(ctx,
		"INSERT INTO user_data (username, category, date, content) VALUES ($1, $2, $3, $4) RETURNING id;",
		username, category, date, content,
	).Scan(&id)
	return id, err
}

// GetByID retrieves an entry by id regardless of owner. Callers are
// responsible for the owner check.
func (r *EntryRepo) GetByID(ctx context.Context, id int64) (*domain.Entry, error) {
	var e domain.Entry
	err := r.db.sql.QueryRowContext(ctx,
		"SELECT id, username, category, date, content FROM user_data WHERE id = $1;",
		id,
	).Scan(&e.ID, &e.Username, &e.Category, &e.Date, &e.Content)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListByUser returns all of a user's entries ordered by id ascending.
func (r *EntryRepo) ListByUser(ctx context.Context, username string) ([]domain.Entry, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		"SELECT id, username, category, date, content FROM user_data WHERE username = $1 ORDER BY id ASC;",
		username)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.Entry
	for rows.Next() {
		var e domain.Entry
		if err := rows.Scan(&e.ID, &e.Username, &e.Category, &e.Date, &e.Content); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Update overwrites the mutable fields of an entry by id.
func (r *EntryRepo) Update(ctx context.Context, id int64, category, date, content string) error {
	_, err := r.db.sql.ExecContext(ctx,
		"UPDATE user_data SET category = $1, date = $2, content = $3 WHERE id = $4;",
		category, date, content, id)
	return err
}

// Delete removes an entry by id, scoped to a username, and reports how many
// rows were removed.
func (r *EntryRepo) Delete(ctx context.Context, id int64, username string) (int64, error) {
	res, err := r.db.sql.ExecContext(ctx,
		"DELETE FROM user_data WHERE id = $1 AND username = $2;", id, username)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
