package domain

import "context"

// Entry is a single stored note belonging to a user. Date is a free-text
// date string supplied by the client; the server does not interpret it.
type Entry struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Category string `json:"category"`
	Date     string `json:"date"`
	Content  string `json:"content"`
}

// CategoryGroup is one category with the contents of its entries, in
// insertion order.
type CategoryGroup struct {
	Category string   `json:"category"`
	Contents []string `json:"contents"`
}

// EntryRepository is the port for note persistence. ListByUser returns
// entries ordered by id ascending; GetByID returns (nil, nil) when no row
// matches. Delete is scoped by both id and username and reports the number
// of rows removed.
type EntryRepository interface {
	Create(ctx context.Context, username, category, date, content string) (int64, error)
	GetByID(ctx context.Context, id int64) (*Entry, error)
	ListByUser(ctx context.Context, username string) ([]Entry, error)
	Update(ctx context.Context, id int64, category, date, content string) error
	Delete(ctx context.Context, id int64, username string) (int64, error)
}
