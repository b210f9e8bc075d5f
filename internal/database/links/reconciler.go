// Package links maintains the book_authors and book_categories link tables.
//
// Three strategies are offered:
//
//   - Replace deletes every link of a book, then inserts the requested set.
//   - Add inserts only the requested ids that are not already linked.
//   - Remove deletes the requested ids without checking which were linked.
//
// Requested id lists are de-duplicated, first occurrence wins. Link changes
// never touch the book row, so its updated_at is left alone. Callers that
// need atomicity with other writes bind the reconciler to a transaction
// with WithTx.
//
// # Usage
//
//	r := links.NewReconciler(db)
//	added, err := r.Add(ctx, links.Authors, bookID, []uint{1, 2})
package links

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/entities"
)

// Kind describes one link table keyed by book_id.
type Kind struct {
	Name   string
	Table  string
	Column string
	// Label is the plural-agnostic noun used in result messages.
	Label string

	newRows func(bookID uint, ids []uint, at time.Time) interface{}
}

var (
	Authors = Kind{
		Name:   "authors",
		Table:  entities.BookAuthor{}.TableName(),
		Column: "author_id",
		Label:  "author(s)",
		newRows: func(bookID uint, ids []uint, at time.Time) interface{} {
			rows := make([]entities.BookAuthor, 0, len(ids))
			for _, id := range ids {
				rows = append(rows, entities.BookAuthor{BookID: bookID, AuthorID: id, CreatedAt: at})
			}
			return &rows
		},
	}

	Categories = Kind{
		Name:   "categories",
		Table:  entities.BookCategory{}.TableName(),
		Column: "category_id",
		Label:  "category(ies)",
		newRows: func(bookID uint, ids []uint, at time.Time) interface{} {
			rows := make([]entities.BookCategory, 0, len(ids))
			for _, id := range ids {
				rows = append(rows, entities.BookCategory{BookID: bookID, CategoryID: id, CreatedAt: at})
			}
			return &rows
		},
	}
)

type Reconciler struct {
	db *gorm.DB
}

func NewReconciler(db *gorm.DB) *Reconciler {
	return &Reconciler{db: db}
}

// WithTx returns a reconciler bound to the given transaction.
func (r *Reconciler) WithTx(tx *gorm.DB) *Reconciler {
	return &Reconciler{db: tx}
}

// Replace makes ids the complete link set of the book. Existing links are
// deleted unconditionally; no diffing takes place.
func (r *Reconciler) Replace(ctx context.Context, kind Kind, bookID uint, ids []uint) error {
	db := r.db.WithContext(ctx)

	err := db.Exec(fmt.Sprintf("DELETE FROM %s WHERE book_id = ?", kind.Table), bookID).Error
	if err != nil {
		return fmt.Errorf("failed to clear %s of book %d: %w", kind.Table, bookID, err)
	}

	return r.insert(db, kind, bookID, Dedupe(ids))
}

// Add links the ids that are not linked yet and returns how many rows were
// inserted. Calling it twice with the same ids inserts nothing the second time.
func (r *Reconciler) Add(ctx context.Context, kind Kind, bookID uint, ids []uint) (int, error) {
	requested := Dedupe(ids)
	if len(requested) == 0 {
		return 0, nil
	}

	db := r.db.WithContext(ctx)

	var existing []uint
	err := db.Table(kind.Table).
		Where("book_id = ?", bookID).
		Where(fmt.Sprintf("%s IN ?", kind.Column), requested).
		Pluck(kind.Column, &existing).Error
	if err != nil {
		return 0, fmt.Errorf("failed to read %s of book %d: %w", kind.Table, bookID, err)
	}

	newIDs := Difference(requested, existing)
	if err := r.insert(db, kind, bookID, newIDs); err != nil {
		return 0, err
	}
	return len(newIDs), nil
}

// Remove unlinks the ids. Ids that were not linked are ignored.
func (r *Reconciler) Remove(ctx context.Context, kind Kind, bookID uint, ids []uint) error {
	requested := Dedupe(ids)
	if len(requested) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Exec(fmt.Sprintf("DELETE FROM %s WHERE book_id = ? AND %s IN ?", kind.Table, kind.Column), bookID, requested).
		Error
	if err != nil {
		return fmt.Errorf("failed to remove %s of book %d: %w", kind.Table, bookID, err)
	}
	return nil
}

// Linked returns the ids currently linked to the book, ascending.
func (r *Reconciler) Linked(ctx context.Context, kind Kind, bookID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Table(kind.Table).
		Where("book_id = ?", bookID).
		Order(kind.Column).
		Pluck(kind.Column, &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read %s of book %d: %w", kind.Table, bookID, err)
	}
	return ids, nil
}

func (r *Reconciler) insert(db *gorm.DB, kind Kind, bookID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := db.Create(kind.newRows(bookID, ids, time.Now())).Error; err != nil {
		return fmt.Errorf("failed to link %s to book %d: %w", kind.Label, bookID, database.Translate(err))
	}
	return nil
}

// Dedupe drops repeated ids, keeping the first occurrence.
func Dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Difference returns the ids of requested that are absent from existing,
// in requested order.
func Difference(requested, existing []uint) []uint {
	skip := make(map[uint]struct{}, len(existing))
	for _, id := range existing {
		skip[id] = struct{}{}
	}
	out := make([]uint, 0, len(requested))
	for _, id := range requested {
		if _, ok := skip[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
