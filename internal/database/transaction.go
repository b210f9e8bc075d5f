package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// TxFunc is executed inside a transaction.
type TxFunc func(tx *gorm.DB) error

// WithTransaction runs fn in a transaction bound to ctx.
// The transaction is rolled back if fn returns an error or panics, and
// committed otherwise.
func (d *Database) WithTransaction(ctx context.Context, fn TxFunc) (err error) {
	tx := d.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// WithTransactionResult is WithTransaction for functions producing a value.
func WithTransactionResult[T any](ctx context.Context, d *Database, fn func(tx *gorm.DB) (T, error)) (T, error) {
	var result T
	err := d.WithTransaction(ctx, func(tx *gorm.DB) error {
		var fnErr error
		result, fnErr = fn(tx)
		return fnErr
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
