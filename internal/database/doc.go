// Package database provides the data access layer for the catalog.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup (SQLite or PostgreSQL), migrations
//	├── transaction.go   # WithTransaction unit of work
//	├── errors.go        # ErrNotFound, ErrConflict, constraint translation
//	├── authors/         # Author store
//	├── publishers/      # Publisher store
//	├── categories/      # Category store
//	├── books/           # Book store and link-row reads
//	├── links/           # book_authors / book_categories reconciliation
//	├── users/           # User accounts
//	└── audit/           # Audit event persistence
//
// # Using Sub-packages
//
// Each sub-package provides a Repository built from a *gorm.DB:
//
//	db, err := database.NewDatabase(cfg.Database)
//
//	authorsRepo := authors.NewRepository(db.DB)
//	author, err := authorsRepo.Get(ctx, 12)
//
// Repositories expose WithTx so several of them can share one transaction:
//
//	err := db.WithTransaction(ctx, func(tx *gorm.DB) error {
//		book, err := booksRepo.WithTx(tx).Create(ctx, input)
//		if err != nil {
//			return err
//		}
//		return reconciler.WithTx(tx).Replace(ctx, links.Authors, book.ID, input.AuthorIDs)
//	})
//
// # Missing Rows
//
// Get and Update return a *NotFoundError (matching ErrNotFound) when the
// row does not exist. Constraint violations are translated to ErrConflict
// and ErrInvalidReference; everything else is passed through unchanged.
package database
