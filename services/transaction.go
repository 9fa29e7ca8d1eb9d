package services

import (
	"context"
	"errors"

	"github.com/rpupo63/blog-backend/database"
	"github.com/rpupo63/blog-backend/errs"
)

// runInTransaction runs fn in one database transaction. Errors raised by fn
// come back unchanged; anything else (begin/commit failures) is reported as a
// failed transaction for operation.
func runInTransaction(ctx context.Context, db database.Database, operation string, fn func(tx database.Database) error) error {
	err := db.Transaction(ctx, fn)
	if err == nil {
		return nil
	}
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return errs.NewTransactionFailedError(operation, err)
}
