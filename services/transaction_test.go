package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/blog-backend/database"
	"github.com/rpupo63/blog-backend/database/dbtest"
	"github.com/rpupo63/blog-backend/errs"
	"github.com/rpupo63/blog-backend/models"
)

func TestRunInTransaction(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	t.Run("plain errors become transaction failures", func(t *testing.T) {
		err := runInTransaction(ctx, db, "create tag", func(tx database.Database) error {
			require.NoError(t, tx.TagRepo().Add(ctx, &models.Tag{Name: "rolled-back"}))
			return errors.New("commit refused")
		})
		assert.True(t, errs.IsTransactionFailedError(err), "got %v", err)
		assert.Equal(t, 500, errs.StatusCode(err))

		_, err = db.TagRepo().FindByName(ctx, "rolled-back")
		assert.Error(t, err)
	})

	t.Run("api errors pass through", func(t *testing.T) {
		notFound := errs.NewPostNotFoundError(9)
		err := runInTransaction(ctx, db, "update blog post", func(tx database.Database) error {
			return notFound
		})
		assert.Same(t, notFound, err)
		assert.False(t, errs.IsTransactionFailedError(err))
	})

	t.Run("success", func(t *testing.T) {
		err := runInTransaction(ctx, db, "create tag", func(tx database.Database) error {
			return tx.TagRepo().Add(ctx, &models.Tag{Name: "kept"})
		})
		require.NoError(t, err)
	})
}
