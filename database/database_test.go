package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rpupo63/blog-backend/database"
	"github.com/rpupo63/blog-backend/database/dbtest"
	"github.com/rpupo63/blog-backend/models"
)

func seedPost(t *testing.T, db database.Database, title string, tagNames ...string) *models.BlogPost {
	t.Helper()
	ctx := context.Background()

	post := &models.BlogPost{Title: title, Text: title + " text"}
	require.NoError(t, db.BlogPostRepo().Add(ctx, post))

	var tags []*models.Tag
	for _, name := range tagNames {
		tag, err := db.TagRepo().FindByName(ctx, name)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			tag = &models.Tag{Name: name}
			require.NoError(t, db.TagRepo().Add(ctx, tag))
		} else {
			require.NoError(t, err)
		}
		tags = append(tags, tag)
	}
	require.NoError(t, db.BlogPostRepo().AttachTags(ctx, post, tags))
	return post
}

func TestBlogPostRepo_AddAndFind(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	post := seedPost(t, db, "First", "go", "sql")
	require.NotZero(t, post.ID)

	found, err := db.BlogPostRepo().FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "First", found.Title)
	assert.Equal(t, []string{"go", "sql"}, models.TagNames(found.Tags))

	all, err := db.BlogPostRepo().FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Len(t, all[0].Tags, 2)
}

func TestBlogPostRepo_FindByIDMissing(t *testing.T) {
	db := dbtest.New(t)

	_, err := db.BlogPostRepo().FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBlogPostRepo_AttachTagsIsIdempotent(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	post := seedPost(t, db, "Post", "go")

	tag, err := db.TagRepo().FindByName(ctx, "go")
	require.NoError(t, err)
	require.NoError(t, db.BlogPostRepo().AttachTags(ctx, post, []*models.Tag{tag}))

	found, err := db.BlogPostRepo().FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, found.Tags, 1)
	assert.Len(t, post.Tags, 1)
}

func TestBlogPostRepo_DetachTags(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	post := seedPost(t, db, "Post", "a", "b", "c")

	b, err := db.TagRepo().FindByName(ctx, "b")
	require.NoError(t, err)
	require.NoError(t, db.BlogPostRepo().DetachTags(ctx, post, []*models.Tag{b}))

	assert.Equal(t, []string{"a", "c"}, models.TagNames(post.Tags))
	found, err := db.BlogPostRepo().FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, models.TagNames(found.Tags))

	ids, err := db.TagRepo().FindPostIDs(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestBlogPostRepo_Update(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	post := seedPost(t, db, "Before", "x")

	post.Title = "After"
	require.NoError(t, db.BlogPostRepo().Update(ctx, post))

	found, err := db.BlogPostRepo().FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", found.Title)
	assert.Equal(t, []string{"x"}, models.TagNames(found.Tags))
}

func TestTagRepo_ReferencesFromBothSides(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	one := seedPost(t, db, "One", "shared", "only-one")
	two := seedPost(t, db, "Two", "shared")

	shared, err := db.TagRepo().FindByName(ctx, "shared")
	require.NoError(t, err)

	ids, err := db.TagRepo().FindPostIDs(ctx, shared.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{one.ID, two.ID}, ids)

	tags, err := db.TagRepo().FindReferencingPost(ctx, one.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"shared", "only-one"}, models.TagNames(tags))

	require.NoError(t, db.TagRepo().RemovePostReference(ctx, shared, one.ID))
	ids, err = db.TagRepo().FindPostIDs(ctx, shared.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{two.ID}, ids)
}

func TestTagRepo_RemoveAllPostReferences(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	one := seedPost(t, db, "One", "gone")
	seedPost(t, db, "Two", "gone")

	gone, err := db.TagRepo().FindByName(ctx, "gone")
	require.NoError(t, err)
	require.NoError(t, db.TagRepo().RemoveAllPostReferences(ctx, gone.ID))
	require.NoError(t, db.TagRepo().Delete(ctx, gone.ID))

	found, err := db.BlogPostRepo().FindByID(ctx, one.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Tags)
}

func TestTagRepo_UniqueName(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	require.NoError(t, db.TagRepo().Add(ctx, &models.Tag{Name: "java"}))
	assert.Error(t, db.TagRepo().Add(ctx, &models.Tag{Name: "java"}))
}

func TestTagRepo_FindByNames(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	require.NoError(t, db.TagRepo().Add(ctx, &models.Tag{Name: "a"}))
	require.NoError(t, db.TagRepo().Add(ctx, &models.Tag{Name: "b"}))

	tags, err := db.TagRepo().FindByNames(ctx, []string{"b", "missing"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, models.TagNames(tags))

	tags, err = db.TagRepo().FindByNames(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestDatabase_TransactionRollsBack(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.Transaction(ctx, func(tx database.Database) error {
		require.NoError(t, tx.TagRepo().Add(ctx, &models.Tag{Name: "temporary"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = db.TagRepo().FindByName(ctx, "temporary")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDatabase_Ping(t *testing.T) {
	db := dbtest.New(t)

	assert.NoError(t, db.Ping(context.Background()))
}

func TestOpen_RejectsUnknownType(t *testing.T) {
	_, err := database.Open(map[string]string{"DB_TYPE": "oracle"})
	assert.ErrorContains(t, err, `unsupported DB_TYPE "oracle"`)
}

func TestOpen_PostgresNeedsURL(t *testing.T) {
	_, err := database.Open(map[string]string{"DB_TYPE": "postgres"})
	assert.ErrorContains(t, err, "DATABASE_URL is required")
}

func TestOpen_SQLiteFile(t *testing.T) {
	path := t.TempDir() + "/blog.db"

	gdb, err := database.Open(map[string]string{"DB_TYPE": "sqlite", "SQLITE_PATH": path})
	require.NoError(t, err)
	db := database.New(gdb)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate())
	assert.NoError(t, db.Ping(context.Background()))
}
