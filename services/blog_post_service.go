package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rpupo63/blog-backend/database"
	"github.com/rpupo63/blog-backend/errs"
	"github.com/rpupo63/blog-backend/models"
)

// BlogPostService owns blog posts and keeps their tag links consistent.
//
// Update and Patch only ever add tags. Removing tags goes through
// RemoveTagFromBlogPost so a partial payload can never drop tags silently.
type BlogPostService struct {
	db     database.Database
	tags   *TagRegistry
	logger zerolog.Logger
}

func NewBlogPostService(db database.Database, tags *TagRegistry) *BlogPostService {
	return &BlogPostService{
		db:     db,
		tags:   tags,
		logger: log.With().Str("serviceName", "blogPostService").Logger(),
	}
}

func (s *BlogPostService) FindAll(ctx context.Context) ([]models.BlogPostDTO, error) {
	s.logger.Trace().Msg("listing blog posts")

	posts, err := s.db.BlogPostRepo().FindAll(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "blog posts", err)
	}
	return models.ToBlogPostDTOs(posts), nil
}

func (s *BlogPostService) FindByID(ctx context.Context, id uint) (models.BlogPostDTO, error) {
	s.logger.Trace().Uint("blogPostID", id).Msg("finding blog post")

	post, err := s.findPost(ctx, s.db, id)
	if err != nil {
		return models.BlogPostDTO{}, err
	}
	return models.ToBlogPostDTO(post), nil
}

// Create saves a new post and links it to its tags, creating missing tags
func (s *BlogPostService) Create(ctx context.Context, dto models.BlogPostDTO) (models.BlogPostDTO, error) {
	s.logger.Trace().Str("title", dto.Title).Msg("creating blog post")

	if err := validateStruct(dto); err != nil {
		return models.BlogPostDTO{}, err
	}

	post := models.NewBlogPost(dto)
	err := runInTransaction(ctx, s.db, "create blog post", func(tx database.Database) error {
		if err := tx.BlogPostRepo().Add(ctx, post); err != nil {
			return errs.NewDatabaseError("create", "blog post", err)
		}
		return s.mergeTags(ctx, tx, post, dto.Tags)
	})
	if err != nil {
		return models.BlogPostDTO{}, err
	}
	return models.ToBlogPostDTO(post), nil
}

// Update replaces title and text and adds the payload's tags to the post
func (s *BlogPostService) Update(ctx context.Context, id uint, dto models.BlogPostDTO) (models.BlogPostDTO, error) {
	s.logger.Trace().Uint("blogPostID", id).Msg("updating blog post")

	if err := validateStruct(dto); err != nil {
		return models.BlogPostDTO{}, err
	}

	return s.mutate(ctx, id, "update blog post", func(tx database.Database, post *models.BlogPost) error {
		post.Title = dto.Title
		post.Text = dto.Text
		if err := tx.BlogPostRepo().Update(ctx, post); err != nil {
			return errs.NewDatabaseError("update", "blog post", err)
		}
		return s.mergeTags(ctx, tx, post, dto.Tags)
	})
}

// Patch changes only the non-empty fields of dto; tags are added, never removed
func (s *BlogPostService) Patch(ctx context.Context, id uint, dto models.BlogPostDTO) (models.BlogPostDTO, error) {
	s.logger.Trace().Uint("blogPostID", id).Msg("patching blog post")

	if err := toApiErr(validate.Var(dto.Tags, "omitempty,dive,notblank"), "tags"); err != nil {
		return models.BlogPostDTO{}, err
	}

	return s.mutate(ctx, id, "patch blog post", func(tx database.Database, post *models.BlogPost) error {
		if dto.Title != "" {
			post.Title = dto.Title
		}
		if dto.Text != "" {
			post.Text = dto.Text
		}
		if err := tx.BlogPostRepo().Update(ctx, post); err != nil {
			return errs.NewDatabaseError("update", "blog post", err)
		}
		if len(dto.Tags) == 0 {
			return nil
		}
		return s.mergeTags(ctx, tx, post, dto.Tags)
	})
}

// AddTagToBlogPost links the named tags to the post, creating missing tags
func (s *BlogPostService) AddTagToBlogPost(ctx context.Context, id uint, tagNames []string) (models.BlogPostDTO, error) {
	s.logger.Trace().Uint("blogPostID", id).Strs("tags", tagNames).Msg("adding tags to blog post")

	if err := validateTagNames(tagNames); err != nil {
		return models.BlogPostDTO{}, err
	}

	return s.mutate(ctx, id, "add tags to blog post", func(tx database.Database, post *models.BlogPost) error {
		return s.mergeTags(ctx, tx, post, tagNames)
	})
}

// RemoveTagFromBlogPost unlinks the named tags from the post. Every name must
// be a registered tag; if one is not, nothing is removed.
func (s *BlogPostService) RemoveTagFromBlogPost(ctx context.Context, id uint, tagNames []string) (models.BlogPostDTO, error) {
	s.logger.Trace().Uint("blogPostID", id).Strs("tags", tagNames).Msg("removing tags from blog post")

	if err := validateTagNames(tagNames); err != nil {
		return models.BlogPostDTO{}, err
	}

	return s.mutate(ctx, id, "remove tags from blog post", func(tx database.Database, post *models.BlogPost) error {
		tags, err := s.tags.WithTx(tx).Lookup(ctx, tagNames)
		if err != nil {
			return err
		}
		if err := tx.BlogPostRepo().DetachTags(ctx, post, tags); err != nil {
			return errs.NewDatabaseError("unlink", "blog post tags", err)
		}
		return nil
	})
}

// DeleteByID strips the post out of every tag referencing it, then deletes it
func (s *BlogPostService) DeleteByID(ctx context.Context, id uint) error {
	s.logger.Trace().Uint("blogPostID", id).Msg("deleting blog post")

	return runInTransaction(ctx, s.db, "delete blog post", func(tx database.Database) error {
		post, err := s.findPost(ctx, tx, id)
		if err != nil {
			return err
		}

		tags, err := tx.TagRepo().FindReferencingPost(ctx, post.ID)
		if err != nil {
			return errs.NewDatabaseError("find", "tags", err)
		}
		for _, tag := range tags {
			if err := tx.TagRepo().RemovePostReference(ctx, tag, post.ID); err != nil {
				return errs.NewDatabaseError("unlink", "tag", err)
			}
		}

		if err := tx.BlogPostRepo().Delete(ctx, post.ID); err != nil {
			return errs.NewDatabaseError("delete", "blog post", err)
		}
		return nil
	})
}

// mutate loads the post inside a transaction, applies fn and returns the result
func (s *BlogPostService) mutate(ctx context.Context, id uint, operation string, fn func(tx database.Database, post *models.BlogPost) error) (models.BlogPostDTO, error) {
	var post *models.BlogPost
	err := runInTransaction(ctx, s.db, operation, func(tx database.Database) error {
		var err error
		if post, err = s.findPost(ctx, tx, id); err != nil {
			return err
		}
		return fn(tx, post)
	})
	if err != nil {
		return models.BlogPostDTO{}, err
	}
	return models.ToBlogPostDTO(post), nil
}

// mergeTags resolves names (staging unknown ones), saves the staged tags and
// links all of them to the post. Existing links are left alone.
func (s *BlogPostService) mergeTags(ctx context.Context, tx database.Database, post *models.BlogPost, names []string) error {
	if len(names) == 0 {
		return nil
	}

	registry := s.tags.WithTx(tx)
	tags, err := registry.Resolve(ctx, names)
	if err != nil {
		return err
	}
	if err := registry.PersistStaged(ctx, tags); err != nil {
		return err
	}
	if err := tx.BlogPostRepo().AttachTags(ctx, post, tags); err != nil {
		return errs.NewDatabaseError("link", "blog post tags", err)
	}
	return nil
}

func (s *BlogPostService) findPost(ctx context.Context, db database.Database, id uint) (*models.BlogPost, error) {
	post, err := db.BlogPostRepo().FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error().Uint("blogPostID", id).Msg("blog post not found")
		return nil, errs.NewPostNotFoundError(id)
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "blog post", err)
	}
	return post, nil
}
