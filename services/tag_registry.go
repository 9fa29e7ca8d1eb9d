package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rpupo63/blog-backend/database"
	"github.com/rpupo63/blog-backend/errs"
	"github.com/rpupo63/blog-backend/models"
)

// TagRegistry owns tags and resolves tag names to tag rows
type TagRegistry struct {
	db     database.Database
	logger zerolog.Logger
}

func NewTagRegistry(db database.Database) *TagRegistry {
	return &TagRegistry{
		db:     db,
		logger: log.With().Str("serviceName", "tagRegistry").Logger(),
	}
}

// WithTx returns a registry whose reads and writes go through tx
func (r *TagRegistry) WithTx(tx database.Database) *TagRegistry {
	return &TagRegistry{db: tx, logger: r.logger}
}

func (r *TagRegistry) FindAll(ctx context.Context) ([]models.TagDTO, error) {
	r.logger.Trace().Msg("listing tags")

	tags, err := r.db.TagRepo().FindAll(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "tags", err)
	}
	return models.ToTagDTOs(tags), nil
}

func (r *TagRegistry) FindByID(ctx context.Context, id uint) (models.TagDTO, error) {
	r.logger.Trace().Uint("tagID", id).Msg("finding tag")

	tag, err := r.findTag(ctx, id)
	if err != nil {
		return models.TagDTO{}, err
	}
	return models.ToTagDTO(tag), nil
}

// FindByName is the strict lookup: a missing name is TagNotFound
func (r *TagRegistry) FindByName(ctx context.Context, name string) (models.TagDTO, error) {
	r.logger.Trace().Str("tagName", name).Msg("finding tag by name")

	tag, err := r.findTagByName(ctx, name)
	if err != nil {
		return models.TagDTO{}, err
	}
	return models.ToTagDTO(tag), nil
}

// FindPostIDs lists the blog posts carrying the tag
func (r *TagRegistry) FindPostIDs(ctx context.Context, id uint) ([]uint, error) {
	if _, err := r.findTag(ctx, id); err != nil {
		return nil, err
	}
	ids, err := r.db.TagRepo().FindPostIDs(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "tag posts", err)
	}
	return ids, nil
}

func (r *TagRegistry) Create(ctx context.Context, dto models.TagDTO) (models.TagDTO, error) {
	r.logger.Trace().Str("tagName", dto.Name).Msg("creating tag")

	if err := validateStruct(dto); err != nil {
		return models.TagDTO{}, err
	}

	tag := &models.Tag{Name: dto.Name}
	err := runInTransaction(ctx, r.db, "create tag", func(tx database.Database) error {
		if err := r.WithTx(tx).ensureNameFree(ctx, dto.Name, 0); err != nil {
			return err
		}
		if err := tx.TagRepo().Add(ctx, tag); err != nil {
			return tagWriteError("create", dto.Name, err)
		}
		return nil
	})
	if err != nil {
		return models.TagDTO{}, err
	}
	return models.ToTagDTO(tag), nil
}

// Update renames a tag. Keeping the current name is allowed.
func (r *TagRegistry) Update(ctx context.Context, id uint, dto models.TagDTO) (models.TagDTO, error) {
	r.logger.Trace().Uint("tagID", id).Str("tagName", dto.Name).Msg("updating tag")

	if err := validateStruct(dto); err != nil {
		return models.TagDTO{}, err
	}

	var tag *models.Tag
	err := runInTransaction(ctx, r.db, "update tag", func(tx database.Database) error {
		registry := r.WithTx(tx)
		var err error
		if tag, err = registry.findTag(ctx, id); err != nil {
			return err
		}
		if err := registry.ensureNameFree(ctx, dto.Name, id); err != nil {
			return err
		}
		tag.Name = dto.Name
		if err := tx.TagRepo().Update(ctx, tag); err != nil {
			return tagWriteError("update", dto.Name, err)
		}
		return nil
	})
	if err != nil {
		return models.TagDTO{}, err
	}
	return models.ToTagDTO(tag), nil
}

// DeleteByID removes the tag and its links to blog posts
func (r *TagRegistry) DeleteByID(ctx context.Context, id uint) error {
	r.logger.Trace().Uint("tagID", id).Msg("deleting tag")

	return runInTransaction(ctx, r.db, "delete tag", func(tx database.Database) error {
		if _, err := r.WithTx(tx).findTag(ctx, id); err != nil {
			return err
		}
		if err := tx.TagRepo().RemoveAllPostReferences(ctx, id); err != nil {
			return errs.NewDatabaseError("unlink", "tag", err)
		}
		if err := tx.TagRepo().Delete(ctx, id); err != nil {
			return errs.NewDatabaseError("delete", "tag", err)
		}
		return nil
	})
}

// FindOrCreate returns the tag with this exact name, or a new staged tag that
// has not been saved yet. Absence is never an error here.
func (r *TagRegistry) FindOrCreate(ctx context.Context, name string) (*models.Tag, error) {
	tag, err := r.db.TagRepo().FindByName(ctx, name)
	switch {
	case err == nil:
		return tag, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &models.Tag{Name: name}, nil
	default:
		return nil, errs.NewDatabaseError("find", "tag", err)
	}
}

// Resolve does what FindOrCreate does for each distinct name, in one query.
// Known names come back as stored tags, unknown ones as staged tags, in input order.
func (r *TagRegistry) Resolve(ctx context.Context, names []string) ([]*models.Tag, error) {
	names = models.UniqueTagNames(names)
	known, err := r.findTagsByName(ctx, names)
	if err != nil {
		return nil, err
	}

	tags := make([]*models.Tag, 0, len(names))
	for _, name := range names {
		tag, ok := known[name]
		if !ok {
			tag = &models.Tag{Name: name}
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// PersistStaged saves every staged tag so it gets an id before being linked.
// A tag created concurrently under the same name is reported as TagAlreadyExists.
func (r *TagRegistry) PersistStaged(ctx context.Context, tags []*models.Tag) error {
	for _, tag := range tags {
		if !tag.IsStaged() {
			continue
		}
		if err := r.db.TagRepo().Add(ctx, tag); err != nil {
			return tagWriteError("create", tag.Name, err)
		}
		r.logger.Debug().Str("tagName", tag.Name).Uint("tagID", tag.ID).Msg("created tag while tagging blog post")
	}
	return nil
}

// Lookup is the strict form of Resolve: every name must already exist.
// Nothing is returned unless all names are found.
func (r *TagRegistry) Lookup(ctx context.Context, names []string) ([]*models.Tag, error) {
	names = models.UniqueTagNames(names)
	known, err := r.findTagsByName(ctx, names)
	if err != nil {
		return nil, err
	}

	tags := make([]*models.Tag, 0, len(names))
	for _, name := range names {
		tag, ok := known[name]
		if !ok {
			r.logger.Error().Str("tagName", name).Msg("tag not found")
			return nil, errs.NewTagNotFoundError(fmt.Sprintf("no tag named %q", name))
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (r *TagRegistry) findTagsByName(ctx context.Context, names []string) (map[string]*models.Tag, error) {
	found, err := r.db.TagRepo().FindByNames(ctx, names)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "tags", err)
	}
	known := make(map[string]*models.Tag, len(found))
	for _, tag := range found {
		known[tag.Name] = tag
	}
	return known, nil
}

func (r *TagRegistry) findTag(ctx context.Context, id uint) (*models.Tag, error) {
	tag, err := r.db.TagRepo().FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.logger.Error().Uint("tagID", id).Msg("tag not found")
		return nil, errs.NewTagNotFoundError(fmt.Sprintf("no tag with id %d", id))
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "tag", err)
	}
	return tag, nil
}

func (r *TagRegistry) findTagByName(ctx context.Context, name string) (*models.Tag, error) {
	tag, err := r.db.TagRepo().FindByName(ctx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.logger.Error().Str("tagName", name).Msg("tag not found")
		return nil, errs.NewTagNotFoundError(fmt.Sprintf("no tag named %q", name))
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "tag", err)
	}
	return tag, nil
}

// ensureNameFree fails with TagAlreadyExists when another tag (id != ownID) has the name
func (r *TagRegistry) ensureNameFree(ctx context.Context, name string, ownID uint) error {
	existing, err := r.db.TagRepo().FindByName(ctx, name)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	case err != nil:
		return errs.NewDatabaseError("find", "tag", err)
	case existing.ID != ownID:
		r.logger.Error().Str("tagName", name).Msg("tag already exists")
		return errs.NewTagAlreadyExistsError(name)
	default:
		return nil
	}
}

// tagWriteError reports a unique index violation as TagAlreadyExists
func tagWriteError(operation, name string, err error) error {
	dbErr := errs.NewDatabaseError(operation, "tag", err)
	if errs.IsAlreadyExists(dbErr) {
		return errs.NewTagAlreadyExistsError(name)
	}
	return dbErr
}
