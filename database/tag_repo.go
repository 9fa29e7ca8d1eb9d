package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/rpupo63/blog-backend/models"
)

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

// FindAll returns all tags from the database
func (r *TagRepo) FindAll(ctx context.Context) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.db.WithContext(ctx).Order("id").Find(&tags).Error
	return tags, err
}

// FindByID returns a tag by its ID, or gorm.ErrRecordNotFound
func (r *TagRepo) FindByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// FindByName returns the tag with exactly this name, or gorm.ErrRecordNotFound
func (r *TagRepo) FindByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// FindByNames returns the tags whose names are in the list, in any order
func (r *TagRepo) FindByNames(ctx context.Context, names []string) ([]*models.Tag, error) {
	var tags []*models.Tag
	if len(names) == 0 {
		return tags, nil
	}
	err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&tags).Error
	return tags, err
}

// FindReferencingPost returns every tag linked to the blog post
func (r *TagRepo) FindReferencingPost(ctx context.Context, blogPostID uint) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.db.WithContext(ctx).
		Joins("JOIN blog_post_tags ON blog_post_tags.tag_id = tags.id").
		Where("blog_post_tags.blog_post_id = ?", blogPostID).
		Order("tags.id").
		Find(&tags).Error
	return tags, err
}

// FindPostIDs returns the ids of the blog posts carrying the tag
func (r *TagRepo) FindPostIDs(ctx context.Context, tagID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.BlogPostTag{}).
		Where("tag_id = ?", tagID).
		Order("blog_post_id").
		Pluck("blog_post_id", &ids).Error
	return ids, err
}

// Add inserts a new tag into the database
func (r *TagRepo) Add(ctx context.Context, tag *models.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

// Update saves a renamed tag
func (r *TagRepo) Update(ctx context.Context, tag *models.Tag) error {
	return r.db.WithContext(ctx).Save(tag).Error
}

// RemovePostReference drops the blog post from the tag's set of posts
func (r *TagRepo) RemovePostReference(ctx context.Context, tag *models.Tag, blogPostID uint) error {
	return r.db.WithContext(ctx).
		Where("tag_id = ? AND blog_post_id = ?", tag.ID, blogPostID).
		Delete(&models.BlogPostTag{}).Error
}

// RemoveAllPostReferences unlinks the tag from every blog post
func (r *TagRepo) RemoveAllPostReferences(ctx context.Context, tagID uint) error {
	return r.db.WithContext(ctx).
		Where("tag_id = ?", tagID).
		Delete(&models.BlogPostTag{}).Error
}

// Delete removes a tag from the database by id
func (r *TagRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Tag{}, id).Error
}
