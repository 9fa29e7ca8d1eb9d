package database

import (
	"context"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rpupo63/blog-backend/models"
)

type BlogPostRepo struct {
	db *gorm.DB
}

func NewBlogPostRepo(db *gorm.DB) *BlogPostRepo {
	return &BlogPostRepo{db}
}

func preloadTags(db *gorm.DB) *gorm.DB {
	return db.Order("tags.id")
}

// FindAll returns all blog posts from the database
func (r *BlogPostRepo) FindAll(ctx context.Context) ([]*models.BlogPost, error) {
	var blogPosts []*models.BlogPost
	err := r.db.WithContext(ctx).Preload("Tags", preloadTags).Order("id").Find(&blogPosts).Error
	return blogPosts, err
}

// FindByID returns a blog post by its ID, or gorm.ErrRecordNotFound
func (r *BlogPostRepo) FindByID(ctx context.Context, id uint) (*models.BlogPost, error) {
	var blogPost models.BlogPost
	err := r.db.WithContext(ctx).Preload("Tags", preloadTags).First(&blogPost, id).Error
	if err != nil {
		return nil, err
	}
	return &blogPost, nil
}

// Add inserts a new blog post without touching its tags
func (r *BlogPostRepo) Add(ctx context.Context, blogPost *models.BlogPost) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(blogPost).Error
}

// Update saves title and text of an existing blog post
func (r *BlogPostRepo) Update(ctx context.Context, blogPost *models.BlogPost) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(blogPost).Error
}

// AttachTags links saved tags to the post. Links that already exist are kept.
// post.Tags stays ordered by tag id, matching what FindByID loads.
func (r *BlogPostRepo) AttachTags(ctx context.Context, blogPost *models.BlogPost, tags []*models.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	links := make([]models.BlogPostTag, 0, len(tags))
	for _, tag := range tags {
		links = append(links, models.BlogPostTag{BlogPostID: blogPost.ID, TagID: tag.ID})
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error; err != nil {
		return err
	}
	for _, tag := range tags {
		if !blogPost.HasTag(tag.ID) {
			blogPost.Tags = append(blogPost.Tags, tag)
		}
	}
	sort.Slice(blogPost.Tags, func(i, j int) bool { return blogPost.Tags[i].ID < blogPost.Tags[j].ID })
	return nil
}

// DetachTags removes the links between the post and the given tags
func (r *BlogPostRepo) DetachTags(ctx context.Context, blogPost *models.BlogPost, tags []*models.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	tagIDs := make([]uint, 0, len(tags))
	for _, tag := range tags {
		tagIDs = append(tagIDs, tag.ID)
	}
	err := r.db.WithContext(ctx).
		Where("blog_post_id = ? AND tag_id IN ?", blogPost.ID, tagIDs).
		Delete(&models.BlogPostTag{}).Error
	if err != nil {
		return err
	}

	remaining := blogPost.Tags[:0]
	for _, tag := range blogPost.Tags {
		detached := false
		for _, id := range tagIDs {
			if tag.ID == id {
				detached = true
				break
			}
		}
		if !detached {
			remaining = append(remaining, tag)
		}
	}
	blogPost.Tags = remaining
	return nil
}

// Delete removes a blog post from the database by id
func (r *BlogPostRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.BlogPost{}, id).Error
}
