package models

// Tag represents a named label shared by many blog posts. The posts carrying a
// tag are not held on the struct; they live in the blog_post_tags join table.
type Tag struct {
	ID   uint   `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" db:"name" gorm:"type:text;not null;uniqueIndex:idx_tag_name"`
}

// IsStaged reports whether the tag has been built in memory but not yet saved
func (t *Tag) IsStaged() bool {
	return t.ID == 0
}

// BlogPostTag is one row of the post <-> tag association. It is read from both
// directions: by blog_post_id for a post's tags and by tag_id for a tag's posts.
type BlogPostTag struct {
	BlogPostID uint `json:"blog_post_id" db:"blog_post_id" gorm:"primaryKey;index:idx_blog_post_tag_post"`
	TagID      uint `json:"tag_id" db:"tag_id" gorm:"primaryKey;index:idx_blog_post_tag_tag"`
}

func (BlogPostTag) TableName() string {
	return "blog_post_tags"
}
