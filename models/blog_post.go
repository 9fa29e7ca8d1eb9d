package models

// BlogPost represents a blog entry and the tags attached to it
type BlogPost struct {
	ID    uint   `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Title string `json:"title" db:"title" gorm:"type:text;not null"`
	Text  string `json:"text" db:"text" gorm:"type:text;not null"`
	Tags  []*Tag `json:"tags,omitempty" gorm:"many2many:blog_post_tags;constraint:OnDelete:CASCADE"`
}

// HasTag reports whether a tag with the given id is attached to the post
func (p *BlogPost) HasTag(tagID uint) bool {
	for _, tag := range p.Tags {
		if tag.ID == tagID {
			return true
		}
	}
	return false
}
