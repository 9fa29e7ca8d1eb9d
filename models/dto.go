package models

// BlogPostDTO is the wire form of a blog post. Tags are names, not ids.
type BlogPostDTO struct {
	ID    uint     `json:"id,omitempty"`
	Title string   `json:"title" validate:"required,notblank"`
	Text  string   `json:"text" validate:"required,notblank"`
	Tags  []string `json:"tags" validate:"omitempty,dive,notblank" copier:"-"`
}

// TagDTO is the wire form of a tag
type TagDTO struct {
	ID   uint   `json:"id,omitempty"`
	Name string `json:"name" validate:"required,notblank"`
}
