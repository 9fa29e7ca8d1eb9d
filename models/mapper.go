package models

import (
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/thoas/go-funk"
)

// ToBlogPostDTO converts a stored post, tags preloaded, into its wire form
func ToBlogPostDTO(post *BlogPost) BlogPostDTO {
	var dto BlogPostDTO
	if post == nil {
		return dto
	}
	if err := copier.Copy(&dto, post); err != nil {
		log.Error().Err(err).Uint("blogPostID", post.ID).Msg("copying blog post into dto")
	}
	dto.Tags = TagNames(post.Tags)
	return dto
}

func ToBlogPostDTOs(posts []*BlogPost) []BlogPostDTO {
	dtos := make([]BlogPostDTO, 0, len(posts))
	for _, post := range posts {
		dtos = append(dtos, ToBlogPostDTO(post))
	}
	return dtos
}

func ToTagDTO(tag *Tag) TagDTO {
	var dto TagDTO
	if tag == nil {
		return dto
	}
	if err := copier.Copy(&dto, tag); err != nil {
		log.Error().Err(err).Uint("tagID", tag.ID).Msg("copying tag into dto")
	}
	return dto
}

func ToTagDTOs(tags []*Tag) []TagDTO {
	dtos := make([]TagDTO, 0, len(tags))
	for _, tag := range tags {
		dtos = append(dtos, ToTagDTO(tag))
	}
	return dtos
}

// NewBlogPost builds an unsaved post from a DTO. Tags are reconciled separately.
func NewBlogPost(dto BlogPostDTO) *BlogPost {
	return &BlogPost{Title: dto.Title, Text: dto.Text}
}

// TagNames returns the names of tags in order, never nil
func TagNames(tags []*Tag) []string {
	if len(tags) == 0 {
		return []string{}
	}
	return funk.Map(tags, func(tag *Tag) string { return tag.Name }).([]string)
}

// UniqueTagNames drops repeated names while keeping first-seen order
func UniqueTagNames(names []string) []string {
	if len(names) == 0 {
		return []string{}
	}
	return funk.UniqString(names)
}
