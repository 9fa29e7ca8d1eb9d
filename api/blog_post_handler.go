package api

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/blog-backend/models"
	"github.com/rpupo63/blog-backend/services"
)

type blogPostHandler struct {
	responder Responder
	logger    zerolog.Logger
	service   *services.BlogPostService
}

func newBlogPostHandler(service *services.BlogPostService) blogPostHandler {
	logger := log.With().Str("handlerName", "blogPostHandler").Logger()

	return blogPostHandler{
		responder: NewResponder(logger),
		logger:    logger,
		service:   service,
	}
}

// getAllBlogPosts retrieves all blog posts with their tag names
// @Summary Get all blog posts
// @Tags Blog Posts
// @Produce json
// @Success 200 {array} models.BlogPostDTO "List of blog posts"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching blog posts"
// @Router /blogs [get]
func (h blogPostHandler) getAllBlogPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.service.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, posts)
	}
}

// getBlogPost retrieves a specific blog post by ID
// @Summary Get blog post
// @Tags Blog Posts
// @Produce json
// @Param id path int true "Blog Post ID"
// @Success 200 {object} models.BlogPostDTO "Blog post"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid id"
// @Failure 404 {object} ErrorResponse "Not Found - Blog post not found"
// @Router /blogs/{id} [get]
func (h blogPostHandler) getBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.service.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// createBlogPost creates a new blog post, creating any tags it names
// @Summary Create blog post
// @Tags Blog Posts
// @Accept json
// @Produce json
// @Param blogPost body models.BlogPostDTO true "Blog post data"
// @Success 200 {object} models.BlogPostDTO "Created blog post"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid blog post data"
// @Router /blogs [post]
func (h blogPostHandler) createBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var dto models.BlogPostDTO
		if err := decodeJSON(w, r, "blog post", &dto); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode blog post request body")
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.service.Create(r.Context(), dto)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Uint("blogPostID", post.ID).Msg("Blog post created")
		h.responder.WriteJSON(w, post)
	}
}

// updateBlogPost replaces title and text and adds the given tags
// @Summary Update blog post
// @Tags Blog Posts
// @Accept json
// @Produce json
// @Param id path int true "Blog Post ID"
// @Param blogPost body models.BlogPostDTO true "Blog post data"
// @Success 200 {object} models.BlogPostDTO "Updated blog post"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid blog post data"
// @Failure 404 {object} ErrorResponse "Not Found - Blog post not found"
// @Router /blogs/{id} [put]
func (h blogPostHandler) updateBlogPost() http.HandlerFunc {
	return h.writeWithBody(h.service.Update)
}

// patchBlogPost changes the given fields only
// @Summary Patch blog post
// @Tags Blog Posts
// @Accept json
// @Produce json
// @Param id path int true "Blog Post ID"
// @Param blogPost body models.BlogPostDTO true "Fields to change"
// @Success 200 {object} models.BlogPostDTO "Patched blog post"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid blog post data"
// @Failure 404 {object} ErrorResponse "Not Found - Blog post not found"
// @Router /blogs/{id} [patch]
func (h blogPostHandler) patchBlogPost() http.HandlerFunc {
	return h.writeWithBody(h.service.Patch)
}

// addTags links tags to a blog post, creating missing tags
// @Summary Add tags to blog post
// @Tags Blog Posts
// @Accept json
// @Produce json
// @Param id path int true "Blog Post ID"
// @Param tags query string false "Comma separated tag names"
// @Param names body []string false "Tag names"
// @Success 200 {object} models.BlogPostDTO "Blog post"
// @Failure 400 {object} ErrorResponse "Bad Request - No tag names"
// @Failure 404 {object} ErrorResponse "Not Found - Blog post not found"
// @Router /blogs/{id}/tags [post]
func (h blogPostHandler) addTags() http.HandlerFunc {
	return h.writeWithTags(h.service.AddTagToBlogPost)
}

// removeTags unlinks tags from a blog post; every name must be a known tag
// @Summary Remove tags from blog post
// @Tags Blog Posts
// @Accept json
// @Produce json
// @Param id path int true "Blog Post ID"
// @Param tags query string false "Comma separated tag names"
// @Param names body []string false "Tag names"
// @Success 200 {object} models.BlogPostDTO "Blog post"
// @Failure 400 {object} ErrorResponse "Bad Request - No tag names"
// @Failure 404 {object} ErrorResponse "Not Found - Blog post or tag not found"
// @Router /blogs/{id}/tags [delete]
func (h blogPostHandler) removeTags() http.HandlerFunc {
	return h.writeWithTags(h.service.RemoveTagFromBlogPost)
}

// deleteBlogPost deletes a blog post
// @Summary Delete blog post
// @Tags Blog Posts
// @Param id path int true "Blog Post ID"
// @Success 200 "Blog post deleted"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid id"
// @Failure 404 {object} ErrorResponse "Not Found - Blog post not found"
// @Router /blogs/{id} [delete]
func (h blogPostHandler) deleteBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.service.DeleteByID(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Uint("blogPostID", id).Msg("Blog post deleted")
		h.responder.WriteEmpty(w)
	}
}

type postWriter func(ctx context.Context, id uint, dto models.BlogPostDTO) (models.BlogPostDTO, error)

func (h blogPostHandler) writeWithBody(write postWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var dto models.BlogPostDTO
		if err := decodeJSON(w, r, "blog post", &dto); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode blog post request body")
			h.responder.WriteError(w, err)
			return
		}

		post, err := write(r.Context(), id, dto)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

type tagWriter func(ctx context.Context, id uint, names []string) (models.BlogPostDTO, error)

func (h blogPostHandler) writeWithTags(write tagWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		names, err := tagNames(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := write(r.Context(), id, names)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, post)
	}
}
