package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/blog-backend/models"
	"github.com/rpupo63/blog-backend/services"
)

type tagHandler struct {
	responder Responder
	logger    zerolog.Logger
	registry  *services.TagRegistry
}

func newTagHandler(registry *services.TagRegistry) tagHandler {
	logger := log.With().Str("handlerName", "tagHandler").Logger()

	return tagHandler{
		responder: NewResponder(logger),
		logger:    logger,
		registry:  registry,
	}
}

// getAllTags lists every tag
// @Summary Get all tags
// @Tags Tags
// @Produce json
// @Success 200 {array} models.TagDTO "List of tags"
// @Router /tags [get]
func (h tagHandler) getAllTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.registry.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, tags)
	}
}

// @Summary Get tag
// @Tags Tags
// @Produce json
// @Param id path int true "Tag ID"
// @Success 200 {object} models.TagDTO "Tag"
// @Failure 404 {object} ErrorResponse "Not Found - Tag not found"
// @Router /tags/{id} [get]
func (h tagHandler) getTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tag, err := h.registry.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, tag)
	}
}

// getTagPosts lists the ids of the blog posts carrying a tag
// @Summary Get posts of tag
// @Tags Tags
// @Produce json
// @Param id path int true "Tag ID"
// @Success 200 {array} int "Blog post ids"
// @Failure 404 {object} ErrorResponse "Not Found - Tag not found"
// @Router /tags/{id}/posts [get]
func (h tagHandler) getTagPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		postIDs, err := h.registry.FindPostIDs(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if postIDs == nil {
			postIDs = []uint{}
		}

		h.responder.WriteJSON(w, postIDs)
	}
}

// createTag registers a new tag; names are unique
// @Summary Create tag
// @Tags Tags
// @Accept json
// @Produce json
// @Param tag body models.TagDTO true "Tag data"
// @Success 200 {object} models.TagDTO "Created tag"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid or duplicate name"
// @Router /tags [post]
func (h tagHandler) createTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var dto models.TagDTO
		if err := decodeJSON(w, r, "tag", &dto); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tag, err := h.registry.Create(r.Context(), dto)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Uint("tagID", tag.ID).Str("name", tag.Name).Msg("Tag created")
		h.responder.WriteJSON(w, tag)
	}
}

// updateTag renames a tag
// @Summary Update tag
// @Tags Tags
// @Accept json
// @Produce json
// @Param id path int true "Tag ID"
// @Param tag body models.TagDTO true "Tag data"
// @Success 200 {object} models.TagDTO "Updated tag"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid or duplicate name"
// @Failure 404 {object} ErrorResponse "Not Found - Tag not found"
// @Router /tags/{id} [put]
func (h tagHandler) updateTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var dto models.TagDTO
		if err := decodeJSON(w, r, "tag", &dto); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tag, err := h.registry.Update(r.Context(), id, dto)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, tag)
	}
}

// deleteTag removes a tag and unlinks it from every post
// @Summary Delete tag
// @Tags Tags
// @Param id path int true "Tag ID"
// @Success 200 "Tag deleted"
// @Failure 404 {object} ErrorResponse "Not Found - Tag not found"
// @Router /tags/{id} [delete]
func (h tagHandler) deleteTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.registry.DeleteByID(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Uint("tagID", id).Msg("Tag deleted")
		h.responder.WriteEmpty(w)
	}
}
