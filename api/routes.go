package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes registers the blog, tag and operational routes
func setupRoutes(r chi.Router, handlers *routeHandlers) {
	r.Get("/healthz", handlers.healthHandler.getHealth())
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		// Blog Post Handler endpoints
		r.Get("/blogs", handlers.blogPostHandler.getAllBlogPosts())
		r.Get("/blogs/{id}", handlers.blogPostHandler.getBlogPost())
		r.Post("/blogs", handlers.blogPostHandler.createBlogPost())
		r.Put("/blogs/{id}", handlers.blogPostHandler.updateBlogPost())
		r.Patch("/blogs/{id}", handlers.blogPostHandler.patchBlogPost())
		r.Delete("/blogs/{id}", handlers.blogPostHandler.deleteBlogPost())
		r.Post("/blogs/{id}/tags", handlers.blogPostHandler.addTags())
		r.Delete("/blogs/{id}/tags", handlers.blogPostHandler.removeTags())

		// Tag Handler endpoints
		r.Get("/tags", handlers.tagHandler.getAllTags())
		r.Get("/tags/{id}", handlers.tagHandler.getTag())
		r.Get("/tags/{id}/posts", handlers.tagHandler.getTagPosts())
		r.Post("/tags", handlers.tagHandler.createTag())
		r.Put("/tags/{id}", handlers.tagHandler.updateTag())
		r.Delete("/tags/{id}", handlers.tagHandler.deleteTag())
	})
}
