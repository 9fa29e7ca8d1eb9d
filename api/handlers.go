package api

import (
	"time"

	"github.com/rpupo63/blog-backend/database"
	"github.com/rpupo63/blog-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, startupTime time.Time) *routeHandlers {
	tagRegistry := services.NewTagRegistry(database)
	blogPostService := services.NewBlogPostService(database, tagRegistry)

	return &routeHandlers{
		blogPostHandler: newBlogPostHandler(blogPostService),
		tagHandler:      newTagHandler(tagRegistry),
		healthHandler:   newHealthHandler(database, startupTime),
	}
}
