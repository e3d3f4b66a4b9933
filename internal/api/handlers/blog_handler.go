package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aloraops/alora-site/internal/services"
)

// BlogHandler serves the indexed blog posts.
type BlogHandler struct {
	blog *services.BlogService
}

func NewBlogHandler(blog *services.BlogService) *BlogHandler {
	return &BlogHandler{blog: blog}
}

// List returns post metadata, newest first.
func (h *BlogHandler) List(c *gin.Context) {
	posts, err := h.blog.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// Get returns one post with its full markdown content.
func (h *BlogHandler) Get(c *gin.Context) {
	post, err := h.blog.Get(c.Param("slug"))
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// Reindex rescans the content directory on demand. Admin only.
func (h *BlogHandler) Reindex(c *gin.Context) {
	count, err := h.blog.Reindex()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reindex posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"indexed": count})
}
