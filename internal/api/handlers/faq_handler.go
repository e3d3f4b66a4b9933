package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aloraops/alora-site/internal/models"
)

// FAQHandler serves the seeded FAQ entries.
type FAQHandler struct {
	DB *gorm.DB
}

func NewFAQHandler(db *gorm.DB) *FAQHandler {
	return &FAQHandler{DB: db}
}

// List returns published FAQ entries ordered by category and position.
func (h *FAQHandler) List(c *gin.Context) {
	var entries []models.FAQEntry
	err := h.DB.
		Where("published = ?", true).
		Order("category, position").
		Find(&entries).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch FAQ entries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
