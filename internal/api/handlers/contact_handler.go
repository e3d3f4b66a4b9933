package handlers

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aloraops/alora-site/internal/services"
)

// ContactHandler exposes the contact form submission endpoint.
type ContactHandler struct {
	contact *services.ContactService
}

func NewContactHandler(contact *services.ContactService) *ContactHandler {
	return &ContactHandler{contact: contact}
}

// Submit handles POST /api/contact. The guard pipeline decides the
// verdict; this layer only translates outcomes to the wire protocol.
func (h *ContactHandler) Submit(c *gin.Context) {
	var req services.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}

	clientKey := c.ClientIP()
	if clientKey == "" {
		clientKey = "anonymous"
	}

	outcome := h.contact.Process(c.Request.Context(), req, clientKey)

	switch outcome.Kind {
	case services.OutcomeRateLimited:
		retryAfter := int(math.Ceil(outcome.RetryAfter.Seconds()))
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.Header("X-RateLimit-Remaining", "0")
		c.Header("X-RateLimit-Reset", outcome.Reset.UTC().Format(time.RFC3339))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":      "Too many submissions. Please try again later.",
			"retryAfter": retryAfter,
		})

	case services.OutcomeHoneypot:
		// Indistinguishable from a genuine success on purpose.
		c.JSON(http.StatusOK, gin.H{"success": true})

	case services.OutcomeInvalid:
		c.JSON(http.StatusBadRequest, gin.H{"error": outcome.Reason})

	case services.OutcomeFailed:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message. Please try again."})

	default:
		c.Header("X-RateLimit-Remaining", strconv.Itoa(outcome.Remaining))
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
