package notifications

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/luganzimathiasjoseph/ARPM/pkg/security"
)

// No delivery backend is wired up yet; the test endpoint exists so clients
// can exercise their notification plumbing end to end.
type NotificationHandler struct{}

func RegisterRoutes(router *gin.RouterGroup) {
	handler := NotificationHandler{}

	router.POST("/test", security.Authorize("admin"), handler.SendTestNotification)
}

func (h *NotificationHandler) SendTestNotification(c *gin.Context) {
	var req struct {
		Recipient string `json:"recipient"`
		Message   string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}
	if req.Message == "" {
		req.Message = "This is a test notification"
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"recipient": req.Recipient,
		"message":   req.Message,
		"sentAt":    time.Now().UTC().Format(time.RFC3339),
	})
}
