package audits

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/luganzimathiasjoseph/ARPM/internal/repository"
	"github.com/luganzimathiasjoseph/ARPM/pkg/security"
)

type AuditHandler struct {
	Repository *repository.Repository
}

func RegisterRoutes(router *gin.RouterGroup, r *repository.Repository) {
	handler := AuditHandler{Repository: r}

	router.GET("", security.Authorize("admin"), handler.GetAuditEntries)
}

func (h *AuditHandler) GetAuditEntries(c *gin.Context) {
	entries, err := h.Repository.GetAuditEntries()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list audit entries", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entries)
}
