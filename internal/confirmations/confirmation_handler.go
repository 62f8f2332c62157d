package confirmations

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/luganzimathiasjoseph/ARPM/pkg/auditlog"
	"github.com/luganzimathiasjoseph/ARPM/pkg/models"
	"github.com/luganzimathiasjoseph/ARPM/pkg/security"
)

type ConfirmationHandler struct {
	Repository *ConfirmationRepository
	AuditLog   *auditlog.Auditlog
}

func RegisterRoutes(router *gin.RouterGroup, r *ConfirmationRepository, a *auditlog.Auditlog) {
	handler := ConfirmationHandler{Repository: r, AuditLog: a}

	router.POST("", handler.CreateConfirmation)
	router.GET("", handler.GetConfirmations)
	router.GET("/:id", handler.GetConfirmation)
}

func (h *ConfirmationHandler) CreateConfirmation(c *gin.Context) {
	actorID, err := security.ActorID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to resolve authenticated user"})
		return
	}

	var req models.CreateConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	assignedTo, exists, err := h.Repository.AssetAssignee(req.AssetID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not create confirmation", "details": err.Error()})
		return
	}
	if !exists {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Referenced asset does not exist"})
		return
	}

	// staff may only confirm assets currently assigned to them
	if security.ActorRole(c) == "staff" {
		if assignedTo == nil || *assignedTo != actorID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You can only confirm assets assigned to you"})
			return
		}
	}

	id, err := h.Repository.PersistConfirmation(req, actorID, time.Now())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not create confirmation", "details": err.Error()})
		return
	}

	confirmation, err := h.Repository.GetConfirmation(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get confirmation", "details": err.Error()})
		return
	}

	go h.AuditLog.Log(actorID, "create", map[string]interface{}{
		"asset_id":          confirmation.AssetID,
		"confirmation_type": confirmation.ConfirmationType,
		"msg":               "Recorded asset confirmation",
	}, confirmation)

	c.JSON(http.StatusCreated, confirmation)
}

func (h *ConfirmationHandler) GetConfirmations(c *gin.Context) {
	actorID, err := security.ActorID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to resolve authenticated user"})
		return
	}

	confirmedBy := 0
	if security.ActorRole(c) == "staff" {
		confirmedBy = actorID
	}

	assetID := 0
	if raw := c.Query("asset"); raw != "" {
		assetID, err = strconv.Atoi(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid asset filter"})
			return
		}
	}

	confirmations, err := h.Repository.GetConfirmations(confirmedBy, assetID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list confirmations", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, confirmations)
}

func (h *ConfirmationHandler) GetConfirmation(c *gin.Context) {
	actorID, err := security.ActorID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to resolve authenticated user"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid confirmation ID"})
		return
	}

	confirmation, err := h.Repository.GetConfirmation(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get confirmation", "details": err.Error()})
		return
	}
	if confirmation == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Confirmation not found"})
		return
	}

	if security.ActorRole(c) == "staff" && confirmation.ConfirmedBy != actorID {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You can only view your own confirmations"})
		return
	}

	c.JSON(http.StatusOK, confirmation)
}
