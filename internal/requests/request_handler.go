package requests

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/luganzimathiasjoseph/ARPM/pkg/auditlog"
	"github.com/luganzimathiasjoseph/ARPM/pkg/metadata"
	"github.com/luganzimathiasjoseph/ARPM/pkg/models"
	"github.com/luganzimathiasjoseph/ARPM/pkg/security"
)

type RequestHandler struct {
	Repository *RequestRepository
	AuditLog   *auditlog.Auditlog
}

func RegisterRoutes(router *gin.RouterGroup, r *RequestRepository, a *auditlog.Auditlog) {
	handler := RequestHandler{Repository: r, AuditLog: a}

	router.POST("", handler.CreateRequest)
	router.GET("", handler.GetRequests)
	router.POST("/:id/approve", security.Authorize("admin"), handler.ApproveRequest)
	router.POST("/:id/reject", security.Authorize("admin"), handler.RejectRequest)
	router.PATCH("/condition", handler.UpdateAssetCondition)
}

func (h *RequestHandler) CreateRequest(c *gin.Context) {
	actorID, err := security.ActorID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to resolve authenticated user"})
		return
	}

	var req models.CreateAssetRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	id, err := h.Repository.PersistRequest(req, actorID, time.Now())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not create asset request", "details": err.Error()})
		return
	}

	request, err := h.Repository.GetRequest(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get asset request", "details": err.Error()})
		return
	}

	go h.AuditLog.Log(actorID, "create", map[string]interface{}{
		"type": request.Type,
		"msg":  "Filed asset request",
	}, request)

	c.JSON(http.StatusCreated, request)
}

// GetRequests lists the actor's own requests; admins may pass ?all=true to
// see everyone's.
func (h *RequestHandler) GetRequests(c *gin.Context) {
	actorID, err := security.ActorID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to resolve authenticated user"})
		return
	}

	requesterID := actorID
	if c.Query("all") == "true" {
		if security.ActorRole(c) != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		requesterID = 0
	}

	requests, err := h.Repository.GetRequests(requesterID, c.Query("status"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list asset requests", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, requests)
}

func (h *RequestHandler) ApproveRequest(c *gin.Context) {
	h.decideRequest(c, "approved")
}

func (h *RequestHandler) RejectRequest(c *gin.Context) {
	h.decideRequest(c, "rejected")
}

func (h *RequestHandler) decideRequest(c *gin.Context, status string) {
	actorID, err := security.ActorID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to resolve authenticated user"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	if err := h.Repository.DecideRequest(id, status, time.Now()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "No pending request with this ID"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not update asset request", "details": err.Error()})
		return
	}

	request, err := h.Repository.GetRequest(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get asset request", "details": err.Error()})
		return
	}

	go h.AuditLog.Log(actorID, status, map[string]interface{}{
		"request_id": id,
		"msg":        "Decided asset request",
	}, request)

	c.JSON(http.StatusOK, request)
}

// UpdateAssetCondition is the self-service condition report: any user may
// update the condition of an asset currently assigned to them.
func (h *RequestHandler) UpdateAssetCondition(c *gin.Context) {
	actorID, err := security.ActorID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to resolve authenticated user"})
		return
	}

	var req models.UpdateConditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	condition, err := metadata.NewCondition(req.Condition)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	assignedTo, exists, err := h.Repository.AssetAssignee(req.AssetID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not update asset condition", "details": err.Error()})
		return
	}
	if !exists {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		return
	}
	if assignedTo == nil || *assignedTo != actorID {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You can only update assets assigned to you"})
		return
	}

	if err := h.Repository.SetAssetCondition(req.AssetID, string(condition), time.Now()); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not update asset condition", "details": err.Error()})
		return
	}

	go h.AuditLog.Log(actorID, "update", map[string]interface{}{
		"asset_id":  req.AssetID,
		"condition": string(condition),
		"msg":       "Self-reported asset condition",
	}, &models.Asset{ID: req.AssetID})

	c.JSON(http.StatusOK, gin.H{"message": "Asset condition updated"})
}
