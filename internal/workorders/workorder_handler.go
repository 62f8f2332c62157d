package workorders

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/luganzimathiasjoseph/ARPM/pkg/auditlog"
	"github.com/luganzimathiasjoseph/ARPM/pkg/models"
	"github.com/luganzimathiasjoseph/ARPM/pkg/security"
)

type WorkOrderHandler struct {
	Repository *WorkOrderRepository
	AuditLog   *auditlog.Auditlog
}

func RegisterRoutes(router *gin.RouterGroup, r *WorkOrderRepository, a *auditlog.Auditlog) {
	handler := WorkOrderHandler{Repository: r, AuditLog: a}

	router.GET("", security.Authorize("technician"), handler.GetWorkOrders)
	router.POST("", security.Authorize("technician"), handler.CreateWorkOrder)
}

func (h *WorkOrderHandler) GetWorkOrders(c *gin.Context) {
	assignedTo := 0
	if raw := c.Query("assignedTo"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid assignedTo filter"})
			return
		}
		assignedTo = id
	}

	orders, err := h.Repository.GetWorkOrders(c.Query("status"), assignedTo)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list work orders", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *WorkOrderHandler) CreateWorkOrder(c *gin.Context) {
	actorID, err := security.ActorID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to resolve authenticated user"})
		return
	}

	var req models.CreateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	id, err := h.Repository.PersistWorkOrder(req, time.Now())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not create work order", "details": err.Error()})
		return
	}

	order, err := h.Repository.GetWorkOrder(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get work order", "details": err.Error()})
		return
	}

	go h.AuditLog.Log(actorID, "create", map[string]interface{}{
		"title": order.Title,
		"msg":   "Opened work order",
	}, order)

	c.JSON(http.StatusCreated, order)
}
