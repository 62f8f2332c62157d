package locations

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/luganzimathiasjoseph/ARPM/pkg/auditlog"
	custom_error "github.com/luganzimathiasjoseph/ARPM/pkg/errors"
	"github.com/luganzimathiasjoseph/ARPM/pkg/models"
	"github.com/luganzimathiasjoseph/ARPM/pkg/security"
)

type LocationHandler struct {
	Repository *LocationRepository
	AuditLog   *auditlog.Auditlog
}

func RegisterRoutes(router *gin.RouterGroup, r *LocationRepository, a *auditlog.Auditlog) {
	handler := LocationHandler{Repository: r, AuditLog: a}

	router.GET("", handler.GetLocations)
	router.POST("", security.Authorize("technician"), handler.CreateLocation)
	router.GET("/:id", handler.GetLocation)
	router.GET("/:id/assets", handler.GetLocationAssets)
	router.PUT("/:id", security.Authorize("technician"), handler.UpdateLocation)
	router.DELETE("/:id", security.Authorize("admin"), handler.RemoveLocation)
}

func (h *LocationHandler) GetLocations(c *gin.Context) {
	includeInactive := c.Query("includeInactive") == "true"

	locations, err := h.Repository.GetLocations(includeInactive)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list locations", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, locations)
}

func (h *LocationHandler) GetLocation(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid location ID"})
		return
	}

	location, err := h.Repository.GetLocation(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get location", "details": err.Error()})
		return
	}
	if location == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Location not found"})
		return
	}

	c.JSON(http.StatusOK, location)
}

func (h *LocationHandler) GetLocationAssets(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid location ID"})
		return
	}

	assets, err := h.Repository.GetLocationAssets(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get location assets", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, assets)
}

func (h *LocationHandler) CreateLocation(c *gin.Context) {
	actorID, err := security.ActorID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to resolve authenticated user"})
		return
	}

	var req models.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	id, err := h.Repository.PersistLocation(req)
	if err != nil {
		h.writeLocationError(c, err)
		return
	}

	location, err := h.Repository.GetLocation(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get location", "details": err.Error()})
		return
	}

	go h.AuditLog.Log(actorID, "create", map[string]interface{}{
		"name":     location.Name,
		"building": location.Building,
		"msg":      "Created location",
	}, location)

	c.JSON(http.StatusCreated, location)
}

func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	actorID, err := security.ActorID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to resolve authenticated user"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid location ID"})
		return
	}

	var req models.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if err := h.Repository.UpdateLocation(id, req); err != nil {
		h.writeLocationError(c, err)
		return
	}

	location, err := h.Repository.GetLocation(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get location", "details": err.Error()})
		return
	}

	go h.AuditLog.Log(actorID, "update", map[string]interface{}{
		"name": location.Name,
		"msg":  "Updated location",
	}, location)

	c.JSON(http.StatusOK, location)
}

func (h *LocationHandler) RemoveLocation(c *gin.Context) {
	actorID, err := security.ActorID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to resolve authenticated user"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid location ID"})
		return
	}

	if err := h.Repository.RemoveLocation(id); err != nil {
		var fkErr *custom_error.ForeignKeyViolationError
		if errors.As(err, &fkErr) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not delete location, assets still reference it", "details": err.Error()})
			return
		}
		h.writeLocationError(c, err)
		return
	}

	go h.AuditLog.Log(actorID, "delete", map[string]interface{}{
		"location_id": id,
		"msg":         "Deleted location",
	}, &models.Location{ID: id})

	c.JSON(http.StatusOK, gin.H{"message": "Location deleted successfully"})
}

func (h *LocationHandler) writeLocationError(c *gin.Context, err error) {
	var uniqueErr *custom_error.UniqueViolationError
	switch {
	case errors.Is(err, sql.ErrNoRows):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Location not found"})
	case errors.As(err, &uniqueErr):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "A location with this name, building and floor already exists", "details": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not save location", "details": err.Error()})
	}
}
