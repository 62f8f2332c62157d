package assets

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/luganzimathiasjoseph/ARPM/pkg/auditlog"
	custom_error "github.com/luganzimathiasjoseph/ARPM/pkg/errors"
	"github.com/luganzimathiasjoseph/ARPM/pkg/models"
	"github.com/luganzimathiasjoseph/ARPM/pkg/security"
)

type AssetHandler struct {
	Service    *AssetService
	Repository AssetRepository
	AuditLog   *auditlog.Auditlog
}

func RegisterRoutes(router *gin.RouterGroup, r AssetRepository, a *auditlog.Auditlog) {
	handler := AssetHandler{
		Service:    NewAssetService(r),
		Repository: r,
		AuditLog:   a,
	}

	router.POST("", security.Authorize("technician"), handler.CreateAsset)
	router.GET("", handler.GetAssets)
	router.GET("/stats", handler.GetAssetStats)
	router.GET("/search", handler.SearchAssets)
	router.GET("/:id", handler.GetAsset)
	router.PUT("/:id", security.Authorize("technician"), handler.UpdateAsset)
	router.DELETE("/:id", security.Authorize("admin"), handler.DeleteAsset)
	router.PATCH("/:id/status", security.Authorize("technician"), handler.UpdateAssetStatus)
	router.POST("/:id/move", security.Authorize("technician"), handler.MoveAsset)
	router.GET("/:id/depreciation", handler.GetDepreciation)
	router.GET("/:id/barcode", handler.GetBarcodePayload)
}

func (h *AssetHandler) CreateAsset(c *gin.Context) {
	actorID, err := security.ActorID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to resolve authenticated user"})
		return
	}

	var req models.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	asset, err := h.Service.CreateAsset(req, actorID)
	if err != nil {
		h.writeAssetError(c, err)
		return
	}

	go h.AuditLog.Log(actorID, "create", map[string]interface{}{
		"asset_tag":     asset.AssetTag,
		"serial_number": asset.SerialNumber,
		"location_id":   asset.Location.ID,
		"msg":           "Registered asset",
	}, asset)

	c.JSON(http.StatusCreated, asset)
}

func (h *AssetHandler) GetAssets(c *gin.Context) {
	filter := models.AssetFilter{
		Status:     c.Query("status"),
		Condition:  c.Query("condition"),
		Department: c.Query("department"),
		Search:     c.Query("search"),
	}

	if raw := c.Query("category"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid category filter"})
			return
		}
		filter.CategoryID = id
	}
	if raw := c.Query("location"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid location filter"})
			return
		}
		filter.LocationID = id
	}
	if c.Query("assignedTo") == "me" {
		actorID, err := security.ActorID(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to resolve authenticated user"})
			return
		}
		filter.AssignedTo = actorID
	}

	assets, err := h.Repository.GetAssets(filter)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list assets", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, assets)
}

func (h *AssetHandler) SearchAssets(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	results, err := h.Repository.SearchAssets(q, 10)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to search assets", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": results})
}

func (h *AssetHandler) GetAsset(c *gin.Context) {
	id, ok := h.assetID(c)
	if !ok {
		return
	}

	asset, err := h.Repository.GetAsset(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get asset", "details": err.Error()})
		return
	}
	if asset == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	id, ok := h.assetID(c)
	if !ok {
		return
	}

	var req models.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	asset, err := h.Service.UpdateAsset(id, req)
	if err != nil {
		h.writeAssetError(c, err)
		return
	}

	actorID, _ := security.ActorID(c)
	go h.AuditLog.Log(actorID, "update", map[string]interface{}{
		"asset_tag": asset.AssetTag,
	}, asset)

	c.JSON(http.StatusOK, asset)
}

func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	id, ok := h.assetID(c)
	if !ok {
		return
	}

	deleted, err := h.Repository.DeleteAsset(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to delete asset", "details": err.Error()})
		return
	}
	if !deleted {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AssetHandler) UpdateAssetStatus(c *gin.Context) {
	id, ok := h.assetID(c)
	if !ok {
		return
	}

	actorID, err := security.ActorID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to resolve authenticated user"})
		return
	}

	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	asset, err := h.Service.UpdateStatus(id, req, actorID)
	if err != nil {
		h.writeAssetError(c, err)
		return
	}

	go h.AuditLog.Log(actorID, "status_update", map[string]interface{}{
		"status":    req.Status,
		"condition": req.Condition,
	}, asset)

	c.JSON(http.StatusOK, asset)
}

func (h *AssetHandler) MoveAsset(c *gin.Context) {
	id, ok := h.assetID(c)
	if !ok {
		return
	}

	actorID, err := security.ActorID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to resolve authenticated user"})
		return
	}

	var req models.MoveAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	asset, err := h.Service.MoveAsset(id, req, actorID)
	if err != nil {
		h.writeAssetError(c, err)
		return
	}

	go h.AuditLog.Log(actorID, "move", map[string]interface{}{
		"to_location":   req.ToLocationID,
		"to_department": req.ToDepartment,
		"reason":        req.Reason,
	}, asset)

	c.JSON(http.StatusOK, asset)
}

func (h *AssetHandler) GetDepreciation(c *gin.Context) {
	id, ok := h.assetID(c)
	if !ok {
		return
	}

	result, err := h.Service.Depreciation(id)
	if err != nil {
		h.writeAssetError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AssetHandler) GetBarcodePayload(c *gin.Context) {
	id, ok := h.assetID(c)
	if !ok {
		return
	}

	payload, err := h.Service.BarcodePayload(id)
	if err != nil {
		h.writeAssetError(c, err)
		return
	}

	c.JSON(http.StatusOK, payload)
}

func (h *AssetHandler) GetAssetStats(c *gin.Context) {
	stats, err := h.Repository.GetAssetStats()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to aggregate asset statistics", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *AssetHandler) assetID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid asset ID"})
		return 0, false
	}
	return id, true
}

// writeAssetError maps service errors onto the response taxonomy: invalid
// references are validation errors, unique collisions are conflicts named
// after the colliding field, unknown assets are not found.
func (h *AssetHandler) writeAssetError(c *gin.Context, err error) {
	var uniqueErr *custom_error.UniqueViolationError

	switch {
	case errors.Is(err, ErrAssetNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
	case errors.Is(err, ErrInvalidCategory):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
	case errors.Is(err, ErrInvalidLocation):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid location"})
	case errors.Is(err, ErrInvalidAssignee):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid assignee"})
	case errors.Is(err, ErrValidation):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
	case errors.As(err, &uniqueErr):
		message := "Duplicate value"
		switch uniqueErr.Field() {
		case "asset_tag":
			message = "Asset ID already exists"
		case "serial_number":
			message = "Serial Number already exists"
		}
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": message})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Asset operation failed", "details": err.Error()})
	}
}
