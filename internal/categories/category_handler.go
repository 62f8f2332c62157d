package categories

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/luganzimathiasjoseph/ARPM/pkg/auditlog"
	custom_error "github.com/luganzimathiasjoseph/ARPM/pkg/errors"
	"github.com/luganzimathiasjoseph/ARPM/pkg/metadata"
	"github.com/luganzimathiasjoseph/ARPM/pkg/models"
	"github.com/luganzimathiasjoseph/ARPM/pkg/security"
)

type CategoryHandler struct {
	Repository *CategoryRepository
	AuditLog   *auditlog.Auditlog
}

func RegisterRoutes(router *gin.RouterGroup, r *CategoryRepository, a *auditlog.Auditlog) {
	handler := CategoryHandler{Repository: r, AuditLog: a}

	router.GET("", handler.GetCategories)
	router.POST("", security.Authorize("technician"), handler.CreateCategory)
	router.GET("/stats", handler.GetCategoryStats)
	router.GET("/:id", handler.GetCategory)
	router.PUT("/:id", security.Authorize("technician"), handler.UpdateCategory)
	router.DELETE("/:id", security.Authorize("admin"), handler.DeleteCategory)
}

func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.Repository.GetCategories()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list categories", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	category, err := h.Repository.GetCategory(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get category", "details": err.Error()})
		return
	}
	if category == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	actorID, err := security.ActorID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to resolve authenticated user"})
		return
	}

	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}
	if req.Status == "" {
		req.Status = "Active"
	}

	if req.ParentID != nil {
		ok, err := h.Repository.CategoryExists(*req.ParentID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not create category", "details": err.Error()})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Parent category does not exist"})
			return
		}
	}

	code := req.Code
	if code == "" {
		count, err := h.Repository.CountCategories()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not create category", "details": err.Error()})
			return
		}
		code = metadata.NextCategoryCode(count)
	}

	id, err := h.Repository.PersistCategory(req, code)
	if err != nil {
		h.writeCategoryError(c, err)
		return
	}

	category, err := h.Repository.GetCategory(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get category", "details": err.Error()})
		return
	}

	go h.AuditLog.Log(actorID, "create", map[string]interface{}{
		"name": category.Name,
		"code": category.Code,
		"msg":  "Created asset category",
	}, category)

	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	actorID, err := security.ActorID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to resolve authenticated user"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	var req models.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if req.ParentID != nil {
		if *req.ParentID == id {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Category cannot be its own parent"})
			return
		}
		ok, err := h.Repository.CategoryExists(*req.ParentID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not update category", "details": err.Error()})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Parent category does not exist"})
			return
		}
	}

	if err := h.Repository.UpdateCategory(id, req); err != nil {
		h.writeCategoryError(c, err)
		return
	}

	category, err := h.Repository.GetCategory(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get category", "details": err.Error()})
		return
	}

	go h.AuditLog.Log(actorID, "update", map[string]interface{}{
		"name": category.Name,
		"msg":  "Updated asset category",
	}, category)

	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	actorID, err := security.ActorID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to resolve authenticated user"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	if err := h.Repository.DeleteCategory(id); err != nil {
		var inUse *CategoryInUseError
		if errors.As(err, &inUse) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error":   "Could not delete category",
				"details": fmt.Sprintf("Category is still referenced by %d assets and %d child categories", inUse.AssetCount, inUse.ChildCount),
			})
			return
		}
		h.writeCategoryError(c, err)
		return
	}

	go h.AuditLog.Log(actorID, "delete", map[string]interface{}{
		"category_id": id,
		"msg":         "Deleted asset category",
	}, &models.Category{ID: id})

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

func (h *CategoryHandler) GetCategoryStats(c *gin.Context) {
	stats, err := h.Repository.GetCategoryStats()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get category stats", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *CategoryHandler) writeCategoryError(c *gin.Context, err error) {
	var uniqueErr *custom_error.UniqueViolationError
	switch {
	case errors.Is(err, sql.ErrNoRows):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Category not found"})
	case errors.As(err, &uniqueErr):
		message := "Category already exists"
		switch uniqueErr.Field() {
		case "name":
			message = "Category name already exists"
		case "code":
			message = "Category code already exists"
		}
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": message, "details": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not save category", "details": err.Error()})
	}
}
