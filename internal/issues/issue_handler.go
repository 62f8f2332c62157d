package issues

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/luganzimathiasjoseph/ARPM/pkg/auditlog"
	"github.com/luganzimathiasjoseph/ARPM/pkg/models"
	"github.com/luganzimathiasjoseph/ARPM/pkg/security"
)

type IssueHandler struct {
	Repository *IssueRepository
	AuditLog   *auditlog.Auditlog
}

func RegisterRoutes(router *gin.RouterGroup, r *IssueRepository, a *auditlog.Auditlog) {
	handler := IssueHandler{Repository: r, AuditLog: a}

	router.POST("", handler.CreateIssue)
	router.GET("", handler.GetIssues)
	router.GET("/stats", security.Authorize("technician"), handler.GetIssueStats)
	router.GET("/:id", handler.GetIssue)
	router.PUT("/:id", handler.UpdateIssue)
	router.DELETE("/:id", handler.DeleteIssue)
	router.POST("/:id/assign", security.Authorize("admin"), handler.AssignIssue)
	router.POST("/:id/resolve", security.Authorize("technician"), handler.ResolveIssue)
}

// staff are restricted to issues they reported; technicians and admins see
// everything.
func canTouchIssue(c *gin.Context, issue *models.Issue, actorID int) bool {
	if security.ActorRole(c) != "staff" {
		return true
	}
	return issue.ReportedBy == actorID
}

func (h *IssueHandler) CreateIssue(c *gin.Context) {
	actorID, err := security.ActorID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to resolve authenticated user"})
		return
	}

	var req models.CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if req.AssetID != nil {
		ok, err := h.Repository.AssetExists(*req.AssetID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not create issue", "details": err.Error()})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Referenced asset does not exist"})
			return
		}
	}

	id, err := h.Repository.PersistIssue(req, actorID, time.Now())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not create issue", "details": err.Error()})
		return
	}

	issue, err := h.Repository.GetIssue(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get issue", "details": err.Error()})
		return
	}

	go h.AuditLog.Log(actorID, "create", map[string]interface{}{
		"issue_type": issue.IssueType,
		"priority":   issue.Priority,
		"msg":        "Reported issue",
	}, issue)

	c.JSON(http.StatusCreated, issue)
}

func (h *IssueHandler) GetIssues(c *gin.Context) {
	actorID, err := security.ActorID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to resolve authenticated user"})
		return
	}

	filter := models.IssueFilter{
		Status:    c.Query("status"),
		IssueType: c.Query("issueType"),
		Priority:  c.Query("priority"),
		Search:    c.Query("search"),
	}
	if security.ActorRole(c) == "staff" {
		filter.ReportedBy = actorID
	} else if c.Query("assignedTo") == "me" {
		filter.AssignedTo = actorID
	}

	issues, err := h.Repository.GetIssues(filter)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list issues", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, issues)
}

func (h *IssueHandler) GetIssue(c *gin.Context) {
	actorID, err := security.ActorID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to resolve authenticated user"})
		return
	}

	issue, ok := h.loadIssue(c)
	if !ok {
		return
	}
	if !canTouchIssue(c, issue, actorID) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You can only view your own issues"})
		return
	}

	c.JSON(http.StatusOK, issue)
}

func (h *IssueHandler) UpdateIssue(c *gin.Context) {
	actorID, err := security.ActorID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to resolve authenticated user"})
		return
	}

	issue, ok := h.loadIssue(c)
	if !ok {
		return
	}
	if !canTouchIssue(c, issue, actorID) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You can only update your own issues"})
		return
	}

	var req models.UpdateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if err := h.Repository.UpdateIssue(issue.ID, req, time.Now()); err != nil {
		h.writeIssueError(c, err)
		return
	}

	updated, err := h.Repository.GetIssue(issue.ID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get issue", "details": err.Error()})
		return
	}

	go h.AuditLog.Log(actorID, "update", map[string]interface{}{
		"status": updated.Status,
		"msg":    "Updated issue",
	}, updated)

	c.JSON(http.StatusOK, updated)
}

func (h *IssueHandler) DeleteIssue(c *gin.Context) {
	actorID, err := security.ActorID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to resolve authenticated user"})
		return
	}

	issue, ok := h.loadIssue(c)
	if !ok {
		return
	}
	if !canTouchIssue(c, issue, actorID) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You can only delete your own issues"})
		return
	}

	if err := h.Repository.DeleteIssue(issue.ID); err != nil {
		h.writeIssueError(c, err)
		return
	}

	go h.AuditLog.Log(actorID, "delete", map[string]interface{}{
		"issue_id": issue.ID,
		"msg":      "Deleted issue",
	}, issue)

	c.JSON(http.StatusOK, gin.H{"message": "Issue deleted successfully"})
}

func (h *IssueHandler) AssignIssue(c *gin.Context) {
	actorID, err := security.ActorID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to resolve authenticated user"})
		return
	}

	issue, ok := h.loadIssue(c)
	if !ok {
		return
	}

	var req struct {
		TechnicianID int `json:"technician" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	exists, err := h.Repository.UserExists(req.TechnicianID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not assign issue", "details": err.Error()})
		return
	}
	if !exists {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Technician does not exist"})
		return
	}

	if err := h.Repository.AssignIssue(issue.ID, req.TechnicianID, time.Now()); err != nil {
		h.writeIssueError(c, err)
		return
	}

	updated, err := h.Repository.GetIssue(issue.ID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get issue", "details": err.Error()})
		return
	}

	go h.AuditLog.Log(actorID, "assign", map[string]interface{}{
		"technician": req.TechnicianID,
		"msg":        "Assigned issue",
	}, updated)

	c.JSON(http.StatusOK, updated)
}

func (h *IssueHandler) ResolveIssue(c *gin.Context) {
	actorID, err := security.ActorID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to resolve authenticated user"})
		return
	}

	issue, ok := h.loadIssue(c)
	if !ok {
		return
	}

	var req struct {
		Notes string `json:"resolutionNotes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if err := h.Repository.ResolveIssue(issue.ID, actorID, req.Notes, time.Now()); err != nil {
		h.writeIssueError(c, err)
		return
	}

	updated, err := h.Repository.GetIssue(issue.ID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get issue", "details": err.Error()})
		return
	}

	go h.AuditLog.Log(actorID, "resolve", map[string]interface{}{
		"msg": "Resolved issue",
	}, updated)

	c.JSON(http.StatusOK, updated)
}

func (h *IssueHandler) GetIssueStats(c *gin.Context) {
	stats, err := h.Repository.GetIssueStats()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get issue stats", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *IssueHandler) loadIssue(c *gin.Context) (*models.Issue, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return nil, false
	}

	issue, err := h.Repository.GetIssue(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get issue", "details": err.Error()})
		return nil, false
	}
	if issue == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return nil, false
	}

	return issue, true
}

func (h *IssueHandler) writeIssueError(c *gin.Context, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not save issue", "details": err.Error()})
}
