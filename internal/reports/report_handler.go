package reports

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/luganzimathiasjoseph/ARPM/internal/repository"
)

type ReportHandler struct {
	Repository *repository.Repository
}

func RegisterRoutes(router *gin.RouterGroup, r *repository.Repository) {
	handler := ReportHandler{Repository: r}

	router.GET("/utilization", handler.GetUtilization)
}

// GetUtilization reports how the asset pool splits across lifecycle states.
func (h *ReportHandler) GetUtilization(c *gin.Context) {
	utilization, err := h.countByStatus()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not build utilization report", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"utilization": utilization})
}

func (h *ReportHandler) countByStatus() (map[string]int, error) {
	rows, err := h.Repository.DB.Query(`SELECT status, COUNT(*) FROM assets GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	defer rows.Close()

	utilization := map[string]int{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("unable fetch data: %w", err)
		}
		utilization[status] = count
	}

	return utilization, rows.Err()
}
