package reports

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/churchflow/churchflow-backend/middleware"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

// Export handles GET /reports/:type (admin only). The document is streamed
// as an attachment.
// @Summary Export a report
// @Tags Reports
// @Produce octet-stream
// @Param type path string true "Report type (blockouts|events|songs)"
// @Param format query string false "Format (csv|excel|pdf), default csv"
// @Param date_range query string false "Preset range (daily|weekly|monthly|yearly|custom)"
// @Param start_date query string false "Custom range start (YYYY-MM-DD)"
// @Param end_date query string false "Custom range end (YYYY-MM-DD)"
// @Router /api/reports/{type} [get]
func (h *Handler) Export(c *gin.Context) {
	ac, ok := middleware.GetAccessContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	req := ReportRequest{
		Type:      c.Param("type"),
		Format:    c.Query("format"),
		DateRange: c.Query("date_range"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}

	data, filename, mime, err := h.service.Export(c.Request.Context(), req, ac, middleware.GetIPFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "admin role required"})
		case errors.Is(err, ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, mime, data)
}
