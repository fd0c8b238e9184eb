package blockout

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/churchflow/churchflow-backend/middleware"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

// List handles GET /blockouts. By default it returns the caller's own
// blockouts; ?all=true returns the team-wide list and is admin only.
// Optional ?start=&end= (YYYY-MM-DD) limit results to overlapping intervals.
// @Summary List blockouts
// @Tags Blockout
// @Produce json
// @Param all query bool false "Team-wide list (admin only)"
// @Param start query string false "Range start (YYYY-MM-DD)"
// @Param end query string false "Range end (YYYY-MM-DD)"
// @Success 200 {array} Blockout
// @Router /api/blockouts [get]
func (h *Handler) List(c *gin.Context) {
	ac, ok := middleware.GetAccessContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	start, end, err := rangeParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var blockouts []Blockout
	if c.Query("all") == "true" {
		blockouts, err = h.service.ListTeam(ac, start, end)
	} else {
		blockouts, err = h.service.ListMine(ac, start, end)
	}
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin role required for team-wide blockouts"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, blockouts)
}

// Create handles POST /blockouts
// @Summary Create a blockout
// @Tags Blockout
// @Accept json
// @Produce json
// @Param blockout body CreateBlockoutRequest true "Blockout interval"
// @Success 201 {object} Blockout
// @Router /api/blockouts [post]
func (h *Handler) Create(c *gin.Context) {
	ac, _ := middleware.GetAccessContext(c)

	var req CreateBlockoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.service.Create(c.Request.Context(), &req, ac, middleware.GetIPFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

// Update handles PUT /blockouts/:id (partial, owner only)
func (h *Handler) Update(c *gin.Context) {
	ac, _ := middleware.GetAccessContext(c)

	var req UpdateBlockoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.service.Update(c.Request.Context(), c.Param("id"), &req, ac, middleware.GetIPFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// Delete handles DELETE /blockouts/:id (owner or admin)
func (h *Handler) Delete(c *gin.Context) {
	ac, _ := middleware.GetAccessContext(c)

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), ac, middleware.GetIPFromContext(c)); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func rangeParams(c *gin.Context) (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if s := c.Query("start"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return nil, nil, errors.New("invalid start, use YYYY-MM-DD")
		}
		start = &t
	}
	if e := c.Query("end"); e != "" {
		t, err := time.Parse(dateLayout, e)
		if err != nil {
			return nil, nil, errors.New("invalid end, use YYYY-MM-DD")
		}
		end = &t
	}
	return start, end, nil
}
