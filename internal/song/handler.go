package song

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/churchflow/churchflow-backend/middleware"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

// List handles GET /songs
// @Summary List songs
// @Tags Song
// @Produce json
// @Param search query string false "Title/artist search"
// @Success 200 {array} Song
// @Router /api/songs [get]
func (h *Handler) List(c *gin.Context) {
	songs, err := h.service.List(c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, songs)
}

// Get handles GET /songs/:id
func (h *Handler) Get(c *gin.Context) {
	song, err := h.service.GetByID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, song)
}

// Create handles POST /songs (admin only)
// @Summary Add a song to the library
// @Tags Song
// @Accept json
// @Produce json
// @Param song body CreateSongRequest true "Song"
// @Success 201 {object} Song
// @Router /api/songs [post]
func (h *Handler) Create(c *gin.Context) {
	ac, _ := middleware.GetAccessContext(c)

	var req CreateSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	song, err := h.service.Create(c.Request.Context(), &req, ac, middleware.GetIPFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, song)
}

// Update handles PUT /songs/:id (admin only)
func (h *Handler) Update(c *gin.Context) {
	ac, _ := middleware.GetAccessContext(c)

	var req UpdateSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	song, err := h.service.Update(c.Request.Context(), c.Param("id"), &req, ac, middleware.GetIPFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, song)
}

// Delete handles DELETE /songs/:id (admin only)
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
