package event

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/churchflow/churchflow-backend/middleware"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

const dateLayout = "2006-01-02"

// List handles GET /events. Optional ?start=&end= (YYYY-MM-DD) limit
// results to events dated inside the range.
// @Summary List events
// @Tags Event
// @Produce json
// @Param start query string false "Range start (YYYY-MM-DD)"
// @Param end query string false "Range end (YYYY-MM-DD)"
// @Success 200 {array} Event
// @Router /api/events [get]
func (h *Handler) List(c *gin.Context) {
	start, end, err := rangeParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events, err := h.service.List(start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, events)
}

// Get handles GET /events/:id and includes the ordered song list.
// @Summary Get an event
// @Tags Event
// @Produce json
// @Success 200 {object} Event
// @Router /api/events/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	e, err := h.service.GetByID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, e)
}

// Create handles POST /events (admin only)
// @Summary Create an event
// @Tags Event
// @Accept json
// @Produce json
// @Param event body CreateEventRequest true "Event details"
// @Success 201 {object} Event
// @Router /api/events [post]
func (h *Handler) Create(c *gin.Context) {
	ac, _ := middleware.GetAccessContext(c)

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	e, err := h.service.Create(c.Request.Context(), &req, ac, middleware.GetIPFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, e)
}

// AttachSongs handles POST /events/:id/songs (admin only)
// @Summary Attach songs to an event
// @Tags Event
// @Accept json
// @Produce json
// @Param songs body AttachSongsRequest true "Song IDs"
// @Success 200 {object} AttachSongsResponse
// @Router /api/events/{id}/songs [post]
func (h *Handler) AttachSongs(c *gin.Context) {
	ac, _ := middleware.GetAccessContext(c)

	var req AttachSongsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.AttachSongs(c.Request.Context(), c.Param("id"), req.SongIDs, ac, middleware.GetIPFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DetachSong handles DELETE /events/:id/songs/:songId (admin only)
func (h *Handler) DetachSong(c *gin.Context) {
	ac, _ := middleware.GetAccessContext(c)

	if err := h.service.DetachSong(c.Request.Context(), c.Param("id"), c.Param("songId"), ac, middleware.GetIPFromContext(c)); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Stats handles GET /events/stats (admin only)
// @Summary Event stats
// @Tags Event
// @Produce json
// @Success 200 {object} EventStatsResponse
// @Router /api/events/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
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
		// include the whole end day
		t = t.Add(24*time.Hour - time.Nanosecond)
		end = &t
	}
	return start, end, nil
}
