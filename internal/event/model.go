package event

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/churchflow/churchflow-backend/internal/availability"
	"github.com/churchflow/churchflow-backend/internal/song"
)

// ============================
// 🔷 GORM Event Model
type Event struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	Location    string    `gorm:"type:varchar(255)" json:"location"`
	CreatedBy   string    `gorm:"type:varchar(36);not null" json:"created_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Songs []EventSong `gorm:"foreignKey:EventID" json:"songs,omitempty"`
}

func (Event) TableName() string {
	return "events"
}

// Occurrence converts the event into the calendar engine's shape.
func (e *Event) Occurrence() availability.Occurrence {
	return availability.Occurrence{ID: e.ID, Date: e.Date}
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// ============================
// 🔷 GORM Event-Song Assignment Model
type EventSong struct {
	ID      string `gorm:"type:varchar(36);primaryKey" json:"id"`
	EventID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_event_song" json:"event_id"`
	SongID  string `gorm:"type:varchar(36);not null;uniqueIndex:idx_event_song" json:"song_id"`
	Order   int    `gorm:"not null;default:0" json:"order"`

	Song *song.Song `gorm:"foreignKey:SongID" json:"song,omitempty"`
}

func (EventSong) TableName() string {
	return "event_songs"
}

func (es *EventSong) BeforeCreate(tx *gorm.DB) error {
	if es.ID == "" {
		es.ID = uuid.NewString()
	}
	return nil
}

// ============================
// 🟡 Create Event Request
type CreateEventRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Date        string `json:"date" binding:"required"` // 🛠 string format: RFC3339 or "2006-01-02T15:04"
	Location    string `json:"location"`
}

// ============================
// 🟡 Attach Songs Request
type AttachSongsRequest struct {
	SongIDs []string `json:"song_ids" binding:"required,min=1"`
}

// ============================
// 🟢 Attach Songs Response
// Attaches are applied one by one; a failed song does not roll back
// the ones already attached.
type AttachSongsResponse struct {
	Attached []string          `json:"attached"`
	Failed   map[string]string `json:"failed,omitempty"`
}

// ============================
// 🟢 Event Stats Response
type EventStatsResponse struct {
	TotalEvents     int64 `json:"total_events"`
	UpcomingEvents  int64 `json:"upcoming_events"`
	ThisMonthEvents int64 `json:"this_month_events"`
	SongAssignments int64 `json:"song_assignments"`
}
