package song

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Song is an entry in the worship song library
type Song struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Artist     string    `gorm:"size:255" json:"artist,omitempty"`
	Key        string    `gorm:"size:3" json:"key,omitempty"`
	YoutubeURL string    `gorm:"size:512" json:"youtube_url,omitempty"`
	CreatedBy  string    `gorm:"type:varchar(36);not null" json:"created_by"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName overrides table name for Song
func (Song) TableName() string {
	return "songs"
}

func (s *Song) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// MusicKeys are the 12 pitch classes a song key may take
var MusicKeys = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// IsValidKey accepts one of the 12 pitch classes or the empty string
func IsValidKey(key string) bool {
	if key == "" {
		return true
	}
	for _, k := range MusicKeys {
		if k == key {
			return true
		}
	}
	return false
}

// CreateSongRequest is the create payload; created_by comes from the session
type CreateSongRequest struct {
	Title      string `json:"title" binding:"required"`
	Artist     string `json:"artist,omitempty"`
	Key        string `json:"key,omitempty"`
	YoutubeURL string `json:"youtubeUrl,omitempty"`
}

// UpdateSongRequest is a partial update; only supplied fields change
type UpdateSongRequest struct {
	Title      *string `json:"title,omitempty"`
	Artist     *string `json:"artist,omitempty"`
	Key        *string `json:"key,omitempty"`
	YoutubeURL *string `json:"youtubeUrl,omitempty"`
}
