package blockout

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/churchflow/churchflow-backend/internal/auth"
	"github.com/churchflow/churchflow-backend/internal/availability"
)

// Blockout is a user-declared closed date interval of unavailability.
// Both bounds are inclusive; start_date <= end_date is enforced on every
// write, so stored rows are well-formed (the engine still fails safe if a
// malformed row ever appears).
type Blockout struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	StartDate time.Time `gorm:"not null;index" json:"start_date"`
	EndDate   time.Time `gorm:"not null;index" json:"end_date"`
	Reason    string    `gorm:"size:255" json:"reason,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User *auth.User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	// derived classification, never stored
	Status availability.Status `gorm:"-" json:"status,omitempty"`
}

// TableName overrides table name for Blockout
func (Blockout) TableName() string {
	return "blockouts"
}

func (b *Blockout) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// Window converts the blockout into the availability engine's input shape
func (b *Blockout) Window() availability.Window {
	return availability.Window{
		ID:     b.ID,
		UserID: b.UserID,
		Start:  b.StartDate,
		End:    b.EndDate,
	}
}

// CreateBlockoutRequest is the create payload; user_id always comes from
// the session, never the body
type CreateBlockoutRequest struct {
	StartDate string `json:"startDate" binding:"required"` // "2006-01-02"
	EndDate   string `json:"endDate" binding:"required"`   // "2006-01-02"
	Reason    string `json:"reason,omitempty"`
}

// UpdateBlockoutRequest is a partial update; only supplied fields change
type UpdateBlockoutRequest struct {
	StartDate *string `json:"startDate,omitempty"`
	EndDate   *string `json:"endDate,omitempty"`
	Reason    *string `json:"reason,omitempty"`
}
