package calendar

import (
	"github.com/churchflow/churchflow-backend/internal/blockout"
	"github.com/churchflow/churchflow-backend/internal/event"
)

const dateLayout = "2006-01-02"

// ============================
// 🟢 Date Check Response
type ConflictingUser struct {
	UserID    string              `json:"user_id"`
	Name      string              `json:"name,omitempty"`
	Email     string              `json:"email,omitempty"`
	Blockouts []blockout.Blockout `json:"blockouts"`
}

type DateCheckResponse struct {
	Date             string            `json:"date"`
	Available        bool              `json:"available"`
	ConflictingUsers []ConflictingUser `json:"conflicting_users"`
}

// ============================
// 🟢 Month View Response
type DayCell struct {
	Date      string              `json:"date"`
	InMonth   bool                `json:"in_month"`
	Available bool                `json:"available"`
	Events    []event.Event       `json:"events"`
	Blockouts []blockout.Blockout `json:"blockouts"`
}

type MonthViewResponse struct {
	Year  int       `json:"year"`
	Month int       `json:"month"`
	Days  []DayCell `json:"days"`
}
