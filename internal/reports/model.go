package reports

import (
	"time"
)

const (
	// Report types
	ReportTypeBlockouts = "blockouts"
	ReportTypeEvents    = "events"
	ReportTypeSongs     = "songs"

	// Date range constants
	DateRangeDaily   = "daily"
	DateRangeWeekly  = "weekly"
	DateRangeMonthly = "monthly"
	DateRangeYearly  = "yearly"
	DateRangeCustom  = "custom"

	// Report format constants
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

// BlockoutReportRow is one exported blockout with its owner resolved
type BlockoutReportRow struct {
	ID        string    `json:"id"`
	UserName  string    `json:"user_name"`
	UserEmail string    `json:"user_email"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Reason    string    `json:"reason"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// EventReportRow is one exported event with its service-order song count
type EventReportRow struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Date      time.Time `json:"date"`
	Location  string    `json:"location"`
	SongCount int64     `json:"song_count"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// SongReportRow is one exported library song with its usage count
type SongReportRow struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Artist     string    `json:"artist"`
	Key        string    `json:"key"`
	YoutubeURL string    `json:"youtube_url"`
	TimesUsed  int64     `json:"times_used"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReportData bundles the rows an export run may carry
type ReportData struct {
	Blockouts []BlockoutReportRow
	Events    []EventReportRow
	Songs     []SongReportRow
}
