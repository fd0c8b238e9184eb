package reports

import (
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	BlockoutRows(start, end time.Time) ([]BlockoutReportRow, error)
	EventRows(start, end time.Time) ([]EventReportRow, error)
	SongRows() ([]SongReportRow, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// ===========================
// 📋 Blockout rows with owners resolved
func (r *gormRepository) BlockoutRows(start, end time.Time) ([]BlockoutReportRow, error) {
	var rows []BlockoutReportRow
	err := r.db.Table("blockouts").
		Select(`blockouts.id,
			TRIM(CONCAT(users.first_name, ' ', users.last_name)) AS user_name,
			users.email AS user_email,
			blockouts.start_date,
			blockouts.end_date,
			blockouts.reason,
			blockouts.created_at`).
		Joins("LEFT JOIN users ON users.id = blockouts.user_id").
		Where("blockouts.end_date >= ? AND blockouts.start_date <= ?", start, end).
		Order("blockouts.start_date ASC").
		Scan(&rows).Error
	return rows, err
}

// ===========================
// 📋 Event rows with song counts and creators resolved
func (r *gormRepository) EventRows(start, end time.Time) ([]EventReportRow, error) {
	var rows []EventReportRow
	err := r.db.Table("events").
		Select(`events.id,
			events.title,
			events.date,
			events.location,
			COUNT(event_songs.id) AS song_count,
			TRIM(CONCAT(users.first_name, ' ', users.last_name)) AS created_by,
			events.created_at`).
		Joins("LEFT JOIN event_songs ON event_songs.event_id = events.id").
		Joins("LEFT JOIN users ON users.id = events.created_by").
		Where("events.date >= ? AND events.date <= ?", start, end).
		Group("events.id, users.first_name, users.last_name").
		Order("events.date ASC").
		Scan(&rows).Error
	return rows, err
}

// ===========================
// 📋 Song rows with usage counts
func (r *gormRepository) SongRows() ([]SongReportRow, error) {
	var rows []SongReportRow
	err := r.db.Table("songs").
		Select(`songs.id,
			songs.title,
			songs.artist,
			songs.key,
			songs.youtube_url,
			COUNT(event_songs.id) AS times_used,
			songs.created_at`).
		Joins("LEFT JOIN event_songs ON event_songs.song_id = songs.id").
		Group("songs.id").
		Order("songs.title ASC").
		Scan(&rows).Error
	return rows, err
}
