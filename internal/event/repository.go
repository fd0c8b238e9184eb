package event

import (
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(e *Event) error
	FindByID(id string) (*Event, error)
	List(start, end *time.Time) ([]Event, error)
	FindAssignment(eventID, songID string) (*EventSong, error)
	AttachSong(es *EventSong) error
	DetachSong(eventID, songID string) error
	NextOrder(eventID string) (int, error)
	CountEvents() (int64, error)
	CountEventsSince(t time.Time) (int64, error)
	CountEventsBetween(start, end time.Time) (int64, error)
	CountAssignments() (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// ===========================
// 🎯 Create Event
func (r *gormRepository) Create(e *Event) error {
	return r.db.Create(e).Error
}

// ===========================
// 🔍 Get Event By ID with its song list in service order
func (r *gormRepository) FindByID(id string) (*Event, error) {
	var e Event
	err := r.db.
		Preload("Songs", func(db *gorm.DB) *gorm.DB {
			return db.Order("event_songs.\"order\" ASC")
		}).
		Preload("Songs.Song").
		First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ===========================
// 📋 List Events, optionally restricted to a date range
func (r *gormRepository) List(start, end *time.Time) ([]Event, error) {
	var events []Event
	q := r.db.Model(&Event{})
	if start != nil {
		q = q.Where("date >= ?", *start)
	}
	if end != nil {
		q = q.Where("date <= ?", *end)
	}
	err := q.Order("date ASC").Find(&events).Error
	return events, err
}

// ===========================
// 🔍 Find a single event-song assignment
func (r *gormRepository) FindAssignment(eventID, songID string) (*EventSong, error) {
	var es EventSong
	err := r.db.First(&es, "event_id = ? AND song_id = ?", eventID, songID).Error
	if err != nil {
		return nil, err
	}
	return &es, nil
}

// ===========================
// ➕ Attach a song to an event
func (r *gormRepository) AttachSong(es *EventSong) error {
	return r.db.Create(es).Error
}

// ===========================
// ➖ Detach a song from an event
func (r *gormRepository) DetachSong(eventID, songID string) error {
	res := r.db.Where("event_id = ? AND song_id = ?", eventID, songID).Delete(&EventSong{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ===========================
// 🔢 Next free position in the event's song order
func (r *gormRepository) NextOrder(eventID string) (int, error) {
	var max *int
	err := r.db.Model(&EventSong{}).
		Where("event_id = ?", eventID).
		Select("MAX(\"order\")").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max + 1, nil
}

// ===========================
// 📊 Stats counters
func (r *gormRepository) CountEvents() (int64, error) {
	var count int64
	err := r.db.Model(&Event{}).Count(&count).Error
	return count, err
}

func (r *gormRepository) CountEventsSince(t time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&Event{}).Where("date >= ?", t).Count(&count).Error
	return count, err
}

func (r *gormRepository) CountEventsBetween(start, end time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&Event{}).Where("date >= ? AND date < ?", start, end).Count(&count).Error
	return count, err
}

func (r *gormRepository) CountAssignments() (int64, error) {
	var count int64
	err := r.db.Model(&EventSong{}).Count(&count).Error
	return count, err
}
