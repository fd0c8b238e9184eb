package blockout

import (
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(b *Blockout) error
	FindByID(id string) (*Blockout, error)
	ListByUser(userID string, start, end *time.Time) ([]Blockout, error)
	ListAll(start, end *time.Time) ([]Blockout, error)
	Update(b *Blockout) error
	Delete(id string) error
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(b *Blockout) error {
	return r.db.Create(b).Error
}

func (r *repository) FindByID(id string) (*Blockout, error) {
	var b Blockout
	err := r.db.First(&b, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListByUser returns a user's blockouts, optionally limited to intervals
// overlapping [start, end], newest interval first
func (r *repository) ListByUser(userID string, start, end *time.Time) ([]Blockout, error) {
	var blockouts []Blockout
	query := r.db.Where("user_id = ?", userID)
	query = applyRange(query, start, end)
	err := query.Order("start_date DESC").Find(&blockouts).Error
	return blockouts, err
}

// ListAll returns team-wide blockouts with owning users preloaded
func (r *repository) ListAll(start, end *time.Time) ([]Blockout, error) {
	var blockouts []Blockout
	query := applyRange(r.db, start, end)
	err := query.Preload("User").Order("start_date ASC").Find(&blockouts).Error
	return blockouts, err
}

// applyRange keeps blockouts whose interval overlaps [start, end]
func applyRange(query *gorm.DB, start, end *time.Time) *gorm.DB {
	if start != nil {
		query = query.Where("end_date >= ?", *start)
	}
	if end != nil {
		query = query.Where("start_date <= ?", *end)
	}
	return query
}

func (r *repository) Update(b *Blockout) error {
	return r.db.Save(b).Error
}

func (r *repository) Delete(id string) error {
	return r.db.Delete(&Blockout{}, "id = ?", id).Error
}
