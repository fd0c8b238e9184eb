package song

import (
	"gorm.io/gorm"
)

type Repository interface {
	Create(s *Song) error
	FindByID(id string) (*Song, error)
	List(search string) ([]Song, error)
	Update(s *Song) error
	Delete(id string) error
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(s *Song) error {
	return r.db.Create(s).Error
}

func (r *repository) FindByID(id string) (*Song, error) {
	var s Song
	err := r.db.First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns the library, optionally filtered by title/artist search
func (r *repository) List(search string) ([]Song, error) {
	var songs []Song
	query := r.db.Order("title ASC")
	if search != "" {
		ilike := "%" + search + "%"
		query = query.Where("title ILIKE ? OR artist ILIKE ?", ilike, ilike)
	}
	err := query.Find(&songs).Error
	return songs, err
}

func (r *repository) Update(s *Song) error {
	return r.db.Save(s).Error
}

func (r *repository) Delete(id string) error {
	return r.db.Delete(&Song{}, "id = ?", id).Error
}
