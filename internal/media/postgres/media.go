package postgres

import (
	"errors"

	mediaDomain "github.com/publica-project/publica/internal/media"

	mediaDatamodel "github.com/publica-project/publica/internal/core/datamodel/media"
	"gorm.io/gorm"
)

// Repository implements media.Repository using GORM
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List() ([]mediaDatamodel.MediaObject, error) {
	var objects []mediaDatamodel.MediaObject
	if err := r.db.Order("id").Find(&objects).Error; err != nil {
		return nil, err
	}
	return objects, nil
}

func (r *Repository) GetByID(id int64) (*mediaDatamodel.MediaObject, error) {
	var m mediaDatamodel.MediaObject
	if err := r.db.Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, mediaDomain.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *Repository) Create(m *mediaDatamodel.MediaObject) error {
	return r.db.Create(m).Error
}

func (r *Repository) Update(m *mediaDatamodel.MediaObject) error {
	return r.db.Save(m).Error
}

func (r *Repository) Delete(id int64) error {
	return r.db.Delete(&mediaDatamodel.MediaObject{}, id).Error
}
