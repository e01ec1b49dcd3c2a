package postgres

import (
	"errors"

	bookDomain "github.com/publica-project/publica/internal/book"

	bookDatamodel "github.com/publica-project/publica/internal/core/datamodel/book"
	"gorm.io/gorm"
)

// Repository implements book.Repository using GORM
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List() ([]bookDatamodel.Book, error) {
	var books []bookDatamodel.Book
	if err := r.db.Order("id").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (r *Repository) GetByID(id int64) (*bookDatamodel.Book, error) {
	var b bookDatamodel.Book
	if err := r.db.Where("id = ?", id).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bookDomain.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *Repository) Create(b *bookDatamodel.Book) error {
	return r.db.Create(b).Error
}

func (r *Repository) Update(b *bookDatamodel.Book) error {
	return r.db.Save(b).Error
}

func (r *Repository) Delete(id int64) error {
	return r.db.Delete(&bookDatamodel.Book{}, id).Error
}
