package postgres

import (
	"errors"

	articleDomain "github.com/publica-project/publica/internal/article"

	articleDatamodel "github.com/publica-project/publica/internal/core/datamodel/article"
	"gorm.io/gorm"
)

// Repository implements article.Repository using GORM
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List() ([]articleDatamodel.Article, error) {
	var articles []articleDatamodel.Article
	if err := r.db.Order("id").Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *Repository) GetByID(id int64) (*articleDatamodel.Article, error) {
	var a articleDatamodel.Article
	if err := r.db.Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, articleDomain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *Repository) Create(a *articleDatamodel.Article) error {
	return r.db.Create(a).Error
}

func (r *Repository) Update(a *articleDatamodel.Article) error {
	return r.db.Save(a).Error
}

func (r *Repository) Delete(id int64) error {
	return r.db.Delete(&articleDatamodel.Article{}, id).Error
}
