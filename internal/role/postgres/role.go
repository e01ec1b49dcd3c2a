package postgres

import (
	"errors"

	roleDomain "github.com/publica-project/publica/internal/role"

	roleDatamodel "github.com/publica-project/publica/internal/core/datamodel/role"
	"gorm.io/gorm"
)

// Repository implements role.Repository using GORM
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List() ([]roleDatamodel.Role, error) {
	var roles []roleDatamodel.Role
	if err := r.db.Order("id").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *Repository) GetByID(id int64) (*roleDatamodel.Role, error) {
	var role roleDatamodel.Role
	if err := r.db.Where("id = ?", id).First(&role).Error; err != nil {
		return nil, translate(err)
	}
	return &role, nil
}

func (r *Repository) Create(role *roleDatamodel.Role) error {
	return translate(r.db.Create(role).Error)
}

func (r *Repository) Update(role *roleDatamodel.Role) error {
	return translate(r.db.Save(role).Error)
}

func (r *Repository) Delete(id int64) error {
	return translate(r.db.Delete(&roleDatamodel.Role{}, id).Error)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return roleDomain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return roleDomain.ErrDuplicate
	default:
		return err
	}
}
