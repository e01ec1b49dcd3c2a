package postgres

import (
	"errors"

	userDomain "github.com/publica-project/publica/internal/user"

	userDatamodel "github.com/publica-project/publica/internal/core/datamodel/user"
	"gorm.io/gorm"
)

// Repository implements user.Repository using GORM
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List() ([]userDatamodel.User, error) {
	var users []userDatamodel.User
	if err := r.db.Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *Repository) GetByID(id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	if err := r.db.Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *Repository) Create(u *userDatamodel.User) error {
	return translate(r.db.Create(u).Error)
}

func (r *Repository) Update(u *userDatamodel.User) error {
	return translate(r.db.Save(u).Error)
}

func (r *Repository) Delete(id int64) error {
	return translate(r.db.Delete(&userDatamodel.User{}, id).Error)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return userDomain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return userDomain.ErrDuplicate
	default:
		return err
	}
}
