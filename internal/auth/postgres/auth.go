package postgres

import (
	"errors"

	"github.com/publica-project/publica/internal/auth"
	roleDatamodel "github.com/publica-project/publica/internal/core/datamodel/role"
	userDatamodel "github.com/publica-project/publica/internal/core/datamodel/user"
	"gorm.io/gorm"
)

// UserRepository implements auth.UserRepository using GORM
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByEmail(email string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) GetByID(id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	if err := r.db.Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) Create(u *userDatamodel.User) error {
	return translate(r.db.Create(u).Error)
}

func (r *UserRepository) Update(u *userDatamodel.User) error {
	return translate(r.db.Save(u).Error)
}

func (r *UserRepository) Delete(id int64) error {
	return translate(r.db.Delete(&userDatamodel.User{}, id).Error)
}

// RoleRepository implements auth.RoleRepository using GORM
type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) GetByID(id int64) (*roleDatamodel.Role, error) {
	var role roleDatamodel.Role
	if err := r.db.Where("id = ?", id).First(&role).Error; err != nil {
		return nil, translate(err)
	}
	return &role, nil
}

func (r *RoleRepository) GetByName(name string) (*roleDatamodel.Role, error) {
	var role roleDatamodel.Role
	if err := r.db.Where("name = ?", name).First(&role).Error; err != nil {
		return nil, translate(err)
	}
	return &role, nil
}

// GetPublicRole returns the role registration assigns to new users.
func (r *RoleRepository) GetPublicRole() (*roleDatamodel.Role, error) {
	var role roleDatamodel.Role
	if err := r.db.Where("is_authenticated = ?", false).First(&role).Error; err != nil {
		return nil, translate(err)
	}
	return &role, nil
}

func (r *RoleRepository) Create(role *roleDatamodel.Role) error {
	return translate(r.db.Create(role).Error)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return auth.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return auth.ErrDuplicate
	default:
		return err
	}
}
