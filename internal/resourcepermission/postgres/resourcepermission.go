package postgres

import (
	"context"
	"errors"

	"github.com/publica-project/publica/internal/accesscontrol"
	rpDomain "github.com/publica-project/publica/internal/resourcepermission"

	rpDatamodel "github.com/publica-project/publica/internal/core/datamodel/resourcepermission"
	roleDatamodel "github.com/publica-project/publica/internal/core/datamodel/role"
	"gorm.io/gorm"
)

// Repository implements resourcepermission.Repository using GORM
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List() ([]rpDatamodel.ResourcePermission, error) {
	var rules []rpDatamodel.ResourcePermission
	err := r.db.
		Preload("Methods", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Methods.Roles").
		Order("id").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *Repository) GetByID(id int64) (*rpDatamodel.ResourcePermission, error) {
	var rule rpDatamodel.ResourcePermission
	err := r.db.
		Preload("Methods", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Methods.Roles").
		Where("id = ?", id).
		First(&rule).Error
	if err != nil {
		return nil, translate(err)
	}
	return &rule, nil
}

func (r *Repository) Create(p *rpDatamodel.ResourcePermission) error {
	return translate(r.db.Create(p).Error)
}

// Update persists scalar fields and, when methods is non-nil, replaces the
// whole method set in one transaction.
func (r *Repository) Update(p *rpDatamodel.ResourcePermission, methods []rpDatamodel.PermissionMethod) error {
	return translate(r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&rpDatamodel.ResourcePermission{}).
			Where("id = ?", p.ID).
			Update("description", p.Description).Error; err != nil {
			return err
		}
		if methods == nil {
			return nil
		}

		var methodIDs []int64
		if err := tx.Model(&rpDatamodel.PermissionMethod{}).
			Where("resource_permission_id = ?", p.ID).
			Pluck("id", &methodIDs).Error; err != nil {
			return err
		}
		if len(methodIDs) > 0 {
			if err := tx.Where("permission_method_id IN ?", methodIDs).
				Delete(&rpDatamodel.MethodRole{}).Error; err != nil {
				return err
			}
			if err := tx.Where("resource_permission_id = ?", p.ID).
				Delete(&rpDatamodel.PermissionMethod{}).Error; err != nil {
				return err
			}
		}

		for i := range methods {
			methods[i].ResourcePermissionID = p.ID
			if err := tx.Create(&methods[i]).Error; err != nil {
				return err
			}
		}
		return nil
	}))
}

func (r *Repository) Delete(id int64) error {
	return translate(r.db.Transaction(func(tx *gorm.DB) error {
		var methodIDs []int64
		if err := tx.Model(&rpDatamodel.PermissionMethod{}).
			Where("resource_permission_id = ?", id).
			Pluck("id", &methodIDs).Error; err != nil {
			return err
		}
		if len(methodIDs) > 0 {
			if err := tx.Where("permission_method_id IN ?", methodIDs).
				Delete(&rpDatamodel.MethodRole{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("resource_permission_id = ?", id).
			Delete(&rpDatamodel.PermissionMethod{}).Error; err != nil {
			return err
		}
		return tx.Delete(&rpDatamodel.ResourcePermission{}, id).Error
	}))
}

// RuleStore feeds the table rebuilder. It reads every stored rule in one bulk
// query and resolves role links against the roles table, so a rebuild sees
// one consistent view of storage.
type RuleStore struct {
	db *gorm.DB
}

func NewRuleStore(db *gorm.DB) *RuleStore {
	return &RuleStore{db: db}
}

func (s *RuleStore) ListResourceRules(ctx context.Context) ([]accesscontrol.ResourceRule, error) {
	var roles []roleDatamodel.Role
	if err := s.db.WithContext(ctx).Find(&roles).Error; err != nil {
		return nil, err
	}
	authenticated := make(map[int64]bool, len(roles))
	for _, role := range roles {
		authenticated[role.ID] = role.IsAuthenticated
	}

	var rules []rpDatamodel.ResourcePermission
	err := s.db.WithContext(ctx).
		Preload("Methods", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Methods.Roles").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}

	out := make([]accesscontrol.ResourceRule, 0, len(rules))
	for _, rule := range rules {
		methods := make([]accesscontrol.MethodRule, 0, len(rule.Methods))
		for _, m := range rule.Methods {
			refs := make([]accesscontrol.RoleRef, 0, len(m.Roles))
			for _, link := range m.Roles {
				isAuth, known := authenticated[link.RoleID]
				if !known {
					// dangling role link, treat as an authenticated role
					isAuth = true
				}
				refs = append(refs, accesscontrol.RoleRef{ID: link.RoleID, IsAuthenticated: isAuth})
			}
			methods = append(methods, accesscontrol.MethodRule{Name: m.Name, Roles: refs})
		}
		out = append(out, accesscontrol.ResourceRule{ResourceName: rule.ResourceName, Methods: methods})
	}
	return out, nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return rpDomain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return rpDomain.ErrDuplicate
	default:
		return err
	}
}
