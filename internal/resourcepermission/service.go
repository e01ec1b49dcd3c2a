package resourcepermission

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/publica-project/publica/internal"
	rpDatamodel "github.com/publica-project/publica/internal/core/datamodel/resourcepermission"
)

var (
	ErrNotFound  = errors.New("resource permission not found")
	ErrDuplicate = errors.New("duplicate resource permission")
)

type Repository interface {
	// List returns every rule with its methods and role links populated.
	List() ([]rpDatamodel.ResourcePermission, error)
	GetByID(id int64) (*rpDatamodel.ResourcePermission, error)
	Create(p *rpDatamodel.ResourcePermission) error
	// Update persists the description and replaces the method set when
	// methods is non-nil.
	Update(p *rpDatamodel.ResourcePermission, methods []rpDatamodel.PermissionMethod) error
	Delete(id int64) error
}

// Rebuilder regenerates the in-memory permission table from storage.
type Rebuilder interface {
	Rebuild(ctx context.Context) error
}

// MethodView mirrors MethodDTO on the way out.
type MethodView struct {
	Name  string  `json:"name"`
	Roles []int64 `json:"roles"`
}

type PermissionView struct {
	ID           int64        `json:"id"`
	ResourceName string       `json:"resource_name"`
	Description  string       `json:"description"`
	Methods      []MethodView `json:"methods"`
}

type Service struct {
	repo        Repository
	rebuilder   Rebuilder
	autoRebuild bool
	logger      *slog.Logger
}

func NewService(repo Repository, rebuilder Rebuilder, autoRebuild bool, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		rebuilder:   rebuilder,
		autoRebuild: autoRebuild,
		logger:      logger,
	}
}

func (s *Service) List() ([]PermissionView, error) {
	records, err := s.repo.List()
	if err != nil {
		return nil, internal.NewUpstreamError("Error when getting resource permissions.", err)
	}
	views := make([]PermissionView, 0, len(records))
	for i := range records {
		views = append(views, fromDataModel(&records[i]))
	}
	return views, nil
}

func (s *Service) Get(id int64) (*PermissionView, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.NewNotFoundError("No such resource permission.", internal.ErrCodePermissionNotFound)
		}
		return nil, internal.NewUpstreamError("Error when getting resource permission.", err)
	}
	view := fromDataModel(record)
	return &view, nil
}

func (s *Service) Create(ctx context.Context, dto CreatePermissionDTO) (*PermissionView, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	record := &rpDatamodel.ResourcePermission{
		ResourceName: dto.ResourceName,
		Description:  dto.Description,
		Methods:      toMethodModels(dto.Methods),
	}
	if err := s.repo.Create(record); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, internal.NewConflictError("Error when creating resource permission.", internal.ErrCodeDuplicateEntry).WithCause(err)
		}
		return nil, internal.NewUpstreamError("Error when creating resource permission.", err)
	}

	s.logger.Info("resource permission created", "resource", record.ResourceName)
	s.rebuildAfterWrite(ctx)
	view := fromDataModel(record)
	return &view, nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdatePermissionDTO) (*PermissionView, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	record, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.NewNotFoundError("No such resource permission.", internal.ErrCodePermissionNotFound)
		}
		return nil, internal.NewUpstreamError("Error when getting resource permission.", err)
	}

	if dto.Description != nil {
		record.Description = *dto.Description
	}
	var methods []rpDatamodel.PermissionMethod
	if dto.Methods != nil {
		methods = toMethodModels(*dto.Methods)
	}

	if err := s.repo.Update(record, methods); err != nil {
		return nil, internal.NewUpstreamError("Error when updating resource permission.", err)
	}

	s.rebuildAfterWrite(ctx)
	return s.Get(id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return internal.NewNotFoundError("No such resource permission.", internal.ErrCodePermissionNotFound)
		}
		return internal.NewUpstreamError("Error when getting resource permission.", err)
	}
	if err := s.repo.Delete(id); err != nil {
		return internal.NewUpstreamError("Error when deleting resource permission.", err)
	}
	s.rebuildAfterWrite(ctx)
	return nil
}

// Rebuild regenerates the permission table on demand. Exposed as its own
// endpoint for operators who run with auto rebuild disabled.
func (s *Service) Rebuild(ctx context.Context) error {
	if err := s.rebuilder.Rebuild(ctx); err != nil {
		return internal.NewUpstreamError("Error when rebuilding permission table.", err)
	}
	return nil
}

// rebuildAfterWrite keeps the table in sync with storage. A failed rebuild is
// logged, not surfaced: the write itself succeeded and the previous snapshot
// stays in effect.
func (s *Service) rebuildAfterWrite(ctx context.Context) {
	if !s.autoRebuild {
		return
	}
	ctx, cancel := internal.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.rebuilder.Rebuild(ctx); err != nil {
		s.logger.Error("permission table rebuild failed after write", "error", err)
	}
}

func toMethodModels(methods []MethodDTO) []rpDatamodel.PermissionMethod {
	out := make([]rpDatamodel.PermissionMethod, 0, len(methods))
	for _, m := range methods {
		roles := make([]rpDatamodel.MethodRole, 0, len(m.Roles))
		for _, roleID := range m.Roles {
			roles = append(roles, rpDatamodel.MethodRole{RoleID: roleID})
		}
		out = append(out, rpDatamodel.PermissionMethod{Name: m.Name, Roles: roles})
	}
	return out
}

func fromDataModel(p *rpDatamodel.ResourcePermission) PermissionView {
	methods := make([]MethodView, 0, len(p.Methods))
	for _, m := range p.Methods {
		roles := make([]int64, 0, len(m.Roles))
		for _, r := range m.Roles {
			roles = append(roles, r.RoleID)
		}
		methods = append(methods, MethodView{Name: m.Name, Roles: roles})
	}
	return PermissionView{
		ID:           p.ID,
		ResourceName: p.ResourceName,
		Description:  p.Description,
		Methods:      methods,
	}
}
