package role

import (
	"errors"
	"log/slog"

	"github.com/publica-project/publica/internal"
	roleDatamodel "github.com/publica-project/publica/internal/core/datamodel/role"
)

var (
	ErrNotFound  = errors.New("role not found")
	ErrDuplicate = errors.New("duplicate role")
)

type Repository interface {
	List() ([]roleDatamodel.Role, error)
	GetByID(id int64) (*roleDatamodel.Role, error)
	Create(r *roleDatamodel.Role) error
	Update(r *roleDatamodel.Role) error
	Delete(id int64) error
}

// Role is the API view of a stored role.
type Role struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	IsAuthenticated bool   `json:"is_authenticated"`
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List() ([]Role, error) {
	records, err := s.repo.List()
	if err != nil {
		return nil, internal.NewUpstreamError("Error when getting roles.", err)
	}
	roles := make([]Role, 0, len(records))
	for i := range records {
		roles = append(roles, fromDataModel(&records[i]))
	}
	return roles, nil
}

func (s *Service) Get(id int64) (*Role, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.NewNotFoundError("No such role.", internal.ErrCodeRoleNotFound)
		}
		return nil, internal.NewUpstreamError("Error when getting role.", err)
	}
	role := fromDataModel(record)
	return &role, nil
}

func (s *Service) Create(dto CreateRoleDTO) (*Role, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	record := &roleDatamodel.Role{
		Name:        dto.Name,
		Description: dto.Description,
		// new roles require authentication unless told otherwise
		IsAuthenticated: true,
	}
	if dto.IsAuthenticated != nil {
		record.IsAuthenticated = *dto.IsAuthenticated
	}

	if err := s.repo.Create(record); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, internal.NewConflictError("Error when creating role.", internal.ErrCodeDuplicateEntry).WithCause(err)
		}
		return nil, internal.NewUpstreamError("Error when creating role.", err)
	}

	s.logger.Info("role created", "role_id", record.ID, "name", record.Name)
	role := fromDataModel(record)
	return &role, nil
}

func (s *Service) Update(id int64, dto UpdateRoleDTO) (*Role, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.NewNotFoundError("No such role.", internal.ErrCodeRoleNotFound)
		}
		return nil, internal.NewUpstreamError("Error when getting role.", err)
	}

	if dto.Name != nil {
		record.Name = *dto.Name
	}
	if dto.Description != nil {
		record.Description = *dto.Description
	}
	if dto.IsAuthenticated != nil {
		record.IsAuthenticated = *dto.IsAuthenticated
	}

	if err := s.repo.Update(record); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, internal.NewConflictError("Error when updating role.", internal.ErrCodeDuplicateEntry).WithCause(err)
		}
		return nil, internal.NewUpstreamError("Error when updating role.", err)
	}
	role := fromDataModel(record)
	return &role, nil
}

// Delete removes a role. Users carrying the role keep their dangling role id;
// the permission table simply stops matching them on the next rebuild.
func (s *Service) Delete(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return internal.NewNotFoundError("No such role.", internal.ErrCodeRoleNotFound)
		}
		return internal.NewUpstreamError("Error when getting role.", err)
	}
	if err := s.repo.Delete(id); err != nil {
		return internal.NewUpstreamError("Error when deleting role.", err)
	}
	return nil
}

func fromDataModel(r *roleDatamodel.Role) Role {
	return Role{
		ID:              r.ID,
		Name:            r.Name,
		Description:     r.Description,
		IsAuthenticated: r.IsAuthenticated,
	}
}
