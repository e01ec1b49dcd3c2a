package user

import (
	"errors"
	"log/slog"
	"time"

	"github.com/publica-project/publica/internal"
	"github.com/publica-project/publica/internal/auth"
	roleDatamodel "github.com/publica-project/publica/internal/core/datamodel/role"
	userDatamodel "github.com/publica-project/publica/internal/core/datamodel/user"
)

var (
	ErrNotFound  = errors.New("user not found")
	ErrDuplicate = errors.New("duplicate user")
)

type Repository interface {
	List() ([]userDatamodel.User, error)
	GetByID(id int64) (*userDatamodel.User, error)
	Create(u *userDatamodel.User) error
	Update(u *userDatamodel.User) error
	Delete(id int64) error
}

// RoleGetter resolves the role embedded in user views.
type RoleGetter interface {
	GetByID(id int64) (*roleDatamodel.Role, error)
}

// RoleView is the role shape embedded in user responses.
type RoleView struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	IsAuthenticated bool   `json:"is_authenticated"`
}

// User is the API view of an account. Salt and hash never leave the service.
type User struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	RoleID     int64     `json:"role_id"`
	IsVerified bool      `json:"is_verified"`
	Role       *RoleView `json:"role,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Service struct {
	repo      Repository
	roles     RoleGetter
	passwords *auth.PasswordHasher
	logger    *slog.Logger
}

func NewService(repo Repository, roles RoleGetter, passwords *auth.PasswordHasher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		roles:     roles,
		passwords: passwords,
		logger:    logger,
	}
}

func (s *Service) List() ([]User, error) {
	records, err := s.repo.List()
	if err != nil {
		return nil, internal.NewUpstreamError("Error when getting users.", err)
	}
	users := make([]User, 0, len(records))
	for i := range records {
		users = append(users, s.assemble(&records[i]))
	}
	return users, nil
}

func (s *Service) Get(id int64) (*User, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.NewNotFoundError("No such user.", internal.ErrCodeUserNotFound)
		}
		return nil, internal.NewUpstreamError("Error when getting user.", err)
	}
	user := s.assemble(record)
	return &user, nil
}

func (s *Service) Create(dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	salt, hash, err := s.passwords.Generate(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("Error when hashing password.", err)
	}

	record := &userDatamodel.User{
		Email:      dto.Email,
		Name:       dto.Name,
		RoleID:     dto.RoleID,
		IsVerified: dto.IsVerified,
		Salt:       salt,
		Hash:       hash,
	}
	if err := s.repo.Create(record); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, internal.NewConflictError("Error when creating user.", internal.ErrCodeDuplicateEntry).WithCause(err)
		}
		return nil, internal.NewUpstreamError("Error when creating user.", err)
	}

	s.logger.Info("user created", "user_id", record.ID, "email", record.Email)
	user := s.assemble(record)
	return &user, nil
}

func (s *Service) Update(id int64, dto UpdateUserDTO) (*User, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.NewNotFoundError("No such user.", internal.ErrCodeUserNotFound)
		}
		return nil, internal.NewUpstreamError("Error when getting user.", err)
	}

	if dto.Email != nil {
		record.Email = *dto.Email
	}
	if dto.Name != nil {
		record.Name = *dto.Name
	}
	if dto.RoleID != nil {
		record.RoleID = *dto.RoleID
	}
	if dto.IsVerified != nil {
		record.IsVerified = *dto.IsVerified
	}
	if dto.Password != nil {
		salt, hash, err := s.passwords.Generate(*dto.Password)
		if err != nil {
			return nil, internal.NewInternalError("Error when hashing password.", err)
		}
		record.Salt = salt
		record.Hash = hash
	}

	if err := s.repo.Update(record); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, internal.NewConflictError("Error when updating user.", internal.ErrCodeDuplicateEntry).WithCause(err)
		}
		return nil, internal.NewUpstreamError("Error when updating user.", err)
	}
	user := s.assemble(record)
	return &user, nil
}

func (s *Service) Delete(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return internal.NewNotFoundError("No such user.", internal.ErrCodeUserNotFound)
		}
		return internal.NewUpstreamError("Error when getting user.", err)
	}
	if err := s.repo.Delete(id); err != nil {
		return internal.NewUpstreamError("Error when deleting user.", err)
	}
	return nil
}

// assemble fetches the role in a second explicit step. A dangling role id
// just leaves the role field empty.
func (s *Service) assemble(record *userDatamodel.User) User {
	user := User{
		ID:         record.ID,
		Email:      record.Email,
		Name:       record.Name,
		RoleID:     record.RoleID,
		IsVerified: record.IsVerified,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}
	if role, err := s.roles.GetByID(record.RoleID); err == nil {
		user.Role = &RoleView{ID: role.ID, Name: role.Name, IsAuthenticated: role.IsAuthenticated}
	}
	return user
}
