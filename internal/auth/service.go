package auth

import (
	"errors"
	"log/slog"

	"github.com/publica-project/publica/internal"
	roleDatamodel "github.com/publica-project/publica/internal/core/datamodel/role"
	userDatamodel "github.com/publica-project/publica/internal/core/datamodel/user"
)

var (
	// ErrNotFound is returned by repositories when no row matches.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned by repositories on unique constraint hits.
	ErrDuplicate = errors.New("duplicate entry")
)

type UserRepository interface {
	GetByEmail(email string) (*userDatamodel.User, error)
	GetByID(id int64) (*userDatamodel.User, error)
	Create(u *userDatamodel.User) error
	Update(u *userDatamodel.User) error
	Delete(id int64) error
}

type RoleRepository interface {
	GetByID(id int64) (*roleDatamodel.Role, error)
	GetByName(name string) (*roleDatamodel.Role, error)
	GetPublicRole() (*roleDatamodel.Role, error)
	Create(r *roleDatamodel.Role) error
}

// RoleView is the assembled role shape embedded in profile responses.
type RoleView struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	IsAuthenticated bool   `json:"is_authenticated"`
}

// ProfileResponse is a user with its role fetched and assembled explicitly.
type ProfileResponse struct {
	User
	Role *RoleView `json:"role,omitempty"`
}

type LoginResponse struct {
	Token   string  `json:"token"`
	Decoded *Claims `json:"decoded"`
}

type BootstrapResponse struct {
	Roles []RoleView `json:"roles"`
	Admin User       `json:"admin"`
	Token string     `json:"token"`
}

type Service struct {
	users     UserRepository
	roles     RoleRepository
	tokens    *TokenIssuer
	passwords *PasswordHasher
	bootstrap internal.BootstrapConfig
	logger    *slog.Logger
}

func NewService(users UserRepository, roles RoleRepository, tokens *TokenIssuer, passwords *PasswordHasher, bootstrap internal.BootstrapConfig, logger *slog.Logger) *Service {
	return &Service{
		users:     users,
		roles:     roles,
		tokens:    tokens,
		passwords: passwords,
		bootstrap: bootstrap,
		logger:    logger,
	}
}

// Login verifies credentials and issues a token. Every failure mode maps to
// invalid-credentials so the response does not leak which part was wrong.
func (s *Service) Login(dto LoginDTO) (*LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	record, err := s.users.GetByEmail(dto.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrInvalidCredentials
		}
		return nil, internal.NewUpstreamError("Error when getting user.", err)
	}

	if !s.passwords.Verify(dto.Password, record.Salt, record.Hash) {
		return nil, internal.ErrInvalidCredentials
	}

	user := fromDataModel(record)
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, internal.NewInternalError("Error when signing token.", err)
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, internal.NewInternalError("Error when verifying issued token.", err)
	}

	return &LoginResponse{Token: token, Decoded: claims}, nil
}

// Register creates a user carrying the public role and an unverified flag.
func (s *Service) Register(dto RegisterDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	publicRole, err := s.roles.GetPublicRole()
	if err != nil {
		return nil, internal.NewUpstreamError("Error when getting public role.", err)
	}

	salt, hash, err := s.passwords.Generate(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("Error when hashing password.", err)
	}

	record := &userDatamodel.User{
		Email:      dto.Email,
		Name:       dto.Name,
		RoleID:     publicRole.ID,
		IsVerified: false,
		Salt:       salt,
		Hash:       hash,
	}
	if err := s.users.Create(record); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, internal.NewConflictError("Error when creating user.", internal.ErrCodeDuplicateEntry).WithCause(err)
		}
		return nil, internal.NewUpstreamError("Error when creating user.", err)
	}

	return fromDataModel(record), nil
}

// Profile fetches the user and its role in two explicit steps and assembles
// the response.
func (s *Service) Profile(userID int64) (*ProfileResponse, error) {
	record, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.NewNotFoundError("No such user.", internal.ErrCodeUserNotFound)
		}
		return nil, internal.NewUpstreamError("Error when getting user.", err)
	}

	resp := &ProfileResponse{User: *fromDataModel(record)}
	role, err := s.roles.GetByID(record.RoleID)
	if err == nil {
		resp.Role = &RoleView{
			ID:              role.ID,
			Name:            role.Name,
			Description:     role.Description,
			IsAuthenticated: role.IsAuthenticated,
		}
	} else if !errors.Is(err, ErrNotFound) {
		return nil, internal.NewUpstreamError("Error when getting role.", err)
	}
	return resp, nil
}

// UpdateProfile applies the provided fields. A password change rotates the
// salt as a side effect of rehashing.
func (s *Service) UpdateProfile(userID int64, dto UpdateProfileDTO) (*ProfileResponse, error) {
	record, err := s.users.GetByID(userID)
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
	if dto.Password != nil {
		salt, hash, err := s.passwords.Generate(*dto.Password)
		if err != nil {
			return nil, internal.NewInternalError("Error when hashing password.", err)
		}
		record.Salt = salt
		record.Hash = hash
	}

	if err := s.users.Update(record); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, internal.NewConflictError("Error when updating user.", internal.ErrCodeDuplicateEntry).WithCause(err)
		}
		return nil, internal.NewUpstreamError("Error when updating user.", err)
	}
	return s.Profile(userID)
}

func (s *Service) DeleteProfile(userID int64) error {
	if err := s.users.Delete(userID); err != nil {
		return internal.NewUpstreamError("Error when deleting user.", err)
	}
	return nil
}

// Bootstrap creates the two seed roles and the configured admin user. It
// refuses to run twice. The three writes are not transactional; a failure
// midway leaves partial state behind (documented gap).
func (s *Service) Bootstrap() (*BootstrapResponse, error) {
	if _, err := s.users.GetByEmail(s.bootstrap.AdminEmail); err == nil {
		return nil, internal.NewConflictError("Admin or Roles already exist", internal.ErrCodeAlreadyInitialized)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, internal.NewUpstreamError("Error when getting user.", err)
	}
	for _, name := range []string{"Public", "Admin"} {
		if _, err := s.roles.GetByName(name); err == nil {
			return nil, internal.NewConflictError("Admin or Roles already exist", internal.ErrCodeAlreadyInitialized)
		} else if !errors.Is(err, ErrNotFound) {
			return nil, internal.NewUpstreamError("Error when getting role.", err)
		}
	}

	publicRole := &roleDatamodel.Role{
		Name:            "Public",
		Description:     "Unauthenticated user",
		IsAuthenticated: false,
	}
	adminRole := &roleDatamodel.Role{
		Name:            "Admin",
		Description:     "Top level authenticated user",
		IsAuthenticated: true,
	}
	if err := s.roles.Create(publicRole); err != nil {
		return nil, internal.NewUpstreamError("Error when creating role.", err)
	}
	if err := s.roles.Create(adminRole); err != nil {
		return nil, internal.NewUpstreamError("Error when creating role.", err)
	}

	salt, hash, err := s.passwords.Generate(s.bootstrap.AdminPassword)
	if err != nil {
		return nil, internal.NewInternalError("Error when hashing password.", err)
	}
	admin := &userDatamodel.User{
		Email:      s.bootstrap.AdminEmail,
		Name:       s.bootstrap.AdminName,
		RoleID:     adminRole.ID,
		IsVerified: true,
		Salt:       salt,
		Hash:       hash,
	}
	if err := s.users.Create(admin); err != nil {
		return nil, internal.NewUpstreamError("Error when creating user.", err)
	}

	adminUser := fromDataModel(admin)
	token, err := s.tokens.Issue(adminUser)
	if err != nil {
		return nil, internal.NewInternalError("Error when signing token.", err)
	}

	s.logger.Info("application bootstrapped", "admin_email", admin.Email)

	return &BootstrapResponse{
		Roles: []RoleView{
			{ID: publicRole.ID, Name: publicRole.Name, Description: publicRole.Description, IsAuthenticated: publicRole.IsAuthenticated},
			{ID: adminRole.ID, Name: adminRole.Name, Description: adminRole.Description, IsAuthenticated: adminRole.IsAuthenticated},
		},
		Admin: *adminUser,
		Token: token,
	}, nil
}

// VerifyToken exposes token verification to the identity middleware.
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	return s.tokens.Verify(tokenString)
}

func fromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		RoleID:     u.RoleID,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
