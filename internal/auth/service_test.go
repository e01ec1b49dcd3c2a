package auth_test

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/publica-project/publica/internal"
	"github.com/publica-project/publica/internal/auth"
	roleDatamodel "github.com/publica-project/publica/internal/core/datamodel/role"
	userDatamodel "github.com/publica-project/publica/internal/core/datamodel/user"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// MockUserRepository implements auth.UserRepository for testing
type MockUserRepository struct {
	users      map[int64]*userDatamodel.User
	nextID     int64
	shouldFail bool
	failError  error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[int64]*userDatamodel.User), nextID: 1}
}

func (m *MockUserRepository) GetByEmail(email string) (*userDatamodel.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (m *MockUserRepository) GetByID(id int64) (*userDatamodel.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	u, ok := m.users[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	return u, nil
}

func (m *MockUserRepository) Create(u *userDatamodel.User) error {
	if m.shouldFail {
		return m.failError
	}
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return auth.ErrDuplicate
		}
	}
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	return nil
}

func (m *MockUserRepository) Update(u *userDatamodel.User) error {
	if m.shouldFail {
		return m.failError
	}
	m.users[u.ID] = u
	return nil
}

func (m *MockUserRepository) Delete(id int64) error {
	if m.shouldFail {
		return m.failError
	}
	delete(m.users, id)
	return nil
}

// MockRoleRepository implements auth.RoleRepository for testing
type MockRoleRepository struct {
	roles  map[int64]*roleDatamodel.Role
	nextID int64
}

func NewMockRoleRepository() *MockRoleRepository {
	return &MockRoleRepository{roles: make(map[int64]*roleDatamodel.Role), nextID: 1}
}

func (m *MockRoleRepository) GetByID(id int64) (*roleDatamodel.Role, error) {
	r, ok := m.roles[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	return r, nil
}

func (m *MockRoleRepository) GetByName(name string) (*roleDatamodel.Role, error) {
	for _, r := range m.roles {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (m *MockRoleRepository) GetPublicRole() (*roleDatamodel.Role, error) {
	for _, r := range m.roles {
		if !r.IsAuthenticated {
			return r, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (m *MockRoleRepository) Create(r *roleDatamodel.Role) error {
	r.ID = m.nextID
	m.nextID++
	m.roles[r.ID] = r
	return nil
}

var _ = Describe("Auth Service", func() {
	var (
		userRepo *MockUserRepository
		roleRepo *MockRoleRepository
		service  *auth.Service
	)

	bootstrap := internal.BootstrapConfig{
		AdminEmail:    "admin@example.com",
		AdminName:     "Admin",
		AdminPassword: "s3cr3t",
	}

	BeforeEach(func() {
		userRepo = NewMockUserRepository()
		roleRepo = NewMockRoleRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = auth.NewService(
			userRepo,
			roleRepo,
			auth.NewTokenIssuer("test-secret", 7),
			auth.NewPasswordHasher(1000),
			bootstrap,
			logger,
		)
	})

	Describe("Bootstrap", func() {
		It("should create the seed roles and the admin user once", func() {
			resp, err := service.Bootstrap()
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Roles).To(HaveLen(2))
			Expect(resp.Admin.Email).To(Equal(bootstrap.AdminEmail))
			Expect(resp.Admin.IsVerified).To(BeTrue())
			Expect(resp.Token).NotTo(BeEmpty())

			public, err := roleRepo.GetByName("Public")
			Expect(err).NotTo(HaveOccurred())
			Expect(public.IsAuthenticated).To(BeFalse())
		})

		It("should fail with 500 when called twice", func() {
			_, err := service.Bootstrap()
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Bootstrap()
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusInternalServerError))
			Expect(appErr.Message).To(Equal("Admin or Roles already exist"))
		})
	})

	Describe("Login", func() {
		BeforeEach(func() {
			_, err := service.Bootstrap()
			Expect(err).NotTo(HaveOccurred())
		})

		It("should issue a token with decoded claims for valid credentials", func() {
			resp, err := service.Login(auth.LoginDTO{Email: bootstrap.AdminEmail, Password: bootstrap.AdminPassword})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Token).NotTo(BeEmpty())
			Expect(resp.Decoded.Email).To(Equal(bootstrap.AdminEmail))
		})

		It("should reject a wrong password with 401", func() {
			_, err := service.Login(auth.LoginDTO{Email: bootstrap.AdminEmail, Password: "wrong"})
			Expect(err).To(MatchError(internal.ErrInvalidCredentials))
		})

		It("should reject an unknown email with 401", func() {
			_, err := service.Login(auth.LoginDTO{Email: "ghost@example.com", Password: "whatever"})
			Expect(err).To(MatchError(internal.ErrInvalidCredentials))
		})

		It("should reject missing fields with 401", func() {
			_, err := service.Login(auth.LoginDTO{Email: bootstrap.AdminEmail})
			Expect(err).To(MatchError(internal.ErrInvalidCredentials))
		})
	})

	Describe("Register", func() {
		BeforeEach(func() {
			_, err := service.Bootstrap()
			Expect(err).NotTo(HaveOccurred())
		})

		It("should create an unverified user with the public role", func() {
			user, err := service.Register(auth.RegisterDTO{
				Email:    "reader@example.com",
				Name:     "Reader",
				Password: "qwerty",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(user.IsVerified).To(BeFalse())

			public, err := roleRepo.GetPublicRole()
			Expect(err).NotTo(HaveOccurred())
			Expect(user.RoleID).To(Equal(public.ID))
		})

		It("should surface a duplicate email as 500", func() {
			_, err := service.Register(auth.RegisterDTO{Email: "reader@example.com", Name: "Reader", Password: "qwerty"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Register(auth.RegisterDTO{Email: "reader@example.com", Name: "Other", Password: "qwerty"})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("Profile", func() {
		var userID int64

		BeforeEach(func() {
			_, err := service.Bootstrap()
			Expect(err).NotTo(HaveOccurred())
			user, err := service.Register(auth.RegisterDTO{Email: "reader@example.com", Name: "Reader", Password: "qwerty"})
			Expect(err).NotTo(HaveOccurred())
			userID = user.ID
		})

		It("should assemble the user with its role", func() {
			profile, err := service.Profile(userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(profile.Email).To(Equal("reader@example.com"))
			Expect(profile.Role).NotTo(BeNil())
			Expect(profile.Role.Name).To(Equal("Public"))
		})

		It("should return 404 for a missing user", func() {
			_, err := service.Profile(9999)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusNotFound))
		})

		It("should rotate salt and hash on password change", func() {
			before, err := userRepo.GetByID(userID)
			Expect(err).NotTo(HaveOccurred())
			oldSalt, oldHash := before.Salt, before.Hash

			newPassword := "qwerty" // same plaintext still rotates
			_, err = service.UpdateProfile(userID, auth.UpdateProfileDTO{Password: &newPassword})
			Expect(err).NotTo(HaveOccurred())

			after, err := userRepo.GetByID(userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(after.Salt).NotTo(Equal(oldSalt))
			Expect(after.Hash).NotTo(Equal(oldHash))
		})

		It("should delete the account", func() {
			Expect(service.DeleteProfile(userID)).To(Succeed())
			_, err := service.Profile(userID)
			Expect(err).To(HaveOccurred())
		})
	})
})
