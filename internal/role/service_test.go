package role_test

import (
	"log/slog"
	"net/http"
	"os"
	"testing"

	"github.com/publica-project/publica/internal"
	roleDatamodel "github.com/publica-project/publica/internal/core/datamodel/role"
	"github.com/publica-project/publica/internal/role"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRole(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Role Suite")
}

// MockRepository implements role.Repository for testing
type MockRepository struct {
	roles  map[int64]*roleDatamodel.Role
	nextID int64
}

func NewMockRepository() *MockRepository {
	return &MockRepository{roles: make(map[int64]*roleDatamodel.Role), nextID: 1}
}

func (m *MockRepository) List() ([]roleDatamodel.Role, error) {
	out := make([]roleDatamodel.Role, 0, len(m.roles))
	for _, r := range m.roles {
		out = append(out, *r)
	}
	return out, nil
}

func (m *MockRepository) GetByID(id int64) (*roleDatamodel.Role, error) {
	r, ok := m.roles[id]
	if !ok {
		return nil, role.ErrNotFound
	}
	return r, nil
}

func (m *MockRepository) Create(r *roleDatamodel.Role) error {
	for _, existing := range m.roles {
		if existing.Name == r.Name {
			return role.ErrDuplicate
		}
	}
	r.ID = m.nextID
	m.nextID++
	m.roles[r.ID] = r
	return nil
}

func (m *MockRepository) Update(r *roleDatamodel.Role) error {
	m.roles[r.ID] = r
	return nil
}

func (m *MockRepository) Delete(id int64) error {
	delete(m.roles, id)
	return nil
}

var _ = Describe("Role Service", func() {
	var (
		repo    *MockRepository
		service *role.Service
	)

	BeforeEach(func() {
		repo = NewMockRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = role.NewService(repo, logger)
	})

	Describe("Create", func() {
		It("should default new roles to authenticated", func() {
			created, err := service.Create(role.CreateRoleDTO{Name: "Editor"})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.IsAuthenticated).To(BeTrue())
		})

		It("should honor an explicit unauthenticated flag", func() {
			anon := false
			created, err := service.Create(role.CreateRoleDTO{Name: "Visitor", IsAuthenticated: &anon})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.IsAuthenticated).To(BeFalse())
		})

		It("should reject a missing name with 422", func() {
			_, err := service.Create(role.CreateRoleDTO{Description: "nameless"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusUnprocessableEntity))
		})

		It("should surface a duplicate name as 500", func() {
			_, err := service.Create(role.CreateRoleDTO{Name: "Editor"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(role.CreateRoleDTO{Name: "Editor"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("Get and Update", func() {
		var id int64

		BeforeEach(func() {
			created, err := service.Create(role.CreateRoleDTO{Name: "Editor", Description: "Writes content"})
			Expect(err).NotTo(HaveOccurred())
			id = created.ID
		})

		It("should return the stored role", func() {
			found, err := service.Get(id)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Name).To(Equal("Editor"))
		})

		It("should return 404 for a missing role", func() {
			_, err := service.Get(9999)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusNotFound))
		})

		It("should update only the provided fields", func() {
			desc := "Reviews content"
			updated, err := service.Update(id, role.UpdateRoleDTO{Description: &desc})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("Editor"))
			Expect(updated.Description).To(Equal(desc))
		})
	})

	Describe("Delete", func() {
		It("should remove an existing role", func() {
			created, err := service.Create(role.CreateRoleDTO{Name: "Editor"})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(created.ID)).To(Succeed())
			_, err = service.Get(created.ID)
			Expect(err).To(HaveOccurred())
		})

		It("should return 404 for a missing role", func() {
			err := service.Delete(9999)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusNotFound))
		})
	})
})
