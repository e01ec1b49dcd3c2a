package user_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/go-chi/chi"
	"github.com/publica-project/publica/internal/auth"
	roleDatamodel "github.com/publica-project/publica/internal/core/datamodel/role"
	"github.com/publica-project/publica/internal/user"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("User Handler", func() {
	var router *chi.Mux

	BeforeEach(func() {
		repo := NewMockRepository()
		roles := &MockRoleGetter{roles: map[int64]*roleDatamodel.Role{
			2: {ID: 2, Name: "Admin", IsAuthenticated: true},
		}}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := user.NewService(repo, roles, auth.NewPasswordHasher(1000), logger)
		handler := user.NewHandler(service)

		router = chi.NewRouter()
		router.Route("/users", func(r chi.Router) {
			r.Get("/", handler.List)
			r.Post("/", handler.Create)
			r.Get("/{id}", handler.Show)
			r.Put("/{id}", handler.Update)
			r.Delete("/{id}", handler.Delete)
		})

		body := `{"email":"writer@example.com","name":"Writer","password":"qwerty","role_id":2}`
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusCreated))
	})

	It("should answer 500 with the legacy message for a malformed id", func() {
		req := httptest.NewRequest(http.MethodPut, "/users/not-a-number", strings.NewReader(`{"name":"X"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))

		var body map[string]string
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body["message"]).To(Equal("Error when getting user."))
	})

	It("should answer 404 for a well-formed id with no user behind it", func() {
		req := httptest.NewRequest(http.MethodPut, "/users/9999", strings.NewReader(`{"name":"X"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("should list users without exposing salt or hash", func() {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).NotTo(ContainSubstring("salt"))
		Expect(rec.Body.String()).NotTo(ContainSubstring("hash"))
	})

	It("should delete and answer 204", func() {
		req := httptest.NewRequest(http.MethodDelete, "/users/1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusNoContent))
	})
})
