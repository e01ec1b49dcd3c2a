package rest_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/publica-project/publica/internal/accesscontrol"
	"github.com/publica-project/publica/internal/auth"
	"github.com/publica-project/publica/internal/docs"
	"github.com/publica-project/publica/internal/transport/rest"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRouter(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Router Suite")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// stubAuthService satisfies auth.ServiceAPI; none of its methods are hit by
// the mounting tests below.
type stubAuthService struct{}

func (stubAuthService) Login(auth.LoginDTO) (*auth.LoginResponse, error)       { return nil, nil }
func (stubAuthService) Register(auth.RegisterDTO) (*auth.User, error)          { return nil, nil }
func (stubAuthService) Profile(int64) (*auth.ProfileResponse, error)           { return nil, nil }
func (stubAuthService) DeleteProfile(int64) error                              { return nil }
func (stubAuthService) Bootstrap() (*auth.BootstrapResponse, error)            { return nil, nil }
func (stubAuthService) VerifyToken(string) (*auth.Claims, error)               { return nil, nil }
func (stubAuthService) UpdateProfile(int64, auth.UpdateProfileDTO) (*auth.ProfileResponse, error) {
	return nil, nil
}

// emptyTables simulates a process before its first successful rebuild.
type emptyTables struct{}

func (emptyTables) Current() *accesscontrol.Table { return nil }

var _ = Describe("RegisterAllRoutes", func() {
	var router *chi.Mux

	newRouter := func(opts rest.Options) *chi.Mux {
		r := chi.NewRouter()
		rest.RegisterAllRoutes(r, rest.Handlers{Auth: auth.NewHandler(stubAuthService{})}, opts)
		return r
	}

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	It("should answer the welcome message at the root", func() {
		router = newRouter(rest.Options{Guard: accesscontrol.NewGuard(emptyTables{}, testLogger())})

		w := get("/")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("Welcome to api"))
	})

	It("should serve the openapi document under the docs mount", func() {
		dir := GinkgoT().TempDir()
		specPath := filepath.Join(dir, "openapi.yml")
		Expect(os.WriteFile(specPath, []byte("openapi: 3.0.3\n"), 0o644)).To(Succeed())

		router = newRouter(rest.Options{
			Guard: accesscontrol.NewGuard(emptyTables{}, testLogger()),
			Docs:  docs.Handler(specPath),
		})

		w := get("/docs/openapi.yml")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("openapi: 3.0.3"))
	})

	It("should serve stored files from the uploads mount", func() {
		dir := GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(dir, "photo.png"), []byte("png-bytes"), 0o644)).To(Succeed())

		router = newRouter(rest.Options{
			Guard:      accesscontrol.NewGuard(emptyTables{}, testLogger()),
			UploadsDir: dir,
		})

		w := get(rest.UploadsMount + "/photo.png")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(Equal("png-bytes"))
	})
})

var _ = Describe("Routes", func() {
	var routes []accesscontrol.RouteDescriptor

	BeforeEach(func() {
		routes = rest.Routes()
	})

	It("should describe five actions for each guarded resource", func() {
		Expect(routes).To(HaveLen(30))

		perResource := map[string]int{}
		for _, r := range routes {
			perResource[r.Resource]++
		}
		for _, resource := range []string{"users", "roles", "resourcepermissions", "mediaobjects", "books", "articles"} {
			Expect(perResource[resource]).To(Equal(5), "resource %s", resource)
		}
	})

	It("should not repeat a resource action pair", func() {
		type pair struct {
			resource string
			action   accesscontrol.Action
		}
		seen := map[pair]struct{}{}
		for _, r := range routes {
			p := pair{resource: r.Resource, action: r.Action}
			Expect(seen).NotTo(HaveKey(p))
			seen[p] = struct{}{}
		}
	})

	It("should map collection actions to the collection path", func() {
		for _, r := range routes {
			switch r.Action {
			case accesscontrol.ActionList:
				Expect(r.Method).To(Equal(http.MethodGet))
				Expect(r.Path).To(Equal("/" + r.Resource))
			case accesscontrol.ActionCreate:
				Expect(r.Method).To(Equal(http.MethodPost))
				Expect(r.Path).To(Equal("/" + r.Resource))
			case accesscontrol.ActionShow:
				Expect(r.Method).To(Equal(http.MethodGet))
				Expect(r.Path).To(Equal("/" + r.Resource + "/{id}"))
			case accesscontrol.ActionUpdate:
				Expect(r.Method).To(Equal(http.MethodPut))
			case accesscontrol.ActionDelete:
				Expect(r.Method).To(Equal(http.MethodDelete))
			}
		}
	})
})
