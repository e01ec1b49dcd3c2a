package accesscontrol_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/publica-project/publica/internal"
	"github.com/publica-project/publica/internal/accesscontrol"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Guard", func() {
	var (
		store     *MockRuleStore
		rebuilder *accesscontrol.Rebuilder
		guard     *accesscontrol.Guard
		next      http.Handler
		invoked   bool
	)

	adminRole := accesscontrol.RoleRef{ID: 1, IsAuthenticated: true}
	publicRole := accesscontrol.RoleRef{ID: 2, IsAuthenticated: false}

	request := func(identity *internal.Identity) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/books", nil)
		if identity != nil {
			req = req.WithContext(internal.ContextWithIdentity(context.Background(), identity))
		}
		w := httptest.NewRecorder()
		guard.Require("books", accesscontrol.ActionList)(next).ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		invoked = false
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			invoked = true
			w.WriteHeader(http.StatusOK)
		})

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		store = &MockRuleStore{
			rules: []accesscontrol.ResourceRule{
				{
					ResourceName: "books",
					Methods: []accesscontrol.MethodRule{
						{Name: "list", Roles: []accesscontrol.RoleRef{adminRole}},
					},
				},
			},
		}
		rebuilder = accesscontrol.NewRebuilder(store, testRoutes, logger)
		guard = accesscontrol.NewGuard(rebuilder, logger)
	})

	Context("before the first successful rebuild", func() {
		It("should deny every caller", func() {
			w := request(&internal.Identity{UserID: 10, RoleID: adminRole.ID})
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(invoked).To(BeFalse())
		})
	})

	Context("with a built table", func() {
		BeforeEach(func() {
			Expect(rebuilder.Rebuild(context.Background())).To(Succeed())
		})

		It("should pass a caller whose role is permitted", func() {
			w := request(&internal.Identity{UserID: 10, RoleID: adminRole.ID})
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(invoked).To(BeTrue())
		})

		It("should answer 401 Unauthorized for a permitted-set miss", func() {
			w := request(&internal.Identity{UserID: 11, RoleID: publicRole.ID})
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(w.Body.String()).To(MatchJSON(`{"message":"Unauthorized."}`))
			Expect(invoked).To(BeFalse())
		})

		It("should answer 403 for an anonymous caller on an authenticated route", func() {
			w := request(nil)
			Expect(w.Code).To(Equal(http.StatusForbidden))
			Expect(w.Body.String()).To(MatchJSON(`{"message":"Failed to authenticate token."}`))
			Expect(invoked).To(BeFalse())
		})

		It("should deny a role deleted after token issuance", func() {
			// the role id in the token no longer appears in any table entry
			w := request(&internal.Identity{UserID: 12, RoleID: 404})
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(invoked).To(BeFalse())
		})
	})

	Context("when a permitted role does not require authentication", func() {
		BeforeEach(func() {
			store.rules = []accesscontrol.ResourceRule{
				{
					ResourceName: "books",
					Methods: []accesscontrol.MethodRule{
						{Name: "list", Roles: []accesscontrol.RoleRef{publicRole}},
					},
				},
			}
			Expect(rebuilder.Rebuild(context.Background())).To(Succeed())
		})

		It("should let anonymous callers through", func() {
			w := request(nil)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(invoked).To(BeTrue())
		})
	})
})
