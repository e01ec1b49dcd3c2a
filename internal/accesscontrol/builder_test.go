package accesscontrol_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/publica-project/publica/internal/accesscontrol"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAccessControl(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "AccessControl Suite")
}

// MockRuleStore implements accesscontrol.RuleStore for testing
type MockRuleStore struct {
	rules      []accesscontrol.ResourceRule
	shouldFail bool
	failError  error
	calls      int
}

func (m *MockRuleStore) ListResourceRules(ctx context.Context) ([]accesscontrol.ResourceRule, error) {
	m.calls++
	if m.shouldFail {
		return nil, m.failError
	}
	return m.rules, nil
}

var testRoutes = []accesscontrol.RouteDescriptor{
	{Resource: "books", Action: accesscontrol.ActionList, Method: "GET", Path: "/books"},
	{Resource: "books", Action: accesscontrol.ActionShow, Method: "GET", Path: "/books/{id}"},
	{Resource: "books", Action: accesscontrol.ActionCreate, Method: "POST", Path: "/books"},
	{Resource: "users", Action: accesscontrol.ActionList, Method: "GET", Path: "/users"},
}

var _ = Describe("Rebuilder", func() {
	var (
		store     *MockRuleStore
		rebuilder *accesscontrol.Rebuilder
		logger    *slog.Logger
	)

	adminRole := accesscontrol.RoleRef{ID: 1, IsAuthenticated: true}
	publicRole := accesscontrol.RoleRef{ID: 2, IsAuthenticated: false}

	BeforeEach(func() {
		store = &MockRuleStore{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		rebuilder = accesscontrol.NewRebuilder(store, testRoutes, logger)
	})

	Describe("Rebuild", func() {
		Context("when no rule covers a routed pair", func() {
			BeforeEach(func() {
				store.rules = []accesscontrol.ResourceRule{
					{
						ResourceName: "books",
						Methods: []accesscontrol.MethodRule{
							{Name: "list", Roles: []accesscontrol.RoleRef{adminRole}},
						},
					},
				}
			})

			It("should deny every role on the uncovered pair", func() {
				Expect(rebuilder.Rebuild(context.Background())).To(Succeed())

				table := rebuilder.Current()
				Expect(table).NotTo(BeNil())
				Expect(table.Allowed("books", accesscontrol.ActionList, adminRole.ID)).To(BeTrue())
				Expect(table.Allowed("books", accesscontrol.ActionCreate, adminRole.ID)).To(BeFalse())
				Expect(table.Allowed("users", accesscontrol.ActionList, adminRole.ID)).To(BeFalse())
				Expect(table.Covered("users", accesscontrol.ActionList)).To(BeFalse())
			})

			It("should deny roles absent from the permitted set", func() {
				Expect(rebuilder.Rebuild(context.Background())).To(Succeed())

				table := rebuilder.Current()
				Expect(table.Allowed("books", accesscontrol.ActionList, publicRole.ID)).To(BeFalse())
				Expect(table.Allowed("books", accesscontrol.ActionList, 999)).To(BeFalse())
			})
		})

		Context("when a permitted role does not require authentication", func() {
			BeforeEach(func() {
				store.rules = []accesscontrol.ResourceRule{
					{
						ResourceName: "books",
						Methods: []accesscontrol.MethodRule{
							{Name: "list", Roles: []accesscontrol.RoleRef{publicRole, adminRole}},
							{Name: "create", Roles: []accesscontrol.RoleRef{adminRole}},
						},
					},
				}
			})

			It("should mark the pair as anonymous-accessible", func() {
				Expect(rebuilder.Rebuild(context.Background())).To(Succeed())

				table := rebuilder.Current()
				Expect(table.AllowsAnonymous("books", accesscontrol.ActionList)).To(BeTrue())
				Expect(table.AllowsAnonymous("books", accesscontrol.ActionCreate)).To(BeFalse())
			})
		})

		Context("when a method name appears twice for one resource", func() {
			BeforeEach(func() {
				store.rules = []accesscontrol.ResourceRule{
					{
						ResourceName: "books",
						Methods: []accesscontrol.MethodRule{
							{Name: "list", Roles: []accesscontrol.RoleRef{publicRole}},
							{Name: "list", Roles: []accesscontrol.RoleRef{adminRole}},
						},
					},
				}
			})

			It("should let the later entry win", func() {
				Expect(rebuilder.Rebuild(context.Background())).To(Succeed())

				table := rebuilder.Current()
				Expect(table.Allowed("books", accesscontrol.ActionList, adminRole.ID)).To(BeTrue())
				Expect(table.Allowed("books", accesscontrol.ActionList, publicRole.ID)).To(BeFalse())
				Expect(table.AllowsAnonymous("books", accesscontrol.ActionList)).To(BeFalse())
			})
		})

		Context("when a stored method name is not in the enumerated set", func() {
			BeforeEach(func() {
				store.rules = []accesscontrol.ResourceRule{
					{
						ResourceName: "books",
						Methods: []accesscontrol.MethodRule{
							{Name: "lsit", Roles: []accesscontrol.RoleRef{adminRole}},
						},
					},
				}
			})

			It("should skip the entry and keep the pair denied", func() {
				Expect(rebuilder.Rebuild(context.Background())).To(Succeed())
				Expect(rebuilder.Current().Covered("books", accesscontrol.ActionList)).To(BeFalse())
			})
		})

		Context("when the store is unreachable", func() {
			It("should fail the first rebuild and leave no table", func() {
				store.shouldFail = true
				store.failError = errors.New("connection refused")

				Expect(rebuilder.Rebuild(context.Background())).NotTo(Succeed())
				Expect(rebuilder.Current()).To(BeNil())
			})

			It("should keep the previous snapshot on a later failure", func() {
				store.rules = []accesscontrol.ResourceRule{
					{
						ResourceName: "books",
						Methods: []accesscontrol.MethodRule{
							{Name: "list", Roles: []accesscontrol.RoleRef{adminRole}},
						},
					},
				}
				Expect(rebuilder.Rebuild(context.Background())).To(Succeed())
				previous := rebuilder.Current()

				store.shouldFail = true
				store.failError = errors.New("connection refused")
				Expect(rebuilder.Rebuild(context.Background())).NotTo(Succeed())
				Expect(rebuilder.Current()).To(BeIdenticalTo(previous))
			})
		})

		Context("when rules change between rebuilds", func() {
			It("should swap in a complete replacement", func() {
				store.rules = []accesscontrol.ResourceRule{
					{
						ResourceName: "books",
						Methods: []accesscontrol.MethodRule{
							{Name: "list", Roles: []accesscontrol.RoleRef{adminRole}},
						},
					},
				}
				Expect(rebuilder.Rebuild(context.Background())).To(Succeed())
				first := rebuilder.Current()
				Expect(first.Allowed("books", accesscontrol.ActionList, adminRole.ID)).To(BeTrue())

				store.rules = []accesscontrol.ResourceRule{
					{
						ResourceName: "users",
						Methods: []accesscontrol.MethodRule{
							{Name: "list", Roles: []accesscontrol.RoleRef{adminRole}},
						},
					},
				}
				Expect(rebuilder.Rebuild(context.Background())).To(Succeed())

				table := rebuilder.Current()
				Expect(table).NotTo(BeIdenticalTo(first))
				Expect(table.Allowed("books", accesscontrol.ActionList, adminRole.ID)).To(BeFalse())
				Expect(table.Allowed("users", accesscontrol.ActionList, adminRole.ID)).To(BeTrue())
			})
		})
	})

	Describe("ParseAction", func() {
		It("should accept the five known actions", func() {
			for _, name := range []string{"list", "show", "create", "update", "delete"} {
				action, err := accesscontrol.ParseAction(name)
				Expect(err).NotTo(HaveOccurred())
				Expect(string(action)).To(Equal(name))
			}
		})

		It("should reject anything else", func() {
			_, err := accesscontrol.ParseAction("patch")
			Expect(err).To(HaveOccurred())
		})
	})
})
