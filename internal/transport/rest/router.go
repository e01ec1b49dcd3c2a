package rest

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/publica-project/publica/internal/accesscontrol"
	"github.com/publica-project/publica/internal/article"
	"github.com/publica-project/publica/internal/auth"
	"github.com/publica-project/publica/internal/book"
	"github.com/publica-project/publica/internal/media"
	"github.com/publica-project/publica/internal/resourcepermission"
	"github.com/publica-project/publica/internal/role"
	"github.com/publica-project/publica/internal/user"
)

// UploadsMount is where the static file server for local storage lives. The
// local provider builds its public URLs from the same prefix.
const UploadsMount = "/uploads"

// guardedResources are the resource names wired through the permission table,
// in mount order. Auth routes, health, metrics and docs stay outside it.
var guardedResources = []string{
	"users",
	"roles",
	"resourcepermissions",
	"mediaobjects",
	"books",
	"articles",
}

// Handlers bundles every feature handler the router mounts.
type Handlers struct {
	Auth        *auth.Handler
	Users       *user.Handler
	Roles       *role.Handler
	Permissions *resourcepermission.Handler
	Media       *media.Handler
	Books       *book.Handler
	Articles    *article.Handler
}

// Options carries the cross-cutting pieces of the HTTP surface.
type Options struct {
	Guard   *accesscontrol.Guard
	Health  *HealthHandler
	Metrics http.Handler
	Docs    http.Handler
	// UploadsDir mounts a static file server when the local storage
	// provider is active. Empty means no static mount.
	UploadsDir string
}

// crud is the handler shape every guarded resource exposes.
type crud interface {
	List(w http.ResponseWriter, r *http.Request)
	Show(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

// mediaCRUD adapts the media handler: create is a multipart upload.
type mediaCRUD struct{ *media.Handler }

func (m mediaCRUD) Create(w http.ResponseWriter, r *http.Request) { m.Upload(w, r) }

// Routes returns the full descriptor set of guarded routes. The rebuilder
// matches stored rules against exactly this list, so adding a resource here
// is what makes it governable.
func Routes() []accesscontrol.RouteDescriptor {
	var routes []accesscontrol.RouteDescriptor
	for _, resource := range guardedResources {
		base := "/" + resource
		routes = append(routes,
			accesscontrol.RouteDescriptor{Resource: resource, Action: accesscontrol.ActionList, Method: http.MethodGet, Path: base},
			accesscontrol.RouteDescriptor{Resource: resource, Action: accesscontrol.ActionShow, Method: http.MethodGet, Path: base + "/{id}"},
			accesscontrol.RouteDescriptor{Resource: resource, Action: accesscontrol.ActionCreate, Method: http.MethodPost, Path: base},
			accesscontrol.RouteDescriptor{Resource: resource, Action: accesscontrol.ActionUpdate, Method: http.MethodPut, Path: base + "/{id}"},
			accesscontrol.RouteDescriptor{Resource: resource, Action: accesscontrol.ActionDelete, Method: http.MethodDelete, Path: base + "/{id}"},
		)
	}
	return routes
}

// RegisterAllRoutes mounts the whole API. Every request passes the identity
// middleware; guarded resources additionally pass the permission table guard.
func RegisterAllRoutes(r chi.Router, h Handlers, opts Options) {
	r.Use(h.Auth.IdentityMiddleware)

	r.Get("/", welcome)
	if opts.Health != nil {
		r.Get("/health", opts.Health.Check)
	}
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics)
	}
	if opts.Docs != nil {
		// the docs handler registers prefix-stripped patterns
		r.Mount("/docs", http.StripPrefix("/docs", opts.Docs))
	}
	if opts.UploadsDir != "" {
		fs := http.StripPrefix(UploadsMount+"/", http.FileServer(http.Dir(opts.UploadsDir)))
		r.Get(UploadsMount+"/*", fs.ServeHTTP)
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Auth.Login)
		r.Post("/register", h.Auth.Register)
		r.Post("/createadmin", h.Auth.CreateAdmin)
		r.Get("/profile", h.Auth.GetProfile)
		r.Put("/profile", h.Auth.UpdateProfile)
		r.Delete("/profile", h.Auth.DeleteProfile)
	})

	byResource := map[string]crud{
		"users":               h.Users,
		"roles":               h.Roles,
		"resourcepermissions": h.Permissions,
		"mediaobjects":        mediaCRUD{h.Media},
		"books":               h.Books,
		"articles":            h.Articles,
	}

	for _, resource := range guardedResources {
		registerResource(r, opts.Guard, resource, byResource[resource])
	}

	// operator escape hatch, same guard entry as a permission update
	r.With(opts.Guard.Require("resourcepermissions", accesscontrol.ActionUpdate)).
		Post("/resourcepermissions/rebuild", h.Permissions.Rebuild)
}

func registerResource(r chi.Router, guard *accesscontrol.Guard, resource string, h crud) {
	r.Route("/"+resource, func(r chi.Router) {
		r.With(guard.Require(resource, accesscontrol.ActionList)).Get("/", h.List)
		r.With(guard.Require(resource, accesscontrol.ActionCreate)).Post("/", h.Create)
		r.With(guard.Require(resource, accesscontrol.ActionShow)).Get("/{id}", h.Show)
		r.With(guard.Require(resource, accesscontrol.ActionUpdate)).Put("/{id}", h.Update)
		r.With(guard.Require(resource, accesscontrol.ActionDelete)).Delete("/{id}", h.Delete)
	})
}

func welcome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message":"Welcome to api"}` + "\n"))
}
