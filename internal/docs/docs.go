package docs

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/getkin/kin-openapi/openapi3"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Validate parses the OpenAPI document and checks its structural validity.
// The server refuses to start with a broken contract on disk.
func Validate(ctx context.Context, specPath string) error {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true

	doc, err := loader.LoadFromFile(specPath)
	if err != nil {
		return fmt.Errorf("load openapi document %s: %w", specPath, err)
	}
	if err := doc.Validate(ctx); err != nil {
		return fmt.Errorf("validate openapi document %s: %w", specPath, err)
	}
	return nil
}

// Handler serves the raw OpenAPI document plus a swagger UI reading it. It is
// meant to be mounted under /docs, with the mount prefix already stripped.
func Handler(specPath string) http.Handler {
	mux := http.NewServeMux()
	specFile := "/" + filepath.Base(specPath)

	mux.HandleFunc(specFile, func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, specPath)
	})
	mux.Handle("/", httpSwagger.Handler(
		httpSwagger.URL("/docs"+specFile),
	))
	return mux
}
