package storage

import "context"

// Provider persists uploaded file content. Implementations return the public
// URL of the stored object; the shape of that URL is provider specific.
type Provider interface {
	// Name identifies the provider in stored media records.
	Name() string
	// Store writes content under the given object name and returns its URL.
	Store(ctx context.Context, name string, contentType string, content []byte) (string, error)
	// Remove deletes a stored object. Missing objects are not an error.
	Remove(ctx context.Context, name string) error
}
