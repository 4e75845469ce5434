// Package storage defines the blob store abstraction for uploaded files.
package storage

// Provider is the interface over the physical attachment store.
type Provider interface {
	// Write stores content under name (relative to the uploads root).
	Write(name string, content []byte) error
	// Read returns the raw bytes stored under name.
	Read(name string) ([]byte, error)
	// Exists reports whether an object is stored under name.
	Exists(name string) bool
	// Delete removes the object stored under name.
	Delete(name string) error
}
