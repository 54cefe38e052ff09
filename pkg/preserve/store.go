package preserve

import "context"

// Store persists opaque save blobs. Implementations return *Error values only.
type Store interface {
	// Exists reports whether a save is present at loc
	Exists(ctx context.Context, loc Location) (bool, error)
	// Create writes the first snapshot and fails with AlreadyExists when loc is taken
	Create(ctx context.Context, loc Location, data []byte) error
	// Write replaces the snapshot at loc, creating it if needed
	Write(ctx context.Context, loc Location, data []byte) error
	// Read returns the snapshot at loc or NotFound
	Read(ctx context.Context, loc Location) ([]byte, error)
	// Delete removes the save at loc or returns NotFound
	Delete(ctx context.Context, loc Location) error
}
