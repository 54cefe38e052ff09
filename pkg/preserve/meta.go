package preserve

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"time"
)

// Meta is the persistence bookkeeping embedded in every save-backed entity:
//
//	type Game struct {
//		preserve.Meta `json:"save"`
//		...
//	}
type Meta struct {
	Name string `json:"name"`
	Path string `json:"path"`
	// Digest is nil when the save has no password
	Digest        []byte    `json:"digest,omitempty"`
	AutoSave      bool      `json:"auto_save"`
	InstanceID    string    `json:"instance_id"`
	Version       int       `json:"version"`
	TrackedFields []string  `json:"tracked_fields,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Entity is anything that embeds Meta
type Entity interface {
	SaveMeta() *Meta
}

// SaveMeta gives the Manager access to the embedded bookkeeping
func (m *Meta) SaveMeta() *Meta { return m }

// Location returns where the entity is saved
func (m *Meta) Location() Location {
	return Location{Path: m.Path, Name: m.Name}
}

// Protected reports whether a password is set
func (m *Meta) Protected() bool { return m.Digest != nil }

// SetPassword replaces the stored digest. An empty password removes access control.
func (m *Meta) SetPassword(password string) {
	if password == "" {
		m.Digest = nil
		return
	}
	m.Digest = digest(password)
}

// VerifyPassword reports whether candidate matches the stored digest.
// It always succeeds when no password is set.
func (m *Meta) VerifyPassword(candidate string) bool {
	if m.Digest == nil {
		return true
	}
	return subtle.ConstantTimeCompare(m.Digest, digest(candidate)) == 1
}

// digest hashes the password, then appends the hash of that hash
func digest(password string) []byte {
	h := sha256.Sum256([]byte(password))
	salt := sha256.Sum256(h[:])
	return append(h[:], salt[:]...)
}

// Location identifies one save
type Location struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

func (l Location) String() string {
	return fmt.Sprintf("%q in %q", l.Name, l.Path)
}

// ValidName rejects save names that could step outside the save root:
// empty names, path separators, NUL bytes and "..".
func ValidName(name string) error {
	if name == "" ||
		strings.ContainsAny(name, "/\\\x00") ||
		strings.Contains(name, "..") ||
		filepath.Base(filepath.Clean(name)) != name {
		return AccessDenied(fmt.Sprintf("save name %q is not allowed", name))
	}
	return nil
}

// Same reports whether a and b are copies of the same logical save: the
// instance ids match and the concrete types match. Field values are not compared.
func Same(a, b Entity) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	return a.SaveMeta().InstanceID == b.SaveMeta().InstanceID
}
