package document

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Registry maps format names and file extensions to adapters
type Registry struct {
	byName []Format
	byExt  map[string]Format
}

// NewRegistry registers the given formats in order
func NewRegistry(formats ...Format) (*Registry, error) {
	r := &Registry{byExt: make(map[string]Format)}
	for _, f := range formats {
		if err := r.Register(f); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a format. Names and extensions must be unique.
func (r *Registry) Register(f Format) error {
	if r.Lookup(f.Name()) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicate, f.Name())
	}
	for _, ext := range f.Extensions() {
		ext = normalizeExt(ext)
		if other, ok := r.byExt[ext]; ok {
			return fmt.Errorf("%w: extension %s claimed by %s", ErrDuplicate, ext, other.Name())
		}
	}
	for _, ext := range f.Extensions() {
		r.byExt[normalizeExt(ext)] = f
	}
	r.byName = append(r.byName, f)
	return nil
}

// Lookup finds a format by name
func (r *Registry) Lookup(name string) Format {
	for _, f := range r.byName {
		if strings.EqualFold(f.Name(), name) {
			return f
		}
	}
	return nil
}

// ForPath picks the format from the file extension of path
func (r *Registry) ForPath(path string) (Format, error) {
	if f, ok := r.byExt[normalizeExt(filepath.Ext(path))]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, filepath.Base(path))
}

// Formats returns the registered formats in registration order
func (r *Registry) Formats() []Format {
	return slices.Clone(r.byName)
}

// Names returns the registered format names in registration order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for _, f := range r.byName {
		names = append(names, f.Name())
	}
	return names
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
