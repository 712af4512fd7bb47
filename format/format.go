// Package format defines the small metadata interface every bibliographic
// format plugin implements, and a registry used for format discovery.
package format

import "strings"

// Format describes a supported bibliographic record format.
type Format interface {
	// Name returns the format identifier (e.g. "wos", "ris", "bib", "csv").
	Name() string

	// Description returns a human-readable format description.
	Description() string

	// Extensions returns file extensions associated with this format.
	Extensions() []string
}

// Registry holds registered formats, for format discovery and
// description; no command in cmd consults it. The auto-detect reader itself (bibx.ReadAny) does not consult
// the registry: its trial order (wos, ris, csv, bib) is fixed explicitly,
// so dispatch there is a literal tagged-union, not table-driven.
type Registry struct {
	formats map[string]Format
}

// DefaultRegistry is the global format registry.
var DefaultRegistry = NewRegistry()

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{formats: map[string]Format{}}
}

// Register adds a format to the registry.
func (r *Registry) Register(f Format) {
	r.formats[f.Name()] = f
}

// Get retrieves a format by name.
func (r *Registry) Get(name string) (Format, bool) {
	f, ok := r.formats[strings.ToLower(name)]
	return f, ok
}

// List returns every registered format.
func (r *Registry) List() []Format {
	out := make([]Format, 0, len(r.formats))
	for _, f := range r.formats {
		out = append(out, f)
	}
	return out
}

// Register adds a format to the default registry.
func Register(f Format) {
	DefaultRegistry.Register(f)
}

// Get retrieves a format from the default registry.
func Get(name string) (Format, bool) {
	return DefaultRegistry.Get(name)
}

// List returns every format in the default registry.
func List() []Format {
	return DefaultRegistry.List()
}
