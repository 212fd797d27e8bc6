package components

import (
	"bytes"
	"fmt"
	"slices"
	"sync"

	"github.com/goliatone/go-adminsettings/pkg/model"
)

// Renderer writes the control markup for field into buf.
type Renderer func(buf *bytes.Buffer, field model.Field, data ComponentData) error

// ComponentData carries the pre-computed, not yet escaped inputs a component
// needs. Prepend is already sanitized HTML. HasPrepend reports whether the
// field declares an adornment at all; the wrapper follows it even when
// Prepend is empty.
type ComponentData struct {
	Value      string
	Checked    bool
	Prepend    string
	HasPrepend bool
}

// Descriptor bundles a component renderer with the field type it serves.
type Descriptor struct {
	Type     model.FieldType
	Renderer Renderer
}

// Registry maps field types to component renderers.
type Registry struct {
	mu         sync.RWMutex
	components map[model.FieldType]Descriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		components: make(map[model.FieldType]Descriptor),
	}
}

// Clone returns a copy of the registry to allow isolated overrides.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cloned := New()
	for fieldType, descriptor := range r.components {
		cloned.components[fieldType] = descriptor
	}
	return cloned
}

// Register associates a renderer with a field type. Only types in the closed
// model.FieldType set are accepted; existing entries are replaced.
func (r *Registry) Register(fieldType model.FieldType, renderer Renderer) error {
	if !fieldType.Valid() {
		return fmt.Errorf("components: %w %q", model.ErrUnknownFieldType, fieldType)
	}
	if renderer == nil {
		return fmt.Errorf("components: renderer for %q is nil", fieldType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.components[fieldType] = Descriptor{Type: fieldType, Renderer: renderer}
	return nil
}

// MustRegister mirrors Register but panics on error.
func (r *Registry) MustRegister(fieldType model.FieldType, renderer Renderer) {
	if err := r.Register(fieldType, renderer); err != nil {
		panic(err)
	}
}

// Descriptor fetches the component for a field type.
func (r *Registry) Descriptor(fieldType model.FieldType) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptor, ok := r.components[fieldType]
	return descriptor, ok
}

// Types returns the registered field types, sorted.
func (r *Registry) Types() []model.FieldType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]model.FieldType, 0, len(r.components))
	for fieldType := range r.components {
		types = append(types, fieldType)
	}
	slices.Sort(types)
	return types
}
