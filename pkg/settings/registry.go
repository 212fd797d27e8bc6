// Package settings holds the section/field registry a settings page is
// assembled from. A Registry is populated once during initialization and then
// read concurrently by request handlers.
package settings

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-adminsettings/pkg/model"
)

var (
	// ErrUnknownPage is returned when a page has no registered sections.
	ErrUnknownPage = errors.New("settings: unknown page")
	// ErrUnknownSection is returned when a field targets a section that was
	// never registered on its page.
	ErrUnknownSection = errors.New("settings: unknown section")
	// ErrUnknownField is returned when binding storage for a field that was
	// never registered.
	ErrUnknownField = errors.New("settings: unknown field")
)

// Registry stores pages, sections and fields in registration order.
type Registry struct {
	mu    sync.RWMutex
	pages map[string]*pageEntry
	order []string
}

type pageEntry struct {
	page     model.Page
	sections []*sectionEntry
	byID     map[string]*sectionEntry
	fields   map[string]string // field name -> section id
	bound    []string
	isBound  map[string]bool
}

type sectionEntry struct {
	section model.Section
	fields  []model.SettingsField
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{pages: make(map[string]*pageEntry)}
}

// RegisterPage declares page metadata. Pages are also created implicitly by
// RegisterSection; calling RegisterPage again replaces the title and option
// group but keeps the sections.
func (r *Registry) RegisterPage(page model.Page) error {
	key := strings.TrimSpace(page.Key)
	if key == "" {
		return errors.New("settings: page key is required")
	}
	page.Key = key

	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.ensurePage(key)
	if page.OptionGroup == "" {
		page.OptionGroup = key
	}
	entry.page = page
	return nil
}

// RegisterSection adds (or replaces) a section on page. Replacing keeps the
// section's original position and its fields.
func (r *Registry) RegisterSection(page, sectionID, title string, description model.DescriptionFunc) error {
	page = strings.TrimSpace(page)
	sectionID = strings.TrimSpace(sectionID)
	if page == "" || sectionID == "" {
		return errors.New("settings: page and section id are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.ensurePage(page)
	section := model.Section{ID: sectionID, Title: title, Description: description, Page: page}
	if existing, ok := entry.byID[sectionID]; ok {
		existing.section = section
		return nil
	}
	created := &sectionEntry{section: section}
	entry.sections = append(entry.sections, created)
	entry.byID[sectionID] = created
	return nil
}

// RegisterField adds field to a section. Fields are keyed by name within a
// page; registering the same name again replaces the earlier field in place.
// A field moved to a different section is appended to that section.
func (r *Registry) RegisterField(page, sectionID string, field model.Field, render model.RenderFunc) error {
	if err := field.Validate(); err != nil {
		return fmt.Errorf("settings: register field: %w", err)
	}
	page = strings.TrimSpace(page)
	sectionID = strings.TrimSpace(sectionID)

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownPage, page)
	}
	section, ok := entry.byID[sectionID]
	if !ok {
		return fmt.Errorf("%w %q on page %q", ErrUnknownSection, sectionID, page)
	}

	registered := model.SettingsField{Field: field, SectionID: sectionID, Page: page, Render: render}

	if previous, ok := entry.fields[field.Name]; ok {
		if previous == sectionID {
			for i := range section.fields {
				if section.fields[i].Field.Name == field.Name {
					section.fields[i] = registered
					return nil
				}
			}
		}
		entry.byID[previous].remove(field.Name)
	}
	section.fields = append(section.fields, registered)
	entry.fields[field.Name] = sectionID
	return nil
}

// BindStorage marks a field name as persisted when the page is submitted.
// Binding twice is a no-op.
func (r *Registry) BindStorage(page, name string) error {
	page = strings.TrimSpace(page)
	name = strings.TrimSpace(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownPage, page)
	}
	if _, ok := entry.fields[name]; !ok {
		return fmt.Errorf("%w %q on page %q", ErrUnknownField, name, page)
	}
	if entry.isBound[name] {
		return nil
	}
	entry.isBound[name] = true
	entry.bound = append(entry.bound, name)
	return nil
}

// Page returns the page metadata.
func (r *Registry) Page(key string) (model.Page, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.pages[key]
	if !ok {
		return model.Page{}, false
	}
	return entry.page, true
}

// Pages lists every page in registration order.
func (r *Registry) Pages() []model.Page {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Page, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.pages[key].page)
	}
	return out
}

// Sections returns the sections of page in registration order.
func (r *Registry) Sections(page string) []model.Section {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.pages[page]
	if !ok {
		return nil
	}
	out := make([]model.Section, 0, len(entry.sections))
	for _, section := range entry.sections {
		out = append(out, section.section)
	}
	return out
}

// Fields returns the fields of a section in registration order.
func (r *Registry) Fields(page, sectionID string) []model.SettingsField {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.pages[page]
	if !ok {
		return nil
	}
	section, ok := entry.byID[sectionID]
	if !ok {
		return nil
	}
	out := make([]model.SettingsField, len(section.fields))
	copy(out, section.fields)
	return out
}

// Field looks up a registered field by name.
func (r *Registry) Field(page, name string) (model.SettingsField, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.pages[page]
	if !ok {
		return model.SettingsField{}, false
	}
	sectionID, ok := entry.fields[name]
	if !ok {
		return model.SettingsField{}, false
	}
	for _, field := range entry.byID[sectionID].fields {
		if field.Field.Name == name {
			return field, true
		}
	}
	return model.SettingsField{}, false
}

// Bound returns the storage-bound field names of page in binding order.
func (r *Registry) Bound(page string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.pages[page]
	if !ok {
		return nil
	}
	out := make([]string, len(entry.bound))
	copy(out, entry.bound)
	return out
}

// IsBound reports whether name is persisted on submit.
func (r *Registry) IsBound(page, name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.pages[page]
	return ok && entry.isBound[name]
}

func (r *Registry) ensurePage(key string) *pageEntry {
	if entry, ok := r.pages[key]; ok {
		return entry
	}
	entry := &pageEntry{
		page:    model.Page{Key: key, OptionGroup: key},
		byID:    make(map[string]*sectionEntry),
		fields:  make(map[string]string),
		isBound: make(map[string]bool),
	}
	r.pages[key] = entry
	r.order = append(r.order, key)
	return entry
}

func (s *sectionEntry) remove(name string) {
	for i := range s.fields {
		if s.fields[i].Field.Name == name {
			s.fields = append(s.fields[:i], s.fields[i+1:]...)
			return
		}
	}
}
