package definition

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-adminsettings/pkg/model"
	"github.com/goliatone/go-adminsettings/pkg/settings"
)

//go:embed definitions/*.yaml
var embedded embed.FS

// Document is the merged content of one or more definition files.
type Document struct {
	Pages []Page `json:"pages" yaml:"pages"`
}

// Page declares a settings page and its sections.
type Page struct {
	Key         string    `json:"key" yaml:"key"`
	Title       string    `json:"title,omitempty" yaml:"title,omitempty"`
	OptionGroup string    `json:"optionGroup,omitempty" yaml:"optionGroup,omitempty"`
	Sections    []Section `json:"sections" yaml:"sections"`
	Source      string    `json:"-" yaml:"-"`
}

// Section declares a group of fields.
type Section struct {
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields"`
}

// Field is a field descriptor plus whether its value is persisted on submit.
type Field struct {
	model.Field `yaml:",inline"`
	Bind        bool `json:"bind,omitempty" yaml:"bind,omitempty"`
}

// Default returns the built-in definitions.
func Default() (*Document, error) {
	return LoadFS(embedded)
}

// DefaultFS exposes the built-in definition files.
func DefaultFS() fs.FS {
	return embedded
}

// LoadFS walks fsys and parses every .json, .yaml and .yml file. Files are
// visited in lexical order and their pages appended in that order. A page key
// declared twice is an error.
func LoadFS(fsys fs.FS) (*Document, error) {
	doc := &Document{}
	if fsys == nil {
		return doc, nil
	}

	seen := make(map[string]string)
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("definition: read %s: %w", path, err)
		}
		parsed, err := Parse(data, path)
		if err != nil {
			return err
		}
		for _, page := range parsed.Pages {
			if previous, ok := seen[page.Key]; ok {
				return fmt.Errorf("definition: duplicate page %q (files %s and %s)", page.Key, previous, path)
			}
			seen[page.Key] = path
			page.Source = path
			doc.Pages = append(doc.Pages, page)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Parse decodes a single JSON or YAML definition. JSON is tried first.
func Parse(data []byte, source string) (*Document, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("definition: file %s is empty", source)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		doc = Document{}
		if yamlErr := yaml.Unmarshal(data, &doc); yamlErr != nil {
			return nil, fmt.Errorf("definition: parse %s: invalid JSON or YAML: %w", source, yamlErr)
		}
	}
	if err := doc.normalise(source); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Document) normalise(source string) error {
	for i := range d.Pages {
		page := &d.Pages[i]
		page.Key = strings.TrimSpace(page.Key)
		if page.Key == "" {
			return fmt.Errorf("definition: file %s defines a page without a key", source)
		}
		if page.OptionGroup == "" {
			page.OptionGroup = page.Key
		}
		for j := range page.Sections {
			section := &page.Sections[j]
			section.ID = strings.TrimSpace(section.ID)
			if section.ID == "" {
				return fmt.Errorf("definition: page %q in %s has a section without an id", page.Key, source)
			}
			for k := range section.Fields {
				field := &section.Fields[k].Field
				if field.ID == "" {
					field.ID = field.Name
				}
				if field.Name == "" {
					field.Name = field.ID
				}
				if field.ValueType == "" {
					field.ValueType = model.ValueTypeNormal
				}
			}
		}
	}
	return nil
}

// Apply registers every page, section and field of doc on registry. Fields are
// registered with render as their render callback; bound fields are marked
// for storage. Every failure is collected and returned together.
func Apply(doc *Document, registry *settings.Registry, render model.RenderFunc) error {
	if doc == nil {
		return nil
	}
	if registry == nil {
		return errors.New("definition: registry is nil")
	}

	var errs []error
	for _, page := range doc.Pages {
		if err := registry.RegisterPage(model.Page{Key: page.Key, Title: page.Title, OptionGroup: page.OptionGroup}); err != nil {
			errs = append(errs, err)
			continue
		}
		for _, section := range page.Sections {
			if err := registry.RegisterSection(page.Key, section.ID, section.Title, staticDescription(section.Description)); err != nil {
				errs = append(errs, err)
				continue
			}
			for _, field := range section.Fields {
				if err := registry.RegisterField(page.Key, section.ID, field.Field, render); err != nil {
					errs = append(errs, err)
					continue
				}
				if !field.Bind {
					continue
				}
				if err := registry.BindStorage(page.Key, field.Name); err != nil {
					errs = append(errs, err)
				}
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("definition: apply: %w", errors.Join(errs...))
	}
	return nil
}

func staticDescription(text string) model.DescriptionFunc {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return func() string { return text }
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
