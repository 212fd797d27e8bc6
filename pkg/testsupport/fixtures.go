// Package testsupport holds fixtures and golden-file helpers shared by the
// package tests.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-adminsettings/pkg/model"
	"github.com/goliatone/go-adminsettings/pkg/settings"
	"github.com/goliatone/go-adminsettings/pkg/store"
)

// SamplePage is the page key used by SampleRegistry.
const (
	SamplePage    = "servtake_menu_general_settings"
	SampleSection = "servtake_menu_general_section"
)

// SampleField pairs a descriptor with the value stored for it.
type SampleField struct {
	Field model.Field
	Value any
}

// SampleFields covers one field per rendering branch: textarea, checkbox,
// disabled input, constrained number with adornment, serialized input.
func SampleFields() []SampleField {
	return []SampleField{
		{Field: model.Field{
			ID: "menu_data", Name: "menu_data", Label: "Menu Data", Required: true,
			Type: model.FieldTypeTextarea, DataSource: model.DataSourceOption,
		}, Value: "Soup $5"},
		{Field: model.Field{
			ID: "enabled", Name: "enabled", Label: "Enabled",
			Type: model.FieldTypeInput, Subtype: model.SubtypeCheckbox, DataSource: model.DataSourceOption,
		}, Value: "1"},
		{Field: model.Field{
			ID: "api_key", Name: "api_key", Label: "API key", Disabled: true,
			Type: model.FieldTypeInput, DataSource: model.DataSourceOption,
		}, Value: "secret"},
		{Field: model.Field{
			ID: "price", Name: "price", Label: "Price",
			Type: model.FieldTypeInput, Subtype: model.SubtypeNumber, DataSource: model.DataSourceOption,
			PrependValue: model.Ptr("$"), Min: model.Ptr("0"), Max: model.Ptr("100"), Step: model.Ptr("0.5"),
		}, Value: 4.5},
		{Field: model.Field{
			ID: "tags", Name: "tags", Label: "Tags", ValueType: model.ValueTypeSerialized,
			Type: model.FieldTypeInput, DataSource: model.DataSourceOption,
		}, Value: "a"},
	}
}

// SampleRegistry registers SampleFields on one section of SamplePage and
// binds all of them for storage.
func SampleRegistry(t *testing.T) *settings.Registry {
	t.Helper()
	reg := settings.NewRegistry()
	if err := reg.RegisterPage(model.Page{Key: SamplePage, Title: "ServTake Menu"}); err != nil {
		t.Fatalf("register page: %v", err)
	}
	if err := reg.RegisterSection(SamplePage, SampleSection, "General", func() string {
		return "Here you can find some general settings."
	}); err != nil {
		t.Fatalf("register section: %v", err)
	}
	for _, sample := range SampleFields() {
		if err := reg.RegisterField(SamplePage, SampleSection, sample.Field, nil); err != nil {
			t.Fatalf("register field %s: %v", sample.Field.Name, err)
		}
		if err := reg.BindStorage(SamplePage, sample.Field.Name); err != nil {
			t.Fatalf("bind %s: %v", sample.Field.Name, err)
		}
	}
	return reg
}

// SeededStore returns an in-memory backend holding every SampleFields value.
func SeededStore(t *testing.T) *store.Memory {
	t.Helper()
	backend := store.NewMemory()
	for _, sample := range SampleFields() {
		if err := backend.SetOption(context.Background(), sample.Field.Name, sample.Value); err != nil {
			t.Fatalf("seed %s: %v", sample.Field.Name, err)
		}
	}
	return backend
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
