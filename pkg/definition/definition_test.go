package definition_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-adminsettings/pkg/definition"
	"github.com/goliatone/go-adminsettings/pkg/model"
	"github.com/goliatone/go-adminsettings/pkg/settings"
)

func TestDefaultDefinition(t *testing.T) {
	doc, err := definition.Default()
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	if len(doc.Pages) != 1 {
		t.Fatalf("expected one page, got %d", len(doc.Pages))
	}

	registry := settings.NewRegistry()
	if err := definition.Apply(doc, registry, nil); err != nil {
		t.Fatalf("apply: %v", err)
	}

	const page = "servtake_menu_general_settings"
	sections := registry.Sections(page)
	if len(sections) != 1 {
		t.Fatalf("expected one section, got %d", len(sections))
	}
	section := sections[0]
	if section.ID != "servtake_menu_general_section" || section.Title != "General" {
		t.Fatalf("unexpected section %+v", section)
	}
	if section.Description == nil || section.Description() != "Here you can find some general settings." {
		t.Fatalf("unexpected section description")
	}

	field, ok := registry.Field(page, "servtake_menu_menu_data")
	if !ok {
		t.Fatalf("menu data field missing")
	}
	want := model.Field{
		ID:         "servtake_menu_menu_data",
		Name:       "servtake_menu_menu_data",
		Label:      "Menu Data",
		Type:       model.FieldTypeTextarea,
		Required:   true,
		DataSource: model.DataSourceOption,
		ValueType:  model.ValueTypeNormal,
	}
	if diff := cmp.Diff(want, field.Field); diff != "" {
		t.Fatalf("field mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"servtake_menu_menu_data"}, registry.Bound(page)); diff != "" {
		t.Fatalf("bound mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFSMergesJSONAndYAML(t *testing.T) {
	files := fstest.MapFS{
		"a.json": {Data: []byte(`{"pages":[{"key":"alpha","sections":[{"id":"s","title":"S","fields":[{"name":"price","type":"input","subtype":"number","dataSource":"option","min":"0","bind":true}]}]}]}`)},
		"b.yml": {Data: []byte(`
pages:
  - key: beta
    sections:
      - id: s
        title: S
        fields:
          - id: notes
            type: textarea
            dataSource: post_meta
            postId: 42
`)},
		"README.md": {Data: []byte("ignored")},
	}

	doc, err := definition.LoadFS(files)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(doc.Pages) != 2 || doc.Pages[0].Key != "alpha" || doc.Pages[1].Key != "beta" {
		t.Fatalf("unexpected pages: %+v", doc.Pages)
	}

	price := doc.Pages[0].Sections[0].Fields[0]
	if price.ID != "price" || !price.Bind || price.Min == nil || *price.Min != "0" {
		t.Fatalf("unexpected json field: %+v", price)
	}
	if price.ValueType != model.ValueTypeNormal {
		t.Fatalf("expected value type default, got %q", price.ValueType)
	}
	if doc.Pages[0].OptionGroup != "alpha" {
		t.Fatalf("expected option group default, got %q", doc.Pages[0].OptionGroup)
	}

	notes := doc.Pages[1].Sections[0].Fields[0]
	if notes.Name != "notes" || notes.PostID == nil || *notes.PostID != 42 {
		t.Fatalf("unexpected yaml field: %+v", notes)
	}
}

func TestLoadFSRejectsDuplicatePages(t *testing.T) {
	files := fstest.MapFS{
		"one.yaml": {Data: []byte("pages:\n  - key: dup\n")},
		"two.yaml": {Data: []byte("pages:\n  - key: dup\n")},
	}
	if _, err := definition.LoadFS(files); err == nil {
		t.Fatalf("expected duplicate page error")
	}
}

func TestParseRejectsBrokenDocuments(t *testing.T) {
	cases := map[string]string{
		"empty":       "   ",
		"invalid":     "pages: [",
		"missing key": "pages:\n  - title: x\n",
		"no section":  "pages:\n  - key: p\n    sections:\n      - title: x\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := definition.Parse([]byte(data), name); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestApplyCollectsErrors(t *testing.T) {
	doc := &definition.Document{Pages: []definition.Page{{
		Key: "p",
		Sections: []definition.Section{{
			ID: "s",
			Fields: []definition.Field{
				{Field: model.Field{ID: "bad", Name: "bad", Type: "select", DataSource: model.DataSourceOption}, Bind: true},
				{Field: model.Field{ID: "ok", Name: "ok", Type: model.FieldTypeInput, DataSource: model.DataSourceOption}, Bind: true},
			},
		}},
	}}}

	registry := settings.NewRegistry()
	render := func(context.Context, model.Field, any) (string, error) { return "", nil }
	err := definition.Apply(doc, registry, render)
	if !errors.Is(err, model.ErrUnknownFieldType) {
		t.Fatalf("expected ErrUnknownFieldType, got %v", err)
	}
	if _, ok := registry.Field("p", "ok"); !ok {
		t.Fatalf("valid field should still register")
	}
	if diff := cmp.Diff([]string{"ok"}, registry.Bound("p")); diff != "" {
		t.Fatalf("bound mismatch (-want +got):\n%s", diff)
	}
}
