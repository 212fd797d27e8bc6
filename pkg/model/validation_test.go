package model_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-adminsettings/pkg/model"
)

func TestFieldValidateAcceptsWellFormedDescriptors(t *testing.T) {
	fields := []model.Field{
		{ID: "menu", Name: "menu_data", Type: model.FieldTypeTextarea, DataSource: model.DataSourceOption, ValueType: model.ValueTypeNormal},
		{ID: "price", Name: "price", Type: model.FieldTypeInput, Subtype: model.SubtypeNumber, DataSource: model.DataSourcePostMeta, PostID: model.Ptr(int64(7))},
	}
	for _, field := range fields {
		if err := field.Validate(); err != nil {
			t.Fatalf("validate %q: unexpected error %v", field.ID, err)
		}
	}
}

func TestFieldValidateRequiresPostIDForPostMeta(t *testing.T) {
	field := model.Field{ID: "price", Name: "price", Type: model.FieldTypeInput, DataSource: model.DataSourcePostMeta}
	err := field.Validate()
	if !errors.Is(err, model.ErrPostIDRequired) {
		t.Fatalf("expected ErrPostIDRequired, got %v", err)
	}
}

func TestFieldValidateReportsEveryViolation(t *testing.T) {
	field := model.Field{Type: "select", DataSource: "transient", ValueType: "json"}
	err := field.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []error{model.ErrUnknownFieldType, model.ErrUnknownDataSource, model.ErrUnknownValueType} {
		if !errors.Is(err, want) {
			t.Fatalf("expected %v in %v", want, err)
		}
	}
}

func TestFieldTypesAreAllValid(t *testing.T) {
	for _, ft := range model.FieldTypes {
		if !ft.Valid() {
			t.Fatalf("field type %q listed but not valid", ft)
		}
	}
	if model.FieldType("select").Valid() {
		t.Fatalf("select must not be a valid field type")
	}
}

func TestFieldInputSubtypeDefaultsToText(t *testing.T) {
	if got := (model.Field{Type: model.FieldTypeInput}).InputSubtype(); got != model.SubtypeText {
		t.Fatalf("InputSubtype() = %q, want %q", got, model.SubtypeText)
	}
	checkbox := model.Field{Type: model.FieldTypeInput, Subtype: model.SubtypeCheckbox}
	if !checkbox.IsCheckbox() {
		t.Fatalf("expected checkbox field")
	}
}
