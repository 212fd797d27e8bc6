package model

import "context"

// FieldType selects the control a field renders as. The set is closed: every
// value listed in FieldTypes must have a renderer component.
type FieldType string

const (
	FieldTypeInput    FieldType = "input"
	FieldTypeTextarea FieldType = "textarea"
)

// FieldTypes lists every supported FieldType in declaration order.
var FieldTypes = []FieldType{FieldTypeInput, FieldTypeTextarea}

// Valid reports whether t belongs to the closed FieldType set.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeInput, FieldTypeTextarea:
		return true
	default:
		return false
	}
}

// DataSource names the backing store a field value is read from.
type DataSource string

const (
	DataSourceOption   DataSource = "option"
	DataSourcePostMeta DataSource = "post_meta"
)

// Valid reports whether s is a known data source.
func (s DataSource) Valid() bool {
	return s == DataSourceOption || s == DataSourcePostMeta
}

// ValueType controls whether the resolved value is serialized before it is
// embedded in markup.
type ValueType string

const (
	ValueTypeNormal     ValueType = "normal"
	ValueTypeSerialized ValueType = "serialized"
)

// Valid reports whether v is a known value type. The empty value is treated as
// ValueTypeNormal.
func (v ValueType) Valid() bool {
	return v == "" || v == ValueTypeNormal || v == ValueTypeSerialized
}

// Input subtypes with dedicated handling.
const (
	SubtypeText     = "text"
	SubtypeCheckbox = "checkbox"
	SubtypeNumber   = "number"
)

// Field describes a single settings control: how it renders and where its
// value lives. Fields are immutable once registered.
type Field struct {
	ID           string     `json:"id" yaml:"id"`
	Name         string     `json:"name" yaml:"name"`
	Label        string     `json:"label,omitempty" yaml:"label,omitempty"`
	Type         FieldType  `json:"type" yaml:"type"`
	Subtype      string     `json:"subtype,omitempty" yaml:"subtype,omitempty"`
	Required     bool       `json:"required,omitempty" yaml:"required,omitempty"`
	DataSource   DataSource `json:"dataSource" yaml:"dataSource"`
	PostID       *int64     `json:"postId,omitempty" yaml:"postId,omitempty"`
	ValueType    ValueType  `json:"valueType,omitempty" yaml:"valueType,omitempty"`
	Disabled     bool       `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	PrependValue *string    `json:"prependValue,omitempty" yaml:"prependValue,omitempty"`
	Min          *string    `json:"min,omitempty" yaml:"min,omitempty"`
	Max          *string    `json:"max,omitempty" yaml:"max,omitempty"`
	Step         *string    `json:"step,omitempty" yaml:"step,omitempty"`
}

// InputSubtype returns the effective input type attribute, defaulting to text.
func (f Field) InputSubtype() string {
	if f.Subtype == "" {
		return SubtypeText
	}
	return f.Subtype
}

// IsCheckbox reports whether the field renders as a checkbox input.
func (f Field) IsCheckbox() bool {
	return f.Type == FieldTypeInput && f.Subtype == SubtypeCheckbox
}

// Serialized reports whether the resolved value is serialized before render.
func (f Field) Serialized() bool {
	return f.ValueType == ValueTypeSerialized
}

// DescriptionFunc renders the HTML description shown under a section title.
type DescriptionFunc func() string

// RenderFunc renders a field control given its resolved value.
type RenderFunc func(ctx context.Context, field Field, value any) (string, error)

// Section groups fields on a settings page.
type Section struct {
	ID          string
	Title       string
	Description DescriptionFunc
	Page        string
}

// SettingsField binds a Field to the section and page it renders on.
type SettingsField struct {
	Field     Field
	SectionID string
	Page      string
	Render    RenderFunc
}

// Page is a settings page as assembled by a registry.
type Page struct {
	Key         string
	Title       string
	OptionGroup string
}
