package components

import (
	"bytes"
	"html"

	"github.com/goliatone/go-adminsettings/pkg/model"
)

// NewDefaultRegistry constructs a registry with a component for every
// model.FieldType.
func NewDefaultRegistry() *Registry {
	registry := New()
	registry.MustRegister(model.FieldTypeInput, inputRenderer)
	registry.MustRegister(model.FieldTypeTextarea, textareaRenderer)
	return registry
}

func inputRenderer(buf *bytes.Buffer, field model.Field, data ComponentData) error {
	if field.IsCheckbox() {
		writeCheckbox(buf, field, data)
		return nil
	}

	writePrependStart(buf, data)
	if field.Disabled {
		// The disabled control is display-only: browsers do not submit it, so
		// the hidden control re-posts the stored value under the real name.
		writeInput(buf, field, field.ID+DisabledSuffix, field.Name+DisabledSuffix, data.Value, true)
		writeShadowInput(buf, field, data.Value)
	} else {
		writeInput(buf, field, field.ID, field.Name, data.Value, false)
	}
	writePrependEnd(buf, data)
	return nil
}

// textareaRenderer has no disabled handling; a disabled textarea renders like
// an enabled one.
func textareaRenderer(buf *bytes.Buffer, field model.Field, data ComponentData) error {
	writePrependStart(buf, data)
	buf.WriteString(`<textarea`)
	writeAttr(buf, "id", field.ID)
	if field.Required {
		writeAttr(buf, "required", "required")
	}
	writeAttr(buf, "name", field.Name)
	writeAttr(buf, "cols", TextareaCols)
	writeAttr(buf, "rows", TextareaRows)
	buf.WriteString(`>`)
	buf.WriteString(html.EscapeString(data.Value))
	buf.WriteString(`</textarea>`)
	writePrependEnd(buf, data)
	return nil
}

func writeInput(buf *bytes.Buffer, field model.Field, id, name, value string, disabled bool) {
	buf.WriteString(`<input`)
	writeAttr(buf, "type", field.InputSubtype())
	writeAttr(buf, "id", id)
	if field.Required && !disabled {
		writeAttr(buf, "required", "required")
	}
	writeOptionalAttr(buf, "step", field.Step)
	writeOptionalAttr(buf, "max", field.Max)
	writeOptionalAttr(buf, "min", field.Min)
	writeAttr(buf, "name", name)
	writeAttr(buf, "size", InputSize)
	if disabled {
		buf.WriteString(` disabled`)
	}
	writeAttr(buf, "value", value)
	buf.WriteString(` />`)
}

func writeShadowInput(buf *bytes.Buffer, field model.Field, value string) {
	buf.WriteString(`<input`)
	writeAttr(buf, "type", "hidden")
	writeAttr(buf, "id", field.ID)
	writeAttr(buf, "name", field.Name)
	writeAttr(buf, "value", value)
	buf.WriteString(` />`)
}

func writeCheckbox(buf *bytes.Buffer, field model.Field, data ComponentData) {
	buf.WriteString(`<input`)
	writeAttr(buf, "type", model.SubtypeCheckbox)
	writeAttr(buf, "id", field.ID)
	if field.Required {
		writeAttr(buf, "required", "required")
	}
	writeAttr(buf, "name", field.Name)
	writeAttr(buf, "size", InputSize)
	writeAttr(buf, "value", CheckboxValue)
	if data.Checked {
		buf.WriteString(` checked`)
	}
	buf.WriteString(` />`)
}

func writePrependStart(buf *bytes.Buffer, data ComponentData) {
	if !data.HasPrepend {
		return
	}
	buf.WriteString(`<div class="input-prepend"> <span class="add-on">`)
	buf.WriteString(data.Prepend)
	buf.WriteString(`</span>`)
}

func writePrependEnd(buf *bytes.Buffer, data ComponentData) {
	if !data.HasPrepend {
		return
	}
	buf.WriteString(`</div>`)
}

func writeAttr(buf *bytes.Buffer, name, value string) {
	buf.WriteByte(' ')
	buf.WriteString(name)
	buf.WriteString(`="`)
	buf.WriteString(html.EscapeString(value))
	buf.WriteByte('"')
}

func writeOptionalAttr(buf *bytes.Buffer, name string, value *string) {
	if value == nil {
		return
	}
	writeAttr(buf, name, *value)
}
