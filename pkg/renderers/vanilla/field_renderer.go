package vanilla

import (
	"bytes"
	"fmt"

	"github.com/goliatone/go-adminsettings/pkg/model"
	"github.com/goliatone/go-adminsettings/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-adminsettings/pkg/serialize"
)

// FieldOption customises a single RenderField call.
type FieldOption func(*fieldConfig)

type fieldConfig struct {
	serializer serialize.Serializer
	registry   *components.Registry
}

// WithSerializer replaces the transform applied to `serialized` fields.
func WithSerializer(serializer serialize.Serializer) FieldOption {
	return func(cfg *fieldConfig) {
		if serializer != nil {
			cfg.serializer = serializer
		}
	}
}

// WithComponents renders through a custom component registry.
func WithComponents(registry *components.Registry) FieldOption {
	return func(cfg *fieldConfig) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

var defaultComponents = components.NewDefaultRegistry()

// RenderField renders the control for field pre-filled with value. It is pure:
// the same descriptor and value always produce the same markup. Field types
// without a component render as an empty string.
func RenderField(field model.Field, value any, options ...FieldOption) (string, error) {
	cfg := fieldConfig{
		serializer: serialize.Default,
		registry:   defaultComponents,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	descriptor, ok := cfg.registry.Descriptor(field.Type)
	if !ok {
		return "", nil
	}

	data, err := componentData(field, value, cfg.serializer)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := descriptor.Renderer(&buf, field, data); err != nil {
		return "", fmt.Errorf("vanilla: render %s field %q: %w", field.Type, field.ID, err)
	}
	return buf.String(), nil
}

func componentData(field model.Field, value any, serializer serialize.Serializer) (components.ComponentData, error) {
	data := components.ComponentData{
		Value:   serialize.String(value),
		Checked: serialize.Truthy(value),
	}
	if field.Serialized() {
		encoded, err := serializer(value)
		if err != nil {
			return components.ComponentData{}, fmt.Errorf("vanilla: serialize field %q: %w", field.ID, err)
		}
		data.Value = encoded
		data.Checked = serialize.Truthy(encoded)
	}
	if field.PrependValue != nil {
		data.HasPrepend = true
		data.Prepend = sanitizeAdornment(*field.PrependValue)
	}
	return data, nil
}
