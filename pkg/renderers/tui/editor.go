package tui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-adminsettings/pkg/model"
	"github.com/goliatone/go-adminsettings/pkg/render"
	"github.com/goliatone/go-adminsettings/pkg/serialize"
	"github.com/goliatone/go-adminsettings/pkg/settings"
)

// Source supplies the page layout and current values. The orchestrator
// satisfies it.
type Source interface {
	Registry() *settings.Registry
	Resolve(ctx context.Context, field model.Field) (any, error)
}

// Editor walks a settings page in the terminal and returns the values a
// browser would post for it.
type Editor struct {
	driver     PromptDriver
	serializer serialize.Serializer
	theme      Theme
}

// New constructs an Editor with defaults (survey driver on stdout).
func New(options ...Option) *Editor {
	e := &Editor{
		serializer: serialize.Default,
		theme:      Theme{SectionPrefix: "== ", ReadOnlyPrefix: "  (read-only) "},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	if e.driver == nil {
		e.driver = NewSurveyDriver(nil)
	}
	return e
}

// Edit prompts for every field of page in registration order. Checkboxes
// that end up unchecked are left out of the result, like an unchecked box in
// a browser post. Disabled inputs are printed and their current value is
// re-submitted unchanged.
func (e *Editor) Edit(ctx context.Context, source Source, page string) (url.Values, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if source == nil || source.Registry() == nil {
		return nil, errors.New("tui: source is required")
	}
	registry := source.Registry()
	meta, ok := registry.Page(page)
	if !ok {
		return nil, fmt.Errorf("%w %q", settings.ErrUnknownPage, page)
	}

	values := url.Values{}
	for _, hidden := range render.OptionPageFields(meta.OptionGroup) {
		values.Set(hidden.Name, hidden.Value)
	}

	for _, section := range registry.Sections(meta.Key) {
		if err := e.driver.Info(ctx, e.theme.SectionPrefix+section.Title); err != nil {
			return nil, err
		}
		for _, registered := range registry.Fields(meta.Key, section.ID) {
			field := registered.Field
			current, err := source.Resolve(ctx, field)
			if err != nil {
				return nil, fmt.Errorf("tui: resolve field %q: %w", field.Name, err)
			}
			if err := e.editField(ctx, field, current, values); err != nil {
				return nil, err
			}
		}
	}
	return values, nil
}

func (e *Editor) editField(ctx context.Context, field model.Field, current any, values url.Values) error {
	display, err := e.display(field, current)
	if err != nil {
		return err
	}
	message := fieldMessage(field)

	switch field.Type {
	case model.FieldTypeInput:
		if field.IsCheckbox() {
			checked, err := e.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: serialize.Truthy(display)})
			if err != nil {
				return err
			}
			if checked {
				values.Set(field.Name, "1")
			}
			return nil
		}
		if field.Disabled {
			if err := e.driver.Info(ctx, e.theme.ReadOnlyPrefix+message+": "+display); err != nil {
				return err
			}
			values.Set(field.Name, display)
			return nil
		}
		answer, err := e.driver.Input(ctx, InputConfig{
			Message:   message,
			Default:   display,
			Help:      constraintHelp(field),
			Validator: requiredValidator(field),
		})
		if err != nil {
			return err
		}
		values.Set(field.Name, answer)
	case model.FieldTypeTextarea:
		answer, err := e.driver.TextArea(ctx, TextAreaConfig{
			Message:   message,
			Default:   display,
			Validator: requiredValidator(field),
		})
		if err != nil {
			return err
		}
		values.Set(field.Name, answer)
	}
	return nil
}

func (e *Editor) display(field model.Field, current any) (string, error) {
	if !field.Serialized() {
		return serialize.String(current), nil
	}
	encoded, err := e.serializer(current)
	if err != nil {
		return "", fmt.Errorf("tui: serialize field %q: %w", field.Name, err)
	}
	return encoded, nil
}

func fieldMessage(field model.Field) string {
	label := field.Label
	if label == "" {
		label = field.Name
	}
	if field.PrependValue != nil && *field.PrependValue != "" {
		label += " [" + *field.PrependValue + "]"
	}
	return label
}

func constraintHelp(field model.Field) string {
	var parts []string
	if field.Min != nil {
		parts = append(parts, "min "+*field.Min)
	}
	if field.Max != nil {
		parts = append(parts, "max "+*field.Max)
	}
	if field.Step != nil {
		parts = append(parts, "step "+*field.Step)
	}
	return strings.Join(parts, ", ")
}

func requiredValidator(field model.Field) func(string) error {
	if !field.Required {
		return nil
	}
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s", ErrRequired, fieldMessage(field))
		}
		return nil
	}
}
