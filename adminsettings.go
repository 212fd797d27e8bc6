// Package adminsettings renders admin settings pages from declarative field
// descriptors and persists their values to option and post meta stores.
//
// The two host-facing entry points are RenderField, which turns a descriptor
// and its stored value into form markup, and DescribeError, which maps a
// settings error code to its admin notice. Full pages are assembled by the
// orchestrator package.
package adminsettings

import (
	"github.com/goliatone/go-adminsettings/pkg/model"
	"github.com/goliatone/go-adminsettings/pkg/notice"
	"github.com/goliatone/go-adminsettings/pkg/renderers/vanilla"
)

// Field is a settings field descriptor.
type Field = model.Field

// ErrorDescriptor describes a settings error code.
type ErrorDescriptor = notice.Descriptor

// RenderField renders the control for field pre-filled with value. Unknown
// field types render as the empty string.
func RenderField(field Field, value any, options ...vanilla.FieldOption) (string, error) {
	return vanilla.RenderField(field, value, options...)
}

// DescribeError returns the admin notice for code. Codes outside the table
// return notice.ErrUnknownErrorCode.
func DescribeError(code string) (ErrorDescriptor, error) {
	return notice.Describe(code)
}
