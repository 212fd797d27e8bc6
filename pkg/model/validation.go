package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownFieldType reports a Field.Type outside the closed FieldType set.
	ErrUnknownFieldType = errors.New("model: unknown field type")
	// ErrUnknownDataSource reports a Field.DataSource outside the known set.
	ErrUnknownDataSource = errors.New("model: unknown data source")
	// ErrUnknownValueType reports a Field.ValueType outside the known set.
	ErrUnknownValueType = errors.New("model: unknown value type")
	// ErrPostIDRequired reports a post_meta field declared without a post id.
	ErrPostIDRequired = errors.New("model: post id is required for post_meta fields")

	errFieldIDMissing   = errors.New("model: field id is required")
	errFieldNameMissing = errors.New("model: field name is required")
)

// Validate checks the descriptor invariants. All violations are reported
// together.
func (f Field) Validate() error {
	var errs []error
	if strings.TrimSpace(f.ID) == "" {
		errs = append(errs, errFieldIDMissing)
	}
	if strings.TrimSpace(f.Name) == "" {
		errs = append(errs, errFieldNameMissing)
	}
	if !f.Type.Valid() {
		errs = append(errs, fmt.Errorf("%w %q", ErrUnknownFieldType, f.Type))
	}
	if !f.DataSource.Valid() {
		errs = append(errs, fmt.Errorf("%w %q", ErrUnknownDataSource, f.DataSource))
	}
	if !f.ValueType.Valid() {
		errs = append(errs, fmt.Errorf("%w %q", ErrUnknownValueType, f.ValueType))
	}
	if f.DataSource == DataSourcePostMeta && f.PostID == nil {
		errs = append(errs, ErrPostIDRequired)
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("field %q: %w", f.ID, errors.Join(errs...))
}
