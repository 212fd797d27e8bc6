package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-adminsettings/pkg/model"
)

// ErrMissingAssociationKey is returned when a post_meta field is resolved
// without a post id. It is never collapsed into an empty value so callers can
// tell a misconfigured field from a legitimately empty one.
var ErrMissingAssociationKey = errors.New("store: post id is required for post_meta lookups")

// ErrUnknownDataSource is returned for fields whose data source has no backend.
var ErrUnknownDataSource = errors.New("store: unknown data source")

// OptionStore reads plugin-wide settings by name. A missing option reports
// ok=false with a nil error.
type OptionStore interface {
	GetOption(ctx context.Context, name string) (value any, ok bool, err error)
}

// PostMetaStore reads values scoped to a single post.
type PostMetaStore interface {
	GetPostMeta(ctx context.Context, postID int64, key string) (value any, ok bool, err error)
}

// OptionWriter persists plugin-wide settings.
type OptionWriter interface {
	SetOption(ctx context.Context, name string, value any) error
}

// PostMetaWriter persists post-scoped values.
type PostMetaWriter interface {
	SetPostMeta(ctx context.Context, postID int64, key string, value any) error
}

// Backend bundles the read and write sides of both stores.
type Backend interface {
	OptionStore
	PostMetaStore
	OptionWriter
	PostMetaWriter
}

// Resolver looks up the current value of a field against the store its
// descriptor names. It holds no state beyond the store handles.
type Resolver struct {
	options OptionStore
	meta    PostMetaStore
}

// NewResolver constructs a Resolver. Either store may be nil when the fields
// it serves never reference that data source.
func NewResolver(options OptionStore, meta PostMetaStore) *Resolver {
	return &Resolver{options: options, meta: meta}
}

// Resolve returns the stored value for field, or nil when nothing is stored.
func (r *Resolver) Resolve(ctx context.Context, field model.Field) (any, error) {
	switch field.DataSource {
	case model.DataSourceOption:
		if r.options == nil {
			return nil, fmt.Errorf("store: field %q: option store not configured", field.Name)
		}
		value, ok, err := r.options.GetOption(ctx, field.Name)
		if err != nil {
			return nil, fmt.Errorf("store: get option %q: %w", field.Name, err)
		}
		if !ok {
			return nil, nil
		}
		return value, nil
	case model.DataSourcePostMeta:
		if field.PostID == nil {
			return nil, fmt.Errorf("store: field %q: %w", field.Name, ErrMissingAssociationKey)
		}
		if r.meta == nil {
			return nil, fmt.Errorf("store: field %q: post meta store not configured", field.Name)
		}
		value, ok, err := r.meta.GetPostMeta(ctx, *field.PostID, field.Name)
		if err != nil {
			return nil, fmt.Errorf("store: get post meta %d/%q: %w", *field.PostID, field.Name, err)
		}
		if !ok {
			return nil, nil
		}
		return value, nil
	default:
		return nil, fmt.Errorf("store: field %q: %w %q", field.Name, ErrUnknownDataSource, field.DataSource)
	}
}

// Persist writes value to the store the field is bound to.
func Persist(ctx context.Context, backend Backend, field model.Field, value any) error {
	switch field.DataSource {
	case model.DataSourceOption:
		if err := backend.SetOption(ctx, field.Name, value); err != nil {
			return fmt.Errorf("store: set option %q: %w", field.Name, err)
		}
		return nil
	case model.DataSourcePostMeta:
		if field.PostID == nil {
			return fmt.Errorf("store: field %q: %w", field.Name, ErrMissingAssociationKey)
		}
		if err := backend.SetPostMeta(ctx, *field.PostID, field.Name, value); err != nil {
			return fmt.Errorf("store: set post meta %d/%q: %w", *field.PostID, field.Name, err)
		}
		return nil
	default:
		return fmt.Errorf("store: field %q: %w %q", field.Name, ErrUnknownDataSource, field.DataSource)
	}
}
