package orchestrator

import (
	"context"

	"github.com/goliatone/go-adminsettings/pkg/render"
)

// Transformer mutates an assembled page before it reaches the renderer.
// Implementations can add notices, relabel rows or inject hidden fields.
type Transformer interface {
	Transform(ctx context.Context, page *render.Page) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, page *render.Page) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, page *render.Page) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, page)
}
