package template

import (
	"context"
	"io"

	"github.com/goliatone/go-promptgen/pkg/render"
)

// TemplateRenderer is the seam between prompt callers and the template
// engine. Every render call runs as an isolated pass: its own random source,
// its own prompt block collection, and the collaborators configured on the
// engine merged with the per-pass overrides.
type TemplateRenderer interface {
	Render(ctx context.Context, name string, data any, opts render.RenderOptions, out ...io.Writer) (render.Result, error)
	RenderTemplate(ctx context.Context, name string, data any, opts render.RenderOptions, out ...io.Writer) (render.Result, error)
	RenderString(ctx context.Context, templateContent string, data any, opts render.RenderOptions, out ...io.Writer) (render.Result, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
