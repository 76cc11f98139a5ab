package pongo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-promptgen/pkg/functions"
	"github.com/goliatone/go-promptgen/pkg/generators"
	"github.com/goliatone/go-promptgen/pkg/primitives"
	"github.com/goliatone/go-promptgen/pkg/render"
	"github.com/goliatone/go-promptgen/pkg/render/template"
)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	baseDir       string
	templates     fs.FS
	extension     string
	templateFn    map[string]any
	globalData    map[string]any
	functions     *functions.Registry
	collaborators generators.Collaborators
	seed          *uint64
	logger        *slog.Logger
	autoescape    *bool
}

// WithBaseDir configures the engine to load templates from a base directory on
// disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS configures the engine to load templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the default template extension used by the engine.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithTemplateFunc registers helper functions or filters when the engine loads.
// Plain Go functions become globals; pongo2.FilterFunction values become
// filters.
func WithTemplateFunc(funcs map[string]any) Option {
	return func(cfg *config) {
		if len(funcs) == 0 {
			return
		}
		if cfg.templateFn == nil {
			cfg.templateFn = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			cfg.templateFn[strings.TrimSpace(name)] = fn
		}
	}
}

// WithGlobalData seeds global context values available to every template.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// WithFunctions replaces the builtin function registry.
func WithFunctions(registry *functions.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.functions = registry
		}
	}
}

// WithCollaborators sets the default wildcard resolver and generators.
func WithCollaborators(collaborators generators.Collaborators) Option {
	return func(cfg *config) {
		cfg.collaborators = cfg.collaborators.Merge(collaborators)
	}
}

// WithWildcardResolver sets the default wildcard resolver.
func WithWildcardResolver(resolver generators.WildcardResolver) Option {
	return func(cfg *config) {
		if resolver != nil {
			cfg.collaborators.Wildcards = resolver
		}
	}
}

// WithGenerator registers a default generator for a strategy name.
func WithGenerator(strategy string, gen generators.Generator) Option {
	return func(cfg *config) {
		strategy = strings.TrimSpace(strategy)
		if strategy == "" || gen == nil {
			return
		}
		cfg.collaborators = cfg.collaborators.Merge(generators.Collaborators{
			Generators: generators.Table{strategy: gen},
		})
	}
}

// WithSeed makes the sequence of render passes reproducible. Each pass still
// gets its own random source, drawn from a generator seeded with seed.
func WithSeed(seed uint64) Option {
	return func(cfg *config) {
		cfg.seed = &seed
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithAutoescape toggles pongo2 HTML autoescaping. pongo2 keeps this setting
// process-wide, so it applies to every engine and should be chosen before
// renders run concurrently. Without this option engines leave the current
// setting alone; the first engine built turns autoescaping off, since prompts
// are plain text.
func WithAutoescape(enabled bool) Option {
	return func(cfg *config) {
		cfg.autoescape = &enabled
	}
}

var (
	autoescapeOnce sync.Once
	autoescapeMu   sync.Mutex
)

func applyAutoescape(enabled *bool) {
	autoescapeOnce.Do(func() {
		pongo2.SetAutoescape(false)
	})
	if enabled == nil {
		return
	}
	autoescapeMu.Lock()
	pongo2.SetAutoescape(*enabled)
	autoescapeMu.Unlock()
}

// Engine renders prompt templates with pongo2. Each render is an isolated
// pass; concurrent renders on one engine do not share random state or prompt
// blocks.
type Engine struct {
	mu sync.RWMutex

	templateSet *pongo2.TemplateSet
	templates   map[string]*pongo2.Template
	tplExt      string
	functions   *functions.Registry
	logger      *slog.Logger

	collabMu      sync.RWMutex
	collaborators generators.Collaborators

	seedMu sync.Mutex
	seeder *rand.Rand
}

// Ensure Engine implements the TemplateRenderer interface.
var _ template.TemplateRenderer = (*Engine)(nil)

// New constructs an Engine using the provided configuration options. Without
// a base directory or fs.FS the engine can only render template strings.
func New(options ...Option) (*Engine, error) {
	cfg := &config{
		extension: ".tpl",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if err := registerPromptTag(); err != nil {
		return nil, fmt.Errorf("pongo: register prompt tag: %w", err)
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("pongo: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}
	if len(loaders) == 0 {
		loaders = append(loaders, pongo2.NewFSLoader(emptyFS{}))
	}

	applyAutoescape(cfg.autoescape)

	engine := &Engine{
		templateSet:   pongo2.NewSet("promptgen", loaders...),
		templates:     make(map[string]*pongo2.Template),
		tplExt:        cfg.extension,
		functions:     cfg.functions,
		logger:        cfg.logger,
		collaborators: cfg.collaborators,
	}
	if engine.functions == nil {
		engine.functions = functions.NewRegistry()
	}
	if engine.logger == nil {
		engine.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.seed != nil {
		engine.seeder = primitives.NewRand(*cfg.seed)
	}
	registerDefaultFilters()

	if err := engine.GlobalContext(cfg.globalData); err != nil {
		return nil, fmt.Errorf("pongo: apply global data: %w", err)
	}
	if len(cfg.templateFn) > 0 {
		for name, fn := range cfg.templateFn {
			if err := engine.registerTemplateFunc(name, fn); err != nil {
				return nil, fmt.Errorf("pongo: register template func %q: %w", name, err)
			}
		}
	}

	return engine, nil
}

// Render treats name as template source when it contains template markup and
// as a template path otherwise.
func (e *Engine) Render(ctx context.Context, name string, data any, opts render.RenderOptions, out ...io.Writer) (render.Result, error) {
	if isTemplateContent(name) {
		return e.RenderString(ctx, name, data, opts, out...)
	}
	return e.RenderTemplate(ctx, name, data, opts, out...)
}

// RenderTemplate renders a template loaded by name from the configured loaders.
func (e *Engine) RenderTemplate(ctx context.Context, name string, data any, opts render.RenderOptions, out ...io.Writer) (render.Result, error) {
	if e == nil || e.templateSet == nil {
		return render.Result{}, errors.New("pongo: engine is nil")
	}
	templatePath := name
	if !strings.HasSuffix(templatePath, e.tplExt) {
		templatePath += e.tplExt
	}

	tmpl, err := e.getTemplate(templatePath)
	if err != nil {
		return render.Result{}, err
	}
	return e.execute(ctx, tmpl, templatePath, data, opts, out)
}

// RenderString parses and renders templateContent.
func (e *Engine) RenderString(ctx context.Context, templateContent string, data any, opts render.RenderOptions, out ...io.Writer) (render.Result, error) {
	if e == nil || e.templateSet == nil {
		return render.Result{}, errors.New("pongo: engine is nil")
	}

	tmpl, err := e.templateSet.FromString(templateContent)
	if err != nil {
		return render.Result{}, fmt.Errorf("pongo: parse template string: %w", err)
	}
	return e.execute(ctx, tmpl, "", data, opts, out)
}

// RegisterFilter registers a template filter. pongo2 filters are process-wide,
// so registering an existing name fails.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("pongo: filter name and function required")
	}

	filter := func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var paramVal any
		if param != nil {
			paramVal = param.Interface()
		}
		result, err := fn(in.Interface(), paramVal)
		if err != nil {
			return nil, &pongo2.Error{Sender: "custom_filter", OrigError: err}
		}
		return pongo2.AsValue(result), nil
	}

	if pongo2.FilterExists(name) {
		return fmt.Errorf("pongo: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, filter)
}

// GlobalContext seeds global data available to every template.
func (e *Engine) GlobalContext(data any) error {
	if e == nil || e.templateSet == nil {
		return errors.New("pongo: engine is nil")
	}
	if data == nil {
		return nil
	}

	globalCtx, err := convertToContext(data)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.templateSet.Globals == nil {
		e.templateSet.Globals = make(pongo2.Context)
	}
	e.templateSet.Globals.Update(globalCtx)
	return nil
}

// SetCollaborators replaces the default collaborators. Renders already in
// flight keep the collaborators they started with.
func (e *Engine) SetCollaborators(collaborators generators.Collaborators) {
	e.collabMu.Lock()
	e.collaborators = collaborators
	e.collabMu.Unlock()
}

// Collaborators returns the default collaborators.
func (e *Engine) Collaborators() generators.Collaborators {
	e.collabMu.RLock()
	defer e.collabMu.RUnlock()
	return e.collaborators
}

// Functions lists the template functions installed on every pass.
func (e *Engine) Functions() []string {
	return e.functions.List()
}

func (e *Engine) execute(ctx context.Context, tmpl *pongo2.Template, name string, data any, opts render.RenderOptions, out []io.Writer) (render.Result, error) {
	viewContext, err := convertToContext(data)
	if err != nil {
		return render.Result{}, fmt.Errorf("pongo: convert data: %w", err)
	}

	session := render.NewSession(ctx, e.passRand(opts), e.Collaborators().Merge(opts.Collaborators), opts.Blocks)
	bound := e.functions.Bind(session, func(fn string, err error) {
		e.logger.DebugContext(session.Context(), "template function failed",
			slog.String("id", session.ID()),
			slog.String("function", fn),
			slog.Any("error", err),
		)
		session.RecordError(err)
	})
	for fnName, fn := range bound {
		viewContext[fnName] = fn
	}
	viewContext[blockCollectionKey] = session.Blocks()
	viewContext[render.BlocksKey] = session.Blocks().Values()

	var buf bytes.Buffer

	e.mu.RLock()
	err = tmpl.ExecuteWriter(viewContext, &buf)
	e.mu.RUnlock()

	if err != nil {
		return render.Result{ID: session.ID()}, executionError(name, err, session)
	}

	rendered := buf.String()
	for _, w := range out {
		if _, err := w.Write([]byte(rendered)); err != nil {
			return render.Result{ID: session.ID()}, err
		}
	}

	e.logger.DebugContext(session.Context(), "prompt rendered",
		slog.String("id", session.ID()),
		slog.String("template", name),
		slog.Int("blocks", session.Blocks().Len()),
	)

	return render.Result{
		ID:     session.ID(),
		Output: rendered,
		Blocks: session.Blocks().Values(),
	}, nil
}

func (e *Engine) passRand(opts render.RenderOptions) *rand.Rand {
	if opts.Rand != nil {
		return opts.Rand
	}
	if opts.Seed != nil {
		return primitives.NewRand(*opts.Seed)
	}
	if e.seeder != nil {
		e.seedMu.Lock()
		seed := e.seeder.Uint64()
		e.seedMu.Unlock()
		return primitives.NewRand(seed)
	}
	return primitives.NewRand(rand.Uint64())
}

// executionError locates err in the template and, when a primitive aborted
// the pass, reports the primitive's own error as the cause.
func executionError(name string, err error, session *render.Session) error {
	out := &render.Error{Template: name, Err: err}
	var perr *pongo2.Error
	if errors.As(err, &perr) {
		out.Line = perr.Line
		out.Column = perr.Column
		if out.Template == "" {
			out.Template = perr.Filename
		}
		if perr.OrigError != nil {
			out.Err = perr.OrigError
		}
	}
	if cause := session.Err(); cause != nil {
		out.Err = cause
	}
	return out
}

func (e *Engine) registerTemplateFunc(name string, fn any) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || fn == nil {
		return nil
	}

	if filter, ok := fn.(pongo2.FilterFunction); ok {
		if pongo2.FilterExists(trimmed) {
			return nil
		}
		return pongo2.RegisterFilter(trimmed, filter)
	}

	if !isCallable(fn) {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.templateSet.Globals == nil {
		e.templateSet.Globals = make(pongo2.Context)
	}
	e.templateSet.Globals[trimmed] = fn
	return nil
}

func (e *Engine) getTemplate(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}

	tmpl, err := e.templateSet.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("pongo: load template %q: %w", path, err)
	}

	e.templates[path] = tmpl
	return tmpl, nil
}

func isTemplateContent(s string) bool {
	return strings.Contains(s, "{{") || strings.Contains(s, "{%")
}

type emptyFS struct{}

func (emptyFS) Open(name string) (fs.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}
