// Package interactive drives a terminal session for exploring a wildcard
// directory and rendering prompt templates against it.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-promptgen/pkg/render"
	"github.com/goliatone/go-promptgen/pkg/wildcards"
)

// Catalog is the view of a wildcard directory the browser needs.
type Catalog interface {
	Hierarchy() (wildcards.Hierarchy, error)
	AllValues(wildcard string) []string
}

// RenderFunc renders template source once.
type RenderFunc func(ctx context.Context, source string) (render.Result, error)

// Theme captures optional prefixes the browser applies when printing.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures a Browser.
type Option func(*Browser)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(b *Browser) {
		if driver != nil {
			b.driver = driver
		}
	}
}

// WithRenderer enables the render menu entry.
func WithRenderer(fn RenderFunc) Option {
	return func(b *Browser) {
		b.render = fn
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(b *Browser) {
		b.theme = theme
	}
}

// Browser walks a wildcard hierarchy and renders prompts on request.
type Browser struct {
	catalog Catalog
	driver  PromptDriver
	render  RenderFunc
	theme   Theme

	draft string
}

const (
	menuBrowse = "Browse wildcards"
	menuRender = "Render a prompt"
	menuQuit   = "Quit"

	entryBack    = ".."
	entryAddMany = "[add several]"
	entryDone    = "[done]"
)

// New returns a browser over catalog. Without WithPromptDriver it talks to
// the terminal through survey.
func New(catalog Catalog, opts ...Option) *Browser {
	b := &Browser{catalog: catalog}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	if b.driver == nil {
		b.driver = NewSurveyDriver(nil)
	}
	return b
}

// Run loops over the main menu until the user quits. An interrupt ends the
// session with ErrAborted.
func (b *Browser) Run(ctx context.Context) error {
	options := []string{menuBrowse}
	if b.render != nil {
		options = append(options, menuRender)
	}
	options = append(options, menuQuit)

	for {
		idx, err := b.driver.Select(ctx, SelectConfig{Message: "promptgen", Options: options})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) {
			return fmt.Errorf("interactive: invalid menu selection %d", idx)
		}

		switch options[idx] {
		case menuBrowse:
			err = b.Browse(ctx)
		case menuRender:
			err = b.Render(ctx)
		case menuQuit:
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Browse navigates the wildcard tree. Directories are listed with a trailing
// slash; picking a wildcard prints its values. The add-several entry picks
// which of the directory's wildcards belong in the draft in one step.
func (b *Browser) Browse(ctx context.Context) error {
	root, err := b.catalog.Hierarchy()
	if err != nil {
		return fmt.Errorf("interactive: load wildcards: %w", err)
	}

	stack := []wildcards.Hierarchy{root}
	path := []string{}
	for {
		current := stack[len(stack)-1]
		dirs := make([]string, 0, len(current.Children))
		for name := range current.Children {
			dirs = append(dirs, name)
		}
		sort.Strings(dirs)

		options := make([]string, 0, len(dirs)+len(current.Wildcards)+2)
		if len(stack) > 1 {
			options = append(options, entryBack)
		}
		for _, dir := range dirs {
			options = append(options, dir+"/")
		}
		options = append(options, current.Wildcards...)
		if len(current.Wildcards) > 0 {
			options = append(options, entryAddMany)
		}
		options = append(options, entryDone)

		message := "/" + strings.Join(path, "/")
		idx, err := b.driver.Select(ctx, SelectConfig{Message: message, Options: options, PageSize: 15})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) {
			return fmt.Errorf("interactive: invalid selection %d", idx)
		}

		choice := options[idx]
		switch {
		case choice == entryDone:
			return nil
		case choice == entryAddMany:
			if err := b.pickWildcards(ctx, message, current.Wildcards); err != nil {
				return err
			}
		case choice == entryBack:
			stack = stack[:len(stack)-1]
			path = path[:len(path)-1]
		case strings.HasSuffix(choice, "/"):
			name := strings.TrimSuffix(choice, "/")
			stack = append(stack, current.Children[name])
			path = append(path, name)
		default:
			if err := b.showWildcard(ctx, choice); err != nil {
				return err
			}
		}
	}
}

func (b *Browser) showWildcard(ctx context.Context, wildcard string) error {
	values := b.catalog.AllValues(wildcard)
	if len(values) == 0 {
		return b.info(ctx, fmt.Sprintf("%s is empty", wildcard))
	}
	lines := make([]string, 0, len(values)+1)
	lines = append(lines, fmt.Sprintf("%s (%d values)", wildcard, len(values)))
	for _, value := range values {
		lines = append(lines, "  "+value)
	}
	if err := b.info(ctx, strings.Join(lines, "\n")); err != nil {
		return err
	}

	insert, err := b.driver.Confirm(ctx, ConfirmConfig{Message: "Add to the prompt draft?"})
	if err != nil {
		return err
	}
	if insert {
		b.draft = strings.TrimSpace(b.draft + " " + wildcard)
	}
	return nil
}

// pickWildcards offers candidates with the ones already in the draft checked
// and rewrites the draft to hold exactly the picked ones from this set.
func (b *Browser) pickWildcards(ctx context.Context, message string, candidates []string) error {
	draft := strings.Fields(b.draft)
	picked, err := b.driver.MultiSelect(ctx, SelectConfig{
		Message:  message,
		Options:  candidates,
		Defaults: indicesOf(candidates, draft),
		PageSize: 15,
	})
	if err != nil {
		return err
	}

	kept := slices.DeleteFunc(draft, func(word string) bool {
		return slices.Contains(candidates, word)
	})
	b.draft = strings.Join(append(kept, optionsAt(candidates, picked)...), " ")
	return nil
}

// Render asks for template source, seeded with the draft built while
// browsing, and prints the requested number of renders. Render failures are
// printed and do not end the session.
func (b *Browser) Render(ctx context.Context) error {
	if b.render == nil {
		return ErrNoRenderer
	}

	source, err := b.driver.TextArea(ctx, TextAreaConfig{
		Message: "Template",
		Default: b.draft,
		Help:    `pongo2 syntax, e.g. {{ random_sample("__colors__") }}`,
	})
	if err != nil {
		return err
	}
	source = strings.TrimSpace(source)
	if source == "" {
		return b.info(ctx, "nothing to render")
	}
	b.draft = source

	raw, err := b.driver.Input(ctx, InputConfig{
		Message:   "How many?",
		Default:   "1",
		Validator: validateCount,
	})
	if err != nil {
		return err
	}
	count, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return err
	}

	for i := 0; i < count; i++ {
		result, err := b.render(ctx, source)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			return b.fail(ctx, err)
		}
		if err := b.info(ctx, result.Output); err != nil {
			return err
		}
		for n, block := range result.Blocks {
			if err := b.info(ctx, fmt.Sprintf("  block %d: %s", n+1, block)); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateCount(raw string) error {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

func (b *Browser) info(ctx context.Context, msg string) error {
	return b.driver.Info(ctx, b.theme.InfoPrefix+msg)
}

func (b *Browser) fail(ctx context.Context, err error) error {
	return b.driver.Info(ctx, b.theme.ErrorPrefix+err.Error())
}
