package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	promptgen "github.com/goliatone/go-promptgen"
	"github.com/goliatone/go-promptgen/internal/config"
	"github.com/goliatone/go-promptgen/internal/interactive"
	"github.com/goliatone/go-promptgen/pkg/render/template/pongo"
	"github.com/goliatone/go-promptgen/pkg/wildcards"
)

func main() {
	cfg, err := config.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "promptgen-cli: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "promptgen-cli: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, out, errOut io.Writer) error {
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))

	manager := wildcards.New(cfg.WildcardDir,
		wildcards.WithWrap(cfg.Wrap),
		wildcards.WithLogger(logger),
	)

	engineOpts := []pongo.Option{pongo.WithLogger(logger)}
	if seed, ok, err := cfg.SeedValue(); err != nil {
		return err
	} else if ok {
		engineOpts = append(engineOpts, pongo.WithSeed(seed))
	}
	if cfg.TemplateDir != "" {
		engineOpts = append(engineOpts, pongo.WithBaseDir(cfg.TemplateDir))
	}
	engineOpts = append(engineOpts, promptgen.WithWildcards(manager, nil))

	engine, err := promptgen.NewEngine(engineOpts...)
	if err != nil {
		return err
	}

	if cfg.Watch {
		go func() {
			if err := manager.Watch(ctx); err != nil {
				logger.Warn("wildcard watch stopped", slog.Any("error", err))
			}
		}()
	}

	if cfg.Interactive {
		browser := interactive.New(manager,
			interactive.WithPromptDriver(interactive.NewSurveyDriver(out)),
			interactive.WithRenderer(func(ctx context.Context, source string) (promptgen.Result, error) {
				return engine.RenderString(ctx, source, nil, promptgen.RenderOptions{})
			}),
			interactive.WithTheme(interactive.Theme{ErrorPrefix: "error: "}),
		)
		if err := browser.Run(ctx); err != nil && !errors.Is(err, interactive.ErrAborted) {
			return err
		}
		return nil
	}

	for i := 0; i < cfg.Count; i++ {
		var result promptgen.Result
		if cfg.Template != "" {
			result, err = engine.RenderTemplate(ctx, cfg.Template, nil, promptgen.RenderOptions{})
		} else {
			result, err = engine.RenderString(ctx, cfg.Prompt, nil, promptgen.RenderOptions{})
		}
		if err != nil {
			return err
		}

		if !cfg.Blocks {
			fmt.Fprintln(out, result.Output)
			continue
		}
		for _, block := range result.Blocks {
			fmt.Fprintln(out, block)
		}
	}
	return nil
}
