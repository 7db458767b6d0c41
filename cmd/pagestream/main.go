// Command pagestream drives a scanner -> transform pipeline -> writer
// build: it glob-scans a source tree, optionally detects languages from
// path segments, and writes the resulting Resources into a target
// directory, with an optional filesystem-watch reload loop.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/tangerg/pagestream/langdetect"
	"github.com/tangerg/pagestream/pipeline"
	"github.com/tangerg/pagestream/sink"
	"github.com/tangerg/pagestream/source"
)

func main() {
	app := &cli.App{
		Name:                   "pagestream",
		Usage:                  "build a static resource tree through a streaming transform pipeline",
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file path"},
			&cli.StringFlag{Name: "root", Aliases: []string{"r"}, Usage: "source directory to scan (overrides config)"},
			&cli.StringFlag{Name: "pattern", Usage: "doublestar glob pattern rooted at root"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "target directory for written output"},
			&cli.StringFlag{Name: "base-url", Usage: "logical base URL that scanned/rewritten Resource paths are rooted at"},
			&cli.BoolFlag{Name: "watch", Aliases: []string{"w"}, Usage: "watch root and rebuild on change"},
			&cli.BoolFlag{Name: "detect-language", Usage: "detect a language tag from each Resource path's first segment"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("pagestream: fatal", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyOverrides(cfg, c)

	if cfg.Root == "" || cfg.Out == "" {
		return cli.Exit("both --root and --out (or their config equivalents) are required", 1)
	}

	scan := source.Scan(cfg.Root, cfg.Pattern, source.Options{Concurrency: cfg.Concurrency})
	var monitor pipeline.MonitorFunc
	if cfg.Watch {
		monitor = source.Watch(cfg.Root)
	}

	p := pipeline.FromSource(scan, monitor)
	if c.Bool("detect-language") {
		p = p.Map(langdetect.Transform(langdetect.Options{StripSegment: true}))
	}

	writer := sink.New(cfg.Out, cfg.BaseURL)
	ctx := context.Background()

	return p.ForEachWithReloading(ctx, writer.ForEach(ctx), func(ctx context.Context) error {
		slog.Info("pagestream: change detected, rebuilding", slog.String("root", cfg.Root))
		return nil
	})
}

func applyOverrides(cfg *Config, c *cli.Context) {
	if v := c.String("root"); v != "" {
		cfg.Root = v
	}
	if v := c.String("pattern"); v != "" {
		cfg.Pattern = v
	}
	if v := c.String("out"); v != "" {
		cfg.Out = v
	}
	if v := c.String("base-url"); v != "" {
		cfg.BaseURL = v
	}
	if c.Bool("watch") {
		cfg.Watch = true
	}
}
