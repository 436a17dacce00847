package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/app"
	"github.com/kailas-cloud/jobmatch/internal/config"
	logpkg "github.com/kailas-cloud/jobmatch/internal/logger"
	chiTransport "github.com/kailas-cloud/jobmatch/internal/transport/chi"
	"github.com/kailas-cloud/jobmatch/internal/version"
)

func newCLI() *cli.App {
	return &cli.App{
		Name:    "jobmatch-cli",
		Usage:   "Match a resume against job postings from the command line",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (default: config/$ENV.yaml)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level written to stderr",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "match",
				Usage: "Rank the corpus against a resume",
				Flags: []cli.Flag{resumeFlag(), resumeTextFlag()},
				Action: func(c *cli.Context) error {
					a, logger, err := loadApp(c)
					if err != nil {
						return err
					}
					defer a.Close()
					defer func() { _ = logger.Sync() }()

					query, err := readResume(c, a)
					if err != nil {
						return err
					}
					report, err := a.Matcher.Match(c.Context, query)
					if err != nil {
						return err
					}
					return printJSON(c, chiTransport.NewMatchResponse(&report, limits(a.Config)))
				},
			},
			{
				Name:  "compare",
				Usage: "Score a resume against a single job description",
				Flags: []cli.Flag{
					resumeFlag(),
					resumeTextFlag(),
					&cli.StringFlag{
						Name:     "job-text",
						Aliases:  []string{"j"},
						Usage:    "Job description text",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					a, logger, err := loadApp(c)
					if err != nil {
						return err
					}
					defer a.Close()
					defer func() { _ = logger.Sync() }()

					query, err := readResume(c, a)
					if err != nil {
						return err
					}
					report, err := a.Matcher.MatchReference(c.Context, query, c.String("job-text"))
					if err != nil {
						return err
					}
					return printJSON(c, chiTransport.NewMatchCustomResponse(&report, limits(a.Config)))
				},
			},
			{
				Name:  "schema",
				Usage: "Print the corpus columns",
				Action: func(c *cli.Context) error {
					a, logger, err := loadApp(c)
					if err != nil {
						return err
					}
					defer a.Close()
					defer func() { _ = logger.Sync() }()

					return printJSON(c, chiTransport.SchemaResponse{Columns: a.Corpus.Columns()})
				},
			},
		},
	}
}

func resumeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "resume",
		Aliases: []string{"r"},
		Usage:   "Path to the resume PDF",
	}
}

func resumeTextFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "resume-text",
		Usage: "Resume as plain text instead of a PDF",
	}
}

// loadApp reads the config, builds the services and loads the corpus synchronously.
func loadApp(c *cli.Context) (*app.App, *zap.Logger, error) {
	var (
		cfg config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load(config.GetEnv())
	}
	if err != nil {
		return nil, nil, err
	}

	level := c.String("log-level")
	if level == "" {
		level = cfg.Logging.Level
	}
	logger, err := logpkg.NewLogger("cli", level)
	if err != nil {
		return nil, nil, err
	}

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := a.LoadCorpus(ctx); err != nil {
		a.Close()
		return nil, nil, fmt.Errorf("load corpus: %w", err)
	}
	return a, logger, nil
}

func readResume(c *cli.Context, a *app.App) (string, error) {
	if text := c.String("resume-text"); text != "" {
		return text, nil
	}
	path := c.String("resume")
	if path == "" {
		return "", fmt.Errorf("one of --resume or --resume-text is required")
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("read resume: %w", err)
	}
	return a.Extractor.Extract(c.Context, data)
}

func limits(cfg config.Config) chiTransport.Limits {
	return chiTransport.Limits{
		MatchedKeywords:   cfg.Matching.MatchedLimit,
		SuggestedKeywords: cfg.Matching.SuggestedLimit,
		ReferenceKeywords: cfg.Matching.ReferenceLimit,
	}
}

func printJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
