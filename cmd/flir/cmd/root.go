package cmd

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/flir-lint/flir/internal/version"
)

// NewApp creates the CLI application
func NewApp() *cli.Command {
	return &cli.Command{
		Name:    "flir",
		Usage:   "A linter and language server for R",
		Version: version.Version(),
		Description: `flir finds slow, fragile and unidiomatic R code.

It runs the same rules from the command line and inside your editor
through the Language Server Protocol.

Examples:
  flir check analysis.R
  flir check --select PERF --format json R/
  flir lsp --stdio`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level: error, warn, info, debug, trace",
				Value:   "info",
				Sources: cli.EnvVars("FLIR_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:      "log-file",
				Usage:     "Write logs to `FILE` instead of stderr",
				TakesFile: true,
			},
		},
		Commands: []*cli.Command{
			checkCommand(),
			lspCommand(),
			versionCommand(),
		},
	}
}

// Execute runs the CLI application
func Execute() error {
	return NewApp().Run(context.Background(), os.Args)
}
