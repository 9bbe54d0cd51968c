package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"

	"github.com/flir-lint/flir/internal/config"
	"github.com/flir-lint/flir/internal/linter"
	"github.com/flir-lint/flir/internal/reporter"
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Check R files for issues",
		ArgsUsage: "[PATH...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json",
				Value:   "text",
			},
			&cli.StringSliceFlag{
				Name:  "select",
				Usage: "Rule codes or categories to enable (replaces the configured selection)",
			},
			&cli.StringSliceFlag{
				Name:  "ignore",
				Usage: "Rule codes or categories to disable",
			},
			&cli.StringFlag{
				Name:  "color",
				Usage: "Colorize text output: auto, always, never",
				Value: "auto",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := reporter.ParseFormat(cmd.String("format"))
			if err != nil {
				return err
			}
			logger, closeLog, err := newLogger(cmd)
			if err != nil {
				return err
			}
			defer closeLog()
			if ci := config.CIName(); ci != "" {
				logger.WithField("ci", ci).Debug("running in CI")
			}

			files, err := linter.CollectFiles(cmd.Args().Slice())
			if err != nil {
				return fmt.Errorf("collect files: %w", err)
			}

			engine := linter.New(
				linter.WithLogger(logger),
				linter.WithOverrides(selectionOverrides(cmd)),
			)
			results := make([]*linter.FileResult, 0, len(files))
			for _, file := range files {
				res, err := engine.LintFile(ctx, file)
				if err != nil {
					return err
				}
				results = append(results, res)
			}

			out := cmd.Root().Writer
			color := config.ColorEnabled(cmd.String("color"), isTerminal(out))
			if err := reporter.Write(out, format, results, reporter.Options{Color: color}); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			if reporter.CountIssues(results) > 0 {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

// selectionOverrides turns --select/--ignore into config overrides. Each
// flag value may itself be comma separated.
func selectionOverrides(cmd *cli.Command) map[string]any {
	overrides := map[string]any{}
	if cmd.IsSet("select") {
		overrides["lint.select"] = splitList(cmd.StringSlice("select"))
	}
	if cmd.IsSet("ignore") {
		overrides["lint.ignore"] = splitList(cmd.StringSlice("ignore"))
	}
	return overrides
}

func splitList(values []string) []string {
	out := []string{}
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
