package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

var logLevels = map[string]logrus.Level{
	"error": logrus.ErrorLevel,
	"warn":  logrus.WarnLevel,
	"info":  logrus.InfoLevel,
	"debug": logrus.DebugLevel,
	"trace": logrus.TraceLevel,
}

// newLogger builds the logger selected by --log-level and --log-file.
// Logs never go to stdout, which the language server reserves for
// protocol frames. The returned close function releases the log file.
func newLogger(cmd *cli.Command) (*logrus.Logger, func(), error) {
	level, ok := logLevels[cmd.String("log-level")]
	if !ok {
		return nil, nil, fmt.Errorf("invalid --log-level %q (want error, warn, info, debug or trace)", cmd.String("log-level"))
	}

	var out io.Writer = cmd.Root().ErrWriter
	if out == nil {
		out = os.Stderr
	}
	closeFn := func() {}
	if path := cmd.String("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeFn = func() { _ = f.Close() }
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})
	return logger, closeFn, nil
}
