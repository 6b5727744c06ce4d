// Package logging builds the process logger from configuration. Every
// logger it returns redacts sensitive fields before anything is written.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/omarluq/authgate/internal/config"
	"github.com/omarluq/authgate/internal/redact"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New creates a zerolog.Logger from cfg. The returned Closer releases the
// log file when output is a file path and is a no-op otherwise.
func New(cfg config.LoggingConfig) (zerolog.Logger, io.Closer, error) {
	output, outputFile, err := selectOutput(cfg.Output)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("logging: open output: %w", err)
	}

	var closer io.Closer = nopCloser{}
	if outputFile != nil && outputFile != os.Stdout && outputFile != os.Stderr {
		closer = outputFile
	}

	return NewWithWriter(cfg, output, shouldUsePretty(cfg, outputFile)), closer, nil
}

// NewWithWriter creates a logger writing to out. Events pass through the
// redacting writer, then through a console writer when pretty is set.
func NewWithWriter(cfg config.LoggingConfig, out io.Writer, pretty bool) zerolog.Logger {
	if pretty {
		out = buildConsoleWriter(out)
	}
	out = redact.NewJSONWriter(out, cfg.Redact.NewRedactor())

	return zerolog.New(out).
		Level(cfg.ParseLevel()).
		With().
		Timestamp().
		Logger()
}

// selectOutput returns the output writer and file handle for the given output config.
func selectOutput(outputCfg string) (io.Writer, *os.File, error) {
	switch outputCfg {
	case "", "stdout":
		return os.Stdout, os.Stdout, nil
	case "stderr":
		return os.Stderr, os.Stderr, nil
	default:
		f, err := os.OpenFile(filepath.Clean(outputCfg), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, nil, err
		}
		return f, f, nil
	}
}

// shouldUsePretty determines if pretty console output should be used.
// An explicit pretty flag or format wins; json never is; anything else
// follows whether the output is a terminal.
func shouldUsePretty(cfg config.LoggingConfig, outputFile *os.File) bool {
	if cfg.Pretty {
		return true
	}

	switch cfg.Format {
	case "pretty":
		return true
	case "json":
		return false
	default:
		return outputFile != nil && isatty.IsTerminal(outputFile.Fd())
	}
}

func buildConsoleWriter(output io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:             output,
		TimeFormat:      "15:04:05",
		FormatLevel:     formatLevel,
		FormatMessage:   formatMessage,
		FormatFieldName: formatFieldName,
		FormatFieldValue: func(i any) string {
			return fmt.Sprintf("%s", i)
		},
	}
}

var levelColors = map[string]string{
	"debug": "\033[36mDBG\033[0m",
	"info":  "\033[32mINF\033[0m",
	"warn":  "\033[33mWRN\033[0m",
	"error": "\033[31mERR\033[0m",
	"fatal": "\033[35mFTL\033[0m",
	"panic": "\033[35mPNC\033[0m",
}

func formatLevel(i any) string {
	level, ok := i.(string)
	if !ok {
		return ""
	}
	if colored, exists := levelColors[level]; exists {
		return colored
	}
	return level
}

func formatMessage(i any) string {
	if i == nil {
		return ""
	}
	return fmt.Sprintf("-> %s", i)
}

func formatFieldName(i any) string {
	return fmt.Sprintf("\033[2m%s=\033[0m", i)
}
