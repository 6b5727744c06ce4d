package main

import (
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/omarluq/authgate/internal/config"
	"github.com/omarluq/authgate/internal/redact"
)

var (
	redactFields    []string
	redactToken     string
	redactSeparator string
)

var redactCmd = &cobra.Command{
	Use:   "redact",
	Short: "Redact PII fields from log lines on stdin",
	Long: `Read "key=value<sep>" log lines from stdin and write them to stdout with
the values of the selected fields replaced by the redaction token.

Without flags, the logging.redact settings of the config file are used, or
the built-in PII fields when there is no config file.`,
	Example: `  echo "name=bob;email=bob@dylan.com;date=03/04/19;" | authgate redact
  authgate redact --fields email,ssn --token "[x]" < app.log`,
	Args: cobra.NoArgs,
	RunE: runRedact,
}

func init() {
	redactCmd.Flags().StringSliceVar(&redactFields, "fields", redact.PIIFields, "field names to redact")
	redactCmd.Flags().StringVar(&redactToken, "token", redact.DefaultToken, "replacement for redacted values")
	redactCmd.Flags().StringVar(&redactSeparator, "separator", string(redact.DefaultSeparator),
		"single-character field separator")
	rootCmd.AddCommand(redactCmd)
}

func runRedact(cmd *cobra.Command, _ []string) error {
	r, err := redactorFor(cmd)
	if err != nil {
		return err
	}
	return redact.Stream(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), r)
}

// redactorFor starts from the config file's redact settings, when a config
// file is found, and applies any flag the user set explicitly.
func redactorFor(cmd *cobra.Command) (*redact.Redactor, error) {
	var settings config.RedactConfig
	if path := resolveConfigPath(); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		settings = cfg.Logging.Redact
	} else {
		settings = config.Default().Logging.Redact
	}

	flags := cmd.Flags()
	if flags.Changed("fields") {
		settings.Fields = redactFields
	}
	if flags.Changed("token") {
		settings.Token = redactToken
	}
	if flags.Changed("separator") {
		if utf8.RuneCountInString(redactSeparator) != 1 {
			return nil, fmt.Errorf("separator must be a single character (got %q)", redactSeparator)
		}
		settings.Separator = redactSeparator
	}

	return settings.NewRedactor(), nil
}
