package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/autolife/feedsync/pkg/logging"
)

// NewLogger creates the CLI logger. Log level precedence (highest to
// lowest):
//  1. --log-level flag (explicit always wins)
//  2. -v/--verbose (shortcut for debug)
//  3. -q/--quiet (shortcut for warn)
//  4. LOG_LEVEL environment variable / config file
//  5. Default (info)
func NewLogger(cfg *Config) zerolog.Logger {
	return logging.NewFromConfig(&logging.Config{
		Level:   determineLogLevel(cfg),
		Format:  cfg.LogFormat,
		Output:  cfg.LogOutput,
		NoColor: cfg.NoColor,
	})
}

func determineLogLevel(cfg *Config) string {
	if cfg.LogLevel != "" {
		return validateLogLevel(cfg.LogLevel)
	}

	if cfg.Verbose && cfg.Quiet {
		fmt.Fprintln(os.Stderr, "Warning: both --verbose and --quiet specified, using --quiet")
		return "warn"
	}
	if cfg.Verbose {
		return "debug"
	}
	if cfg.Quiet {
		return "warn"
	}

	return "info"
}

// validateLogLevel returns level when valid, "info" otherwise.
func validateLogLevel(level string) string {
	switch level {
	case "trace", "debug", "info", "warn", "error", "disabled":
		return level
	}
	fmt.Fprintf(os.Stderr, "Warning: invalid log level %q, using \"info\"\n", level)
	return "info"
}
