// Package cli implements the curnav command-line interface.
//
// The commands load a curriculum table, build its prerequisite graph and
// query or render it. The CLI is built using cobra and logs with
// charmbracelet/log; command output goes to [CLI.Out] and log lines to the
// writer given to [New].
//
// # Commands
//
// The main commands are:
//   - inspect: Dataset statistics and data-quality issues
//   - reach: Prerequisites and dependents of one module
//   - filter: Credit summary of a semester/tag/group filter
//   - render: Network plots as SVG, PNG, PDF, DOT or JSON
//   - explore: Interactive terminal navigator
//   - serve: HTTP API for interactive front ends
//   - store: Push and pull normalized datasets to MongoDB
//
// # Configuration
//
// Every command reads the YAML file given by --config (or the per-user
// default) with CURNAV_* environment overrides. --verbose (-v) enables
// debug logging and wins over the configured log level.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Loaded modules (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
