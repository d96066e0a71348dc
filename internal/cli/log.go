// Package cli implements the liquidglass command-line interface.
//
// The commands wrap the displacement map pipeline: generating textures and
// filter chains from presets, inspecting textures, tuning a configuration
// interactively and serving the pipeline over HTTP. The CLI is built using
// cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - generate: Write the texture, data URI, filter chain or rasterised output
//   - presets: List the built-in presets
//   - inspect: Check the structure of a texture or data URI
//   - chain: Draw the filter chain as a graph
//   - tune: Adjust a configuration interactively and export it as TOML
//   - serve: Run the HTTP API
//   - cache: Manage the on-disk cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which shows
// each pipeline step with its parameters. Loggers are passed through
// context.Context.
//
// # Example
//
//	import "github.com/matzehuels/liquidglass/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
)

// logTimeFormat keeps timestamps short enough to sit beside a spinner line.
const logTimeFormat = "15:04:05.00"

// newLogger returns the logger shared by every command. Pipeline steps log
// at debug level, so level decides whether --verbose output is shown.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
		Level:           level,
	})
}

type loggerKey struct{}

// withLogger attaches l to ctx. The root command does this before any
// subcommand runs.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
