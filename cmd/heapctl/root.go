package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/raw"
	"github.com/joshuapare/heapkit/internal/config"
	"github.com/joshuapare/heapkit/internal/logger"
)

var (
	// Global flags
	configPath string
	verbose    bool
	quiet      bool
	jsonOut    bool
	humanOut   bool

	// stdout and stderr are swapped out by tests.
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

var rootCmd = &cobra.Command{
	Use:   "heapctl",
	Short: "Replay allocation traces through a checking heap",
	Long: `heapctl replays JSON-lines allocation traces through a tracking heap.
Every block carries a canary; releases are checked for double frees, wild
writes and pointers the heap never handed out. Live blocks at the end of a
trace are reported as leaks.`,
	Version:       "0.1.0",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a heapctl.toml file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and debug logging")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&humanOut, "human", false, "Group digits and humanize byte counts")
}

func execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}
	if _, ok := heap.IsMisuse(err); ok {
		heap.Report(stderr, err)
		return 1
	}
	fmt.Fprintln(stderr, err)
	return 1
}

// loadConfig reads --config, or the defaults when it is unset.
func loadConfig() (config.Config, error) {
	return config.Load(configPath)
}

// initLogging applies the [log] table; --verbose forces debug output to stderr.
func initLogging() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts, err := cfg.LoggerOptions()
	if err != nil {
		return err
	}
	if verbose {
		opts.Enabled = true
		opts.Level = slog.LevelDebug
	}
	opts.Stderr = stderr
	return logger.Init(opts)
}

// session is a tracker over the configured arena.
type session struct {
	tracker *heap.Tracker
	arena   *raw.Arena
}

func (s *session) Close() error { return s.arena.Close() }

// openSession builds the allocator stack from --config.
func openSession(opts ...heap.Option) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	alloc, arena, err := cfg.Allocator()
	if err != nil {
		return nil, err
	}
	printVerbose("Arena: %s\n", arena.Stats().Sizes)
	return &session{tracker: heap.New(alloc, opts...), arena: arena}, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// infoWriter is stdout, or io.Discard in quiet mode.
func infoWriter() io.Writer {
	if quiet {
		return io.Discard
	}
	return stdout
}
