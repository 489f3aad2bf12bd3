package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var (
	leaksPprof  string
	leaksStrict bool
)

// errLeaks is returned by leaks --strict when blocks remain live.
var errLeaks = errors.New("leaks found")

func init() {
	cmd := newLeaksCmd()
	cmd.Flags().StringVar(&leaksPprof, "pprof", "", "Write live blocks as a pprof heap profile to this file")
	cmd.Flags().BoolVar(&leaksStrict, "strict", false, "Exit with status 1 when any block is still live")
	rootCmd.AddCommand(cmd)
}

func newLeaksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaks <trace>",
		Short: "List blocks still live after a trace",
		Long: `The leaks command replays a trace silently and prints one
LEAK CHECK line per block that was never released, in address order.

Example:
  heapctl leaks app.jsonl
  heapctl leaks app.jsonl --strict
  heapctl leaks app.jsonl --pprof leaks.pb.gz`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLeaks(args)
		},
	}
	return cmd
}

func runLeaks(args []string) error {
	s, _, err := replayTrace(args[0], io.Discard)
	if s != nil {
		defer s.Close()
	}
	if err != nil {
		return err
	}

	if leaksPprof != "" {
		if err := writeProfile(s.tracker, leaksPprof); err != nil {
			return err
		}
	}

	leaks := s.tracker.Leaks()
	if jsonOut {
		if err := printJSON(leaks); err != nil {
			return err
		}
	} else {
		if err := s.tracker.PrintLeakReport(infoWriter()); err != nil {
			return err
		}
		if humanOut && len(leaks) > 0 {
			var bytes uint64
			for _, l := range leaks {
				bytes += l.Size
			}
			printInfo("%s objects, %s leaked\n", formatCount(uint64(len(leaks))), formatBytes(bytes))
		}
	}

	if leaksStrict && len(leaks) > 0 {
		return fmt.Errorf("%w: %d blocks", errLeaks, len(leaks))
	}
	return nil
}
