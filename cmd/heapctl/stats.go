package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/raw"
)

var statsArena bool

func init() {
	cmd := newStatsCmd()
	cmd.Flags().BoolVar(&statsArena, "arena", false, "Also show raw arena statistics")
	rootCmd.AddCommand(cmd)
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <trace>",
		Short: "Show allocation statistics after a trace",
		Long: `The stats command replays a trace silently and prints the final
allocation counters.

Example:
  heapctl stats app.jsonl
  heapctl stats app.jsonl --human --arena
  heapctl stats app.jsonl --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(args)
		},
	}
	return cmd
}

// statsReport is the --json output of stats.
type statsReport struct {
	Trace      string          `json:"trace"`
	Statistics heap.Statistics `json:"statistics"`
	Arena      *raw.Stats      `json:"arena,omitempty"`
}

func runStats(args []string) error {
	s, _, err := replayTrace(args[0], io.Discard)
	if s != nil {
		defer s.Close()
	}
	if err != nil {
		return err
	}
	st := s.tracker.Statistics()

	if jsonOut {
		r := statsReport{Trace: args[0], Statistics: st}
		if statsArena {
			as := s.arena.Stats()
			r.Arena = &as
		}
		return printJSON(r)
	}

	w := infoWriter()
	if err := printStatistics(w, st); err != nil {
		return err
	}
	if statsArena {
		return s.arena.PrintStats(w)
	}
	return nil
}
