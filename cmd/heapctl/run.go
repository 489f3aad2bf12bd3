package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/internal/trace"
)

var (
	runVerify bool
	runPprof  string
	runTop    int
)

func init() {
	cmd := newRunCmd()
	cmd.Flags().BoolVar(&runVerify, "verify", false, "Check heap invariants after the trace")
	cmd.Flags().StringVar(&runPprof, "pprof", "", "Write live blocks as a pprof heap profile to this file")
	cmd.Flags().IntVar(&runTop, "top", 0, "Report the N call sites holding the most live bytes")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <trace>",
		Short: "Replay a trace",
		Long: `The run command replays a JSON-lines trace. "stats" and "leaks"
operations print as they are reached. The first misuse stops the replay with
a MEMORY BUG diagnostic and exit status 1.

Example:
  heapctl run app.jsonl
  heapctl run app.jsonl --verify --top 5
  heapctl run app.jsonl --pprof leaks.pb.gz`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(args)
		},
	}
	return cmd
}

// runSummary is the --json output of run.
type runSummary struct {
	Trace      string            `json:"trace"`
	Ops        int               `json:"ops"`
	Failed     int               `json:"failed_allocations"`
	Statistics heap.Statistics   `json:"statistics"`
	Leaks      []heap.LeakRecord `json:"leaks"`
}

func runRun(args []string) error {
	path := args[0]

	var opts []heap.Option
	if runTop > 0 {
		opts = append(opts, heap.WithHeavyHitterReporter(topSites{n: runTop}))
	}

	out := infoWriter()
	if jsonOut {
		out = io.Discard
	}

	s, res, err := replayTrace(path, out, opts...)
	if s != nil {
		defer s.Close()
	}
	if err != nil {
		return err
	}
	printVerbose("Replayed %d operations (%d failed allocations)\n", res.Ops, res.Failed)

	if runVerify {
		if err := verify.AllInvariants(s.tracker); err != nil {
			return fmt.Errorf("verify: %w", err)
		}
		printVerbose("Heap invariants hold\n")
	}
	if runPprof != "" {
		if err := writeProfile(s.tracker, runPprof); err != nil {
			return err
		}
	}

	if jsonOut {
		return printJSON(runSummary{
			Trace:      path,
			Ops:        res.Ops,
			Failed:     res.Failed,
			Statistics: s.tracker.Statistics(),
			Leaks:      s.tracker.Leaks(),
		})
	}
	return s.tracker.PrintHeavyHitterReport(out)
}

// replayTrace opens a session and runs path through it. The session is
// returned even when the replay fails so callers can close it.
func replayTrace(path string, out io.Writer, opts ...heap.Option) (*session, trace.Result, error) {
	s, err := openSession(opts...)
	if err != nil {
		return nil, trace.Result{}, err
	}
	printVerbose("Replaying trace: %s\n", path)
	res, err := trace.ReplayFile(path, s.tracker, out)
	return s, res, err
}

// writeProfile writes the tracker's live blocks to path as a pprof profile.
func writeProfile(t *heap.Tracker, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pprof: %w", err)
	}
	if err := t.WriteLeakProfile(f); err != nil {
		f.Close()
		return fmt.Errorf("pprof: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("pprof: %w", err)
	}
	printVerbose("Wrote leak profile: %s\n", path)
	return nil
}
