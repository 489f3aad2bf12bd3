package heap

import "log/slog"

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger for allocation failures (Debug) and misuse
// (Warn). Default: the process logger from internal/logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.log = l
		}
	}
}

// WithMisuseHandler installs fn to run on every misuse before Release
// returns the error. A harness that wants fail-fast behavior exits from fn.
func WithMisuseHandler(fn func(*MisuseError)) Option {
	return func(t *Tracker) {
		t.onMisuse = fn
	}
}

// WithHeavyHitterReporter sets the reporter PrintHeavyHitterReport delegates to.
func WithHeavyHitterReporter(r HeavyHitterReporter) Option {
	return func(t *Tracker) {
		t.heavy = r
	}
}
