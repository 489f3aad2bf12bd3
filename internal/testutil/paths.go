package testutil

// Fixture paths relative to the repository root.
// These constants should be used instead of hardcoding paths in test files.
const (
	// TraceScenarioLeak allocates 10 and 20 bytes from a.c and frees the first.
	TraceScenarioLeak = "testdata/traces/scenario_leak.jsonl"

	// TraceScenarioDoubleFree releases a zero-byte block twice.
	TraceScenarioDoubleFree = "testdata/traces/scenario_double_free.jsonl"

	// TraceWildWrite writes one byte past a calloc'd payload and frees it.
	TraceWildWrite = "testdata/traces/wild_write.jsonl"

	// TraceClean exercises reuse and null frees without any misuse.
	TraceClean = "testdata/traces/clean.jsonl"

	// ConfigExample is a complete heapctl configuration.
	ConfigExample = "testdata/heapctl.toml"
)
