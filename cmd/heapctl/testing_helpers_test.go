package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testTracePath returns the path to a trace under testdata/traces
func testTracePath(t *testing.T, name string) string {
	t.Helper()
	// Go up two directories from cmd/heapctl to repo root
	path := filepath.Join("..", "..", "testdata", "traces", name)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("test file not found: %s", path)
	}
	return path
}

// writeTrace writes body to a temporary trace file
func writeTrace(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.jsonl")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write trace: %v", err)
	}
	return path
}

// resetFlags restores every flag to its default and redirects output
// into the returned buffers
func resetFlags(t *testing.T) (out, errOut *bytes.Buffer) {
	t.Helper()
	configPath = ""
	verbose, quiet, jsonOut, humanOut = false, false, false, false
	runVerify, runPprof, runTop = false, "", 0
	statsArena = false
	leaksPprof, leaksStrict = "", false

	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}
	stdout, stderr = out, errOut
	t.Cleanup(func() {
		stdout, stderr = os.Stdout, os.Stderr
	})
	if err := initLogging(); err != nil {
		t.Fatalf("initLogging: %v", err)
	}
	return out, errOut
}

// assertJSON checks that output is valid JSON and decodes it into v
func assertJSON(t *testing.T, output string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(output), v); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// assertNotContains checks that output doesn't contain unwanted strings
func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, dont := range unwanted {
		if strings.Contains(output, dont) {
			t.Errorf("output contains unwanted string %q\nGot: %s", dont, output)
		}
	}
}
