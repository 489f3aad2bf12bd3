//go:build unix

// Package mmfile provides platform-specific helpers for reserving anonymous
// memory regions that back raw arena spans.
package mmfile
