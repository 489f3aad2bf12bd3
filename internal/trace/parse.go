// Package trace parses JSON-lines allocation traces and replays them against
// a heap.Tracker.
//
// One operation per line; blank lines and lines starting with '#' are skipped:
//
//	{"op":"malloc","id":"a","size":10,"file":"a.c","line":5}
//	{"op":"calloc","id":"b","count":4,"size":8,"file":"a.c","line":6}
//	{"op":"free","id":"a","file":"a.c","line":7}
//	{"op":"free","addr":"0x10008","file":"a.c","line":8}
//	{"op":"write","id":"b","offset":32,"byte":255}
//	{"op":"stats"}
//	{"op":"leaks"}
package trace

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/joshuapare/heapkit/heap"
)

// Kind is the operation named by the "op" field.
type Kind string

const (
	KindMalloc Kind = "malloc"
	KindCalloc Kind = "calloc"
	KindFree   Kind = "free"
	KindWrite  Kind = "write"
	KindStats  Kind = "stats"
	KindLeaks  Kind = "leaks"
)

// Op is one parsed trace line.
type Op struct {
	Line int // 1-based line in the trace
	Kind Kind

	ID      string    // names the block for later ops
	Addr    heap.Addr // literal address (free only), valid when HasAddr
	HasAddr bool

	Size   uint64 // malloc size, or calloc element size
	Count  uint64 // calloc element count
	Offset uint64 // write offset from the block start
	Byte   byte   // write value

	Site heap.Site
}

// ParseError reports a malformed trace line.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("trace line %d: %s", e.Line, e.Msg)
}

// Parse reads every operation from r.
func Parse(r io.Reader) ([]Op, error) {
	var ops []Op
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	line := 0
	for sc.Scan() {
		line++
		data := bytes.TrimSpace(sc.Bytes())
		if len(data) == 0 || data[0] == '#' {
			continue
		}
		op, err := ParseLine(line, data)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("trace: read: %w", err)
	}
	return ops, nil
}

// ParseLine parses a single JSON object.
func ParseLine(line int, data []byte) (Op, error) {
	if !gjson.ValidBytes(data) {
		return Op{}, &ParseError{Line: line, Msg: "invalid JSON"}
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return Op{}, &ParseError{Line: line, Msg: "expected a JSON object"}
	}

	op := Op{
		Line: line,
		Kind: Kind(doc.Get("op").String()),
		ID:   doc.Get("id").String(),
		Site: heap.Site{File: doc.Get("file").String(), Line: int(doc.Get("line").Int())},
	}

	var err error
	switch op.Kind {
	case KindMalloc:
		err = requireID(&op)
		if err == nil {
			op.Size, err = uintField(doc, "size", line)
		}
	case KindCalloc:
		err = requireID(&op)
		if err == nil {
			op.Count, err = uintField(doc, "count", line)
		}
		if err == nil {
			op.Size, err = uintField(doc, "size", line)
		}
	case KindFree:
		if a := doc.Get("addr"); a.Exists() {
			op.Addr, err = parseAddr(a, line)
			op.HasAddr = err == nil
		} else {
			err = requireID(&op)
		}
	case KindWrite:
		err = requireID(&op)
		if err == nil {
			op.Offset, err = uintField(doc, "offset", line)
		}
		if err == nil {
			var b uint64
			b, err = uintField(doc, "byte", line)
			if err == nil && b > 0xFF {
				err = &ParseError{Line: line, Msg: fmt.Sprintf("byte %d out of range", b)}
			}
			op.Byte = byte(b)
		}
	case KindStats, KindLeaks:
	case "":
		err = &ParseError{Line: line, Msg: `missing "op"`}
	default:
		err = &ParseError{Line: line, Msg: fmt.Sprintf("unknown op %q", op.Kind)}
	}
	if err != nil {
		return Op{}, err
	}
	return op, nil
}

func requireID(op *Op) error {
	if op.ID == "" {
		return &ParseError{Line: op.Line, Msg: fmt.Sprintf(`%s needs an "id"`, op.Kind)}
	}
	return nil
}

// uintField reads a required non-negative integer field. gjson parses numbers
// as float64, so integers above 2^53 are read from the raw text instead.
func uintField(doc gjson.Result, key string, line int) (uint64, error) {
	v := doc.Get(key)
	if !v.Exists() {
		return 0, &ParseError{Line: line, Msg: fmt.Sprintf("missing %q", key)}
	}
	if v.Type != gjson.Number {
		return 0, &ParseError{Line: line, Msg: fmt.Sprintf("%q must be a number", key)}
	}
	n, err := strconv.ParseUint(v.Raw, 10, 64)
	if err != nil {
		return 0, &ParseError{Line: line, Msg: fmt.Sprintf("%q: %v", key, err)}
	}
	return n, nil
}

// parseAddr accepts a number or a string holding hex ("0x...") or decimal.
func parseAddr(v gjson.Result, line int) (heap.Addr, error) {
	var s string
	switch v.Type {
	case gjson.Number:
		s = v.Raw
	case gjson.String:
		s = strings.TrimSpace(v.String())
	default:
		return 0, &ParseError{Line: line, Msg: `"addr" must be a number or string`}
	}
	n, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, &ParseError{Line: line, Msg: fmt.Sprintf("addr %q: %v", s, err)}
	}
	return heap.Addr(n), nil
}
