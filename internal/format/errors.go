package format

import "errors"

// ErrTruncated indicates the buffer lacked the bytes required for a word.
var ErrTruncated = errors.New("format: truncated buffer")
