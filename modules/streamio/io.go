// Package streamio holds the one buffered-read helper the registry's
// config loader needs, trimmed from the teacher's fuller streamio
// package (byte/buffer pooling, zstd/zlib codec helpers) down to the
// single function anything here calls.
package streamio

import (
	"bytes"
	"io"
)

// GrowReadMax reads at most n bytes from r into a buffer pre-grown to
// grow bytes (or n, if grow isn't positive).
func GrowReadMax(r io.Reader, n int64, grow int) ([]byte, error) {
	var buf bytes.Buffer
	if grow <= 0 {
		grow = int(n)
	}
	buf.Grow(grow)
	if _, err := buf.ReadFrom(io.LimitReader(r, n)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
