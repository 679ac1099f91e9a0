// Package ndjson reads and writes newline-delimited JSON, one value per line.
package ndjson

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
)

const maxLine = 4 << 20

// Read decodes every non-blank line of r into a T and hands it to fn, stopping at the
// first decode or callback error. It returns the number of values handed to fn.
func Read[T any](r io.Reader, fn func(T) error) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	n, line := 0, 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		var v T
		if err := json.Unmarshal(b, &v); err != nil {
			return n, eris.Wrapf(err, "ndjson: line %d", line)
		}
		if err := fn(v); err != nil {
			return n, err
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return n, eris.Wrapf(err, "ndjson: after line %d", line)
	}
	return n, nil
}

// Writer encodes values one per line.
type Writer struct {
	bw  *bufio.Writer
	enc *json.Encoder
	n   int
}

// NewWriter creates a Writer on w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	return &Writer{bw: bw, enc: enc}
}

// Write appends v as one line.
func (w *Writer) Write(v any) error {
	if err := w.enc.Encode(v); err != nil {
		return eris.Wrap(err, "ndjson: encode")
	}
	w.n++
	return nil
}

// Count returns the number of values written.
func (w *Writer) Count() int { return w.n }

// Flush writes buffered lines to the underlying writer.
func (w *Writer) Flush() error {
	if err := w.bw.Flush(); err != nil {
		return eris.Wrap(err, "ndjson: flush")
	}
	return nil
}
