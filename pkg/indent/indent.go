// Copyright 2015 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package indent indents lines of text with a prefix.  The indent package
// works on strings, byte slices, and io.Writers.
package indent

import (
	"bytes"
	"io"
	"strings"
)

// String returns s with each line in s prefixed by prefix.  A final line
// without a newline is prefixed as well, an empty final line is not.
func String(prefix, s string) string {
	if prefix == "" || s == "" {
		return s
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return prefix + strings.Join(lines, prefix)
}

// Bytes returns b with each line in b prefixed by prefix.
func Bytes(prefix, b []byte) []byte {
	if len(prefix) == 0 || len(b) == 0 {
		return b
	}
	lines := bytes.SplitAfter(b, []byte{'\n'})
	if len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	return append(append([]byte(nil), prefix...), bytes.Join(lines, prefix)...)
}

// A Writer prefixes every line written through it.
type Writer struct {
	w      io.Writer
	prefix []byte
	bol    bool // at the beginning of a line
}

// NewWriter returns an io.Writer that prefixes each line written to it with
// prefix and then writes it to w.  The writer returns the number of bytes of
// the caller's data written, not counting the prefixes.  NewWriter returns w
// itself when prefix is empty.
func NewWriter(w io.Writer, prefix string) io.Writer {
	if prefix == "" {
		return w
	}
	return &Writer{w: w, prefix: []byte(prefix), bol: true}
}

// Write writes buf to the underlying writer, prefixing each line.
func (w *Writer) Write(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	var out []byte
	var marks []int // offsets in out where a prefix starts
	bol := w.bol
	for _, line := range bytes.SplitAfter(buf, []byte{'\n'}) {
		if len(line) == 0 {
			continue
		}
		if bol {
			marks = append(marks, len(out))
			out = append(out, w.prefix...)
		}
		out = append(out, line...)
		bol = line[len(line)-1] == '\n'
	}
	n, err := w.w.Write(out)
	if err == nil && n == len(out) {
		w.bol = bol
		return len(buf), nil
	}
	if n > len(out) {
		n = len(out)
	}
	written := n
	for _, m := range marks {
		if m >= n {
			break
		}
		if p := n - m; p < len(w.prefix) {
			written -= p
		} else {
			written -= len(w.prefix)
		}
	}
	if written > 0 {
		w.bol = buf[written-1] == '\n'
	}
	if err == nil {
		err = io.ErrShortWrite
	}
	return written, err
}
