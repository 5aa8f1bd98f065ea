// Package trace feeds memory address traces into caches and records what the
// caches do with them.
package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrOpenTrace is returned when the trace file cannot be opened.
var ErrOpenTrace = errors.New("cannot open trace")

// A ParseError reports a trace line that is not a hexadecimal address.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("trace line %d: %q is not a hexadecimal address: %v",
		e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var errEmptyAddress = errors.New("empty address")

// Reader reads one hexadecimal address per line. An optional 0x prefix and
// surrounding white space are allowed. Reading stops at the first line that
// cannot be parsed; such lines are never skipped.
type Reader struct {
	scanner *bufio.Scanner
	line    int
	err     error
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// Next returns the next address. It returns false when the trace is exhausted
// or an error occurred; Err tells which.
func (r *Reader) Next() (uint64, bool) {
	if r.err != nil {
		return 0, false
	}

	if !r.scanner.Scan() {
		r.err = r.scanner.Err()
		return 0, false
	}

	r.line++

	text := r.scanner.Text()

	address, err := ParseAddress(text)
	if err != nil {
		r.err = &ParseError{Line: r.line, Text: text, Err: err}
		return 0, false
	}

	return address, true
}

// Err returns the first error met while reading, or nil at a clean end of
// trace.
func (r *Reader) Err() error {
	return r.err
}

// Line returns the number of lines consumed so far.
func (r *Reader) Line() int {
	return r.line
}

// ParseAddress converts a single trace entry to an address.
func ParseAddress(text string) (uint64, error) {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}

	if s == "" {
		return 0, errEmptyAddress
	}

	return strconv.ParseUint(s, 16, 64)
}

// A FileReader is a Reader that owns the trace file it reads.
type FileReader struct {
	*Reader

	file *os.File
}

// OpenFile opens a trace file for reading.
func OpenFile(path string) (*FileReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenTrace, err)
	}

	r := &FileReader{
		Reader: NewReader(f),
		file:   f,
	}

	return r, nil
}

// Close closes the trace file.
func (r *FileReader) Close() error {
	return r.file.Close()
}
