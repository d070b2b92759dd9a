package core

// streaming.go provides the line source for corpus files.
//
// Corpus files are tab-delimited, headerless and frequently contain bytes
// that are not valid UTF-8. The reader stack, outermost first:
//
//   - countingReader: tracks raw bytes consumed for progress reporting
//   - UTF-8 transform: strips a leading BOM and drops undecodable bytes
//   - bufio.Reader: yields one line at a time, of any length
//
// Rows with fewer than MinFields fields are skipped and counted.

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// MinFields is the minimum number of fields a row needs to be yielded.
const MinFields = 4

// Delimiter separates fields within a line.
const Delimiter = "\t"

// Row is one parsed line of a corpus file.
type Row struct {
	Line   int // 1-based line number in the file
	Fields []string
}

// LineSource lazily reads rows from a tab-delimited corpus file.
// It is not safe for concurrent use.
type LineSource struct {
	closer  io.Closer
	counter *countingReader
	reader  *bufio.Reader
	line    int
	short   int
	done    bool
}

// OpenLineSource opens the file at path. The caller must Close it.
// Reopening the same path restarts the sequence from the first row.
func OpenLineSource(path string) (*LineSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus file: %w", err)
	}

	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	src := NewLineSource(f, size)
	src.closer = f
	return src, nil
}

// NewLineSource reads rows from r. totalSize is used for progress and may
// be 0 when unknown.
func NewLineSource(r io.Reader, totalSize int64) *LineSource {
	counter := &countingReader{reader: r, total: totalSize}
	return &LineSource{
		counter: counter,
		reader:  bufio.NewReaderSize(transform.NewReader(counter, newUTF8Cleaner()), 64*1024),
	}
}

// newUTF8Cleaner strips a UTF-8 BOM and removes every byte sequence that
// does not decode, rather than replacing it.
func newUTF8Cleaner() transform.Transformer {
	return transform.Chain(
		unicode.UTF8BOM.NewDecoder(),
		runes.Remove(runes.Predicate(func(r rune) bool { return r == utf8.RuneError })),
	)
}

// Next returns the next row with at least MinFields fields.
// It returns io.EOF when the file is exhausted.
func (s *LineSource) Next() (Row, error) {
	for !s.done {
		text, err := s.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return Row{}, fmt.Errorf("read line %d: %w", s.line+1, err)
		}
		if errors.Is(err, io.EOF) {
			s.done = true
			if text == "" {
				break
			}
		}

		s.line++
		text = strings.TrimRight(text, "\r\n")

		fields := strings.Split(text, Delimiter)
		if len(fields) < MinFields {
			s.short++
			continue
		}

		return Row{Line: s.line, Fields: fields}, nil
	}

	return Row{}, io.EOF
}

// ShortRows returns how many rows were skipped for having too few fields.
func (s *LineSource) ShortRows() int {
	return s.short
}

// Lines returns how many lines have been consumed so far.
func (s *LineSource) Lines() int {
	return s.line
}

// BytesRead returns the raw bytes consumed from the underlying reader.
func (s *LineSource) BytesRead() int64 {
	return s.counter.read
}

// Size returns the total input size, or 0 if unknown.
func (s *LineSource) Size() int64 {
	return s.counter.total
}

// Close releases the underlying file, if any.
func (s *LineSource) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

// countingReader wraps an io.Reader to track bytes read.
type countingReader struct {
	reader io.Reader
	read   int64
	total  int64 // 0 if unknown
}

// Read implements io.Reader.
func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.read += int64(n)
	return n, err
}
