// Package codec maps repository contents to and from the line-oriented,
// comma-delimited record files. Each record is one line with no header.
// Decoding is tolerant per record: a bad line is reported and skipped, and
// the rest of the input still loads.
package codec

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	appErrors "github.com/noah-isme/college-roster/pkg/errors"
)

// NoTeacher marks a classroom row without a teacher.
const NoTeacher = "null"

const maxLineBytes = 1 << 20

// RecordError describes a skipped input line.
type RecordError struct {
	Line int
	Raw  string
	Err  error
}

func (e RecordError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e RecordError) Unwrap() error {
	return e.Err
}

// Batch holds the records decoded from one file.
type Batch[T any] struct {
	Records []T
	Skipped []RecordError
	// Dropped counts link references that did not resolve while decoding.
	Dropped int
}

func malformed(format string, args ...interface{}) error {
	return appErrors.Clone(appErrors.ErrMalformedRecord, fmt.Sprintf(format, args...))
}

// decodeLines feeds every non-blank line of r to parse. Parse failures and
// overlong lines are collected as skipped; only a failure of r itself is
// returned, and then no batch is returned with it.
func decodeLines[T any](r io.Reader, parse func(fields []string, b *Batch[T]) (T, error)) (*Batch[T], error) {
	batch := &Batch[T]{}
	reader := bufio.NewReaderSize(r, 64*1024)

	lineNo := 0
	for {
		line, tooLong, err := readLine(reader)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, appErrors.WrapKind(err, appErrors.ErrIOFailure, "read records")
		}
		lineNo++
		if tooLong {
			batch.Skipped = append(batch.Skipped, RecordError{
				Line: lineNo,
				Raw:  preview(line),
				Err:  malformed("line exceeds %d bytes", maxLineBytes),
			})
			continue
		}
		raw := strings.TrimRight(string(line), "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}
		fields, err := splitLine(raw)
		if err != nil {
			batch.Skipped = append(batch.Skipped, RecordError{Line: lineNo, Raw: raw, Err: err})
			continue
		}
		record, err := parse(fields, batch)
		if err != nil {
			batch.Skipped = append(batch.Skipped, RecordError{Line: lineNo, Raw: raw, Err: err})
			continue
		}
		batch.Records = append(batch.Records, record)
	}
	return batch, nil
}

// readLine returns the next line without its terminator. A line longer than
// maxLineBytes is consumed to its end and reported as tooLong with only its
// head kept. io.EOF is returned only when no line is left.
func readLine(reader *bufio.Reader) (line []byte, tooLong bool, err error) {
	started := false
	for {
		chunk, isPrefix, err := reader.ReadLine()
		if err != nil {
			if err == io.EOF && started {
				return line, tooLong, nil
			}
			return nil, false, err
		}
		started = true
		if !tooLong {
			if len(line)+len(chunk) > maxLineBytes {
				tooLong = true
			} else {
				line = append(line, chunk...)
			}
		}
		if !isPrefix {
			return line, tooLong, nil
		}
	}
}

func preview(line []byte) string {
	const n = 64
	if len(line) > n {
		return string(line[:n]) + "..."
	}
	return string(line)
}

// splitLine parses a single line on its own so that a broken quote cannot
// swallow the lines after it.
func splitLine(line string) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(line))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	fields, err := reader.Read()
	if err != nil {
		return nil, appErrors.WrapKind(err, appErrors.ErrMalformedRecord, "unreadable line")
	}
	return fields, nil
}

func writeRows(w io.Writer, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(rows); err != nil {
		return appErrors.WrapKind(err, appErrors.ErrIOFailure, "write records")
	}
	return nil
}

func parseInt(field, column string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(field))
	if err != nil {
		return 0, appErrors.WrapKind(err, appErrors.ErrMalformedRecord, "invalid "+column)
	}
	return v, nil
}

// text keeps a value on a single line.
func text(value string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(value)
}
