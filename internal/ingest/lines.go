package ingest

import (
	"bytes"
	"io"
)

const readChunkSize = 512

// lineReader splits a timeout-polled stream into lines. A zero-byte read is
// a poll tick, not EOF, and any partial line is kept until its newline
// arrives. bufio.Scanner treats repeated empty reads as io.ErrNoProgress,
// which is the normal idle state of a serial port.
type lineReader struct {
	r          io.Reader
	buf        []byte
	chunk      []byte
	maxLength  int
	discarding bool
}

func newLineReader(r io.Reader, maxLength int) *lineReader {
	return &lineReader{
		r:         r,
		chunk:     make([]byte, readChunkSize),
		maxLength: maxLength,
	}
}

// next returns the next complete line with surrounding whitespace removed.
// ok is false when the read timed out without completing a line.
// errLineTooLong is returned once for every line dropped for its length;
// any other error comes from the underlying reader.
func (lr *lineReader) next() (line string, ok bool, err error) {
	for {
		if i := bytes.IndexByte(lr.buf, '\n'); i >= 0 {
			skip := lr.discarding
			tooLong := !skip && i > lr.maxLength
			lr.discarding = false

			if !skip && !tooLong {
				line = string(bytes.TrimSpace(lr.buf[:i]))
			}
			lr.buf = append(lr.buf[:0], lr.buf[i+1:]...)

			switch {
			case skip:
				continue
			case tooLong:
				return "", false, errLineTooLong
			}
			return line, true, nil
		}

		if len(lr.buf) > lr.maxLength {
			lr.buf = lr.buf[:0]
			if !lr.discarding {
				lr.discarding = true
				return "", false, errLineTooLong
			}
		}

		n, readErr := lr.r.Read(lr.chunk)
		lr.buf = append(lr.buf, lr.chunk[:n]...)
		if readErr != nil {
			return "", false, readErr
		}
		if n == 0 {
			return "", false, nil
		}
	}
}
