package backend

import (
	"bufio"
	"io"
)

// lineReader is a reader that only ever yields entire newline-delimited lines.
// A file that is still being appended to can be parsed as CSV through it
// without ever attempting to parse a partial row. At the end of the
// underlying data it reports io.EOF and keeps the partial line for the next
// read.
type lineReader struct {
	r       *bufio.Reader
	partial []byte
	pending []byte
}

var _ io.Reader = (*lineReader)(nil)

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{
		r: bufio.NewReader(r),
	}
}

func (l *lineReader) Read(b []byte) (int, error) {
	if len(l.pending) == 0 {
		data, err := l.r.ReadBytes('\n')
		l.partial = append(l.partial, data...)
		if err != nil {
			if err == io.EOF {
				return 0, io.EOF
			}
			return 0, err
		}
		l.pending, l.partial = l.partial, nil
	}
	n := copy(b, l.pending)
	l.pending = l.pending[n:]
	return n, nil
}
