package backend

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func expectToRead(t *testing.T, reader io.Reader, expected []byte) {
	t.Helper()
	var scratch [1024]byte
	n, err := reader.Read(scratch[:])
	if err != nil {
		t.Errorf("expected read to succeed, got: %v", err)
	} else if !bytes.Equal(scratch[:n], expected) {
		t.Errorf("expected read to yield %q, got: %q", expected, scratch[:n])
	}
}

func expectReadEOF(t *testing.T, reader io.Reader) {
	t.Helper()
	var scratch [1024]byte
	n, err := reader.Read(scratch[:])
	if !errors.Is(err, io.EOF) {
		t.Errorf("expected read to give EOF, got: %v", err)
	} else if n != 0 {
		t.Errorf("expected read to read nothing, read %q", scratch[:n])
	}
}

func TestLineReader(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	buf.WriteString("date,total\n")
	buf.WriteString("2018-07-24T20:00:00Z,0\n")
	l := newLineReader(buf)
	expectToRead(t, l, []byte("date,total\n"))
	expectToRead(t, l, []byte("2018-07-24T20:00:00Z,0\n"))
	buf.WriteString("2018-07-27T05:36:00Z")
	expectReadEOF(t, l)
	buf.WriteString(",15\n")
	expectToRead(t, l, []byte("2018-07-27T05:36:00Z,15\n"))
	buf.WriteString("foo")
	expectReadEOF(t, l)
	buf.WriteString("bar")
	expectReadEOF(t, l)
	buf.WriteString("bin\nbaz")
	expectToRead(t, l, []byte("foobarbin\n"))
	expectReadEOF(t, l)
}

func TestLineReaderShortBuffer(t *testing.T) {
	l := newLineReader(bytes.NewBufferString("abcdef\nxy"))
	var got []byte
	scratch := make([]byte, 4)
	for {
		n, err := l.Read(scratch)
		got = append(got, scratch[:n]...)
		if err != nil {
			break
		}
	}
	if string(got) != "abcdef\n" {
		t.Errorf("expected a full line across short reads, got %q", got)
	}
}
