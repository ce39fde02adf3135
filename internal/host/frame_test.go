package host

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte(`{"id":1,"action":"Ping"}`)
	if err := writeFrame(&buf, payload); err != nil {
		t.Fatalf("writeFrame: %v", err)
	}

	got, err := readFrame(&buf)
	if err != nil {
		t.Fatalf("readFrame: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("readFrame = %q, want %q", got, payload)
	}
}

func TestReadFrameTooLarge(t *testing.T) {
	var buf bytes.Buffer
	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], MaxMessageSize+1)
	buf.Write(header[:])

	_, err := readFrame(&buf)
	var tooLarge *TooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("err = %v, want TooLargeError", err)
	}
	if tooLarge.Length != MaxMessageSize+1 {
		t.Errorf("Length = %d, want %d", tooLarge.Length, MaxMessageSize+1)
	}
}

func TestReadFrameZeroLength(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0, 0, 0, 0})
	_, err := readFrame(buf)
	var invalid *InvalidLengthError
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want InvalidLengthError", err)
	}
}

func TestReadFrameCleanEOF(t *testing.T) {
	if _, err := readFrame(bytes.NewBuffer(nil)); !errors.Is(err, io.EOF) {
		t.Errorf("err = %v, want io.EOF", err)
	}
}

func TestReadFrameShortHeader(t *testing.T) {
	buf := bytes.NewBuffer([]byte{5, 0})
	_, err := readFrame(buf)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("err = %v, want ErrUnexpectedEOF", err)
	}
	if errors.Is(err, io.EOF) {
		t.Error("short header must not look like a clean EOF")
	}
}

func TestReadFrameShortPayload(t *testing.T) {
	var buf bytes.Buffer
	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], 10)
	buf.Write(header[:])
	buf.WriteString("abc")

	_, err := readFrame(&buf)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("err = %v, want ErrUnexpectedEOF", err)
	}
}
