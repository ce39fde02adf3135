package host

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MaxMessageSize is the largest payload accepted or emitted on the wire.
const MaxMessageSize = 1 << 20

// TooLargeError reports a frame whose declared length exceeds MaxMessageSize.
type TooLargeError struct {
	Length uint32
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("message too large: %d bytes", e.Length)
}

// InvalidLengthError reports a frame with a zero-length payload.
type InvalidLengthError struct {
	Length uint32
}

func (e *InvalidLengthError) Error() string {
	return fmt.Sprintf("invalid message length: %d", e.Length)
}

// readFrame reads one length-prefixed message: a 4-byte little-endian length
// followed by that many bytes of JSON. A clean io.EOF on the length prefix
// means the peer closed the stream; a short read anywhere else surfaces as
// io.ErrUnexpectedEOF.
func readFrame(r io.Reader) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("reading frame header: %w", err)
	}

	length := binary.LittleEndian.Uint32(header[:])
	if length > MaxMessageSize {
		return nil, &TooLargeError{Length: length}
	}
	if length == 0 {
		return nil, &InvalidLengthError{Length: length}
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("reading frame payload: %w", err)
	}
	return payload, nil
}

// writeFrame writes one length-prefixed message.
func writeFrame(w io.Writer, payload []byte) error {
	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("writing frame header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("writing frame payload: %w", err)
	}
	return nil
}
