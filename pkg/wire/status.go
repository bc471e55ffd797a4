package wire

import "io"

// Status is the single-octet outcome prefix of every directory and peer
// response. Its meaning is verb-local: callers must interpret it against
// the specific verb that produced it, never in isolation.
type Status byte

// WriteStatus writes the single status byte that opens every response.
func WriteStatus(w io.Writer, s Status) error {
	_, err := w.Write([]byte{byte(s)})
	return err
}

// ReadStatus reads the single status byte that opens every response.
func ReadStatus(r io.Reader) (Status, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return Status(b[0]), nil
}
