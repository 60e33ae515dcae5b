package wire

import "errors"

// Framer accumulates bytes from a reliable stream and extracts whole
// messages as decode recognizes them. It never discards unparsed bytes on
// an incomplete decode, and it distinguishes "need more bytes" from
// "this stream is broken" per the codec's ErrIncomplete/ErrInvalid
// contract.
type Framer[T any] struct {
	buf    []byte
	decode func([]byte) (T, []byte, error)
}

// NewFramer builds a Framer around the given decode function.
func NewFramer[T any](decode func([]byte) (T, []byte, error)) *Framer[T] {
	return &Framer[T]{decode: decode}
}

// Feed appends b to the accumulator and decodes as many whole messages as
// are available. It returns every message decoded this call. A framing
// error (ErrInvalid from the underlying decode) is fatal: the caller must
// close the connection this Framer is attached to.
func (f *Framer[T]) Feed(b []byte) ([]T, error) {
	f.buf = append(f.buf, b...)

	var out []T
	for {
		if len(f.buf) == 0 {
			return out, nil
		}
		msg, rest, err := f.decode(f.buf)
		if err != nil {
			if errors.Is(err, ErrIncomplete) {
				return out, nil
			}
			return out, err
		}
		f.buf = rest
		out = append(out, msg)
	}
}

// NewClientMessageFramer frames Client→Server messages on the server side.
func NewClientMessageFramer() *Framer[ClientMessage] {
	return NewFramer(DecodeClientMessage)
}

// NewServerMessageFramer frames Server→Client messages on the client side.
func NewServerMessageFramer() *Framer[ServerMessage] {
	return NewFramer(DecodeServerMessage)
}

// DecodeDatagram decodes exactly one message from a single datagram.
// Per §4.2, datagram peers get one message per datagram: any parse
// failure or trailing residue means the caller should drop this datagram
// only, never treat it as a fatal stream error.
func DecodeDatagram[T any](b []byte, decode func([]byte) (T, []byte, error)) (T, bool) {
	var zero T
	msg, rest, err := decode(b)
	if err != nil {
		return zero, false
	}
	if len(rest) != 0 {
		return zero, false
	}
	return msg, true
}
