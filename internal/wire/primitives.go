// Package wire implements the binary codec shared by the server and the
// client proxy: deterministic, length-prefixed, big-endian encode/decode
// for every message exchanged over the reliable stream and the UI
// datagram socket.
package wire

import (
	"encoding/binary"
	"errors"
)

// ErrIncomplete means no suffix of the input could complete the value
// being decoded; the caller must wait for more bytes.
var ErrIncomplete = errors.New("wire: incomplete message")

// ErrInvalid means the bytes definitely do not represent the value being
// decoded; the caller must treat this as fatal for the stream.
var ErrInvalid = errors.New("wire: invalid message")

// MaxStringLen is the largest length a wire String may carry (u8 prefix).
const MaxStringLen = 255

func encodeU8(v uint8, buf []byte) []byte {
	return append(buf, v)
}

func decodeU8(b []byte) (uint8, []byte, error) {
	if len(b) < 1 {
		return 0, nil, ErrIncomplete
	}
	return b[0], b[1:], nil
}

func encodeU16(v uint16, buf []byte) []byte {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	return append(buf, tmp[:]...)
}

func decodeU16(b []byte) (uint16, []byte, error) {
	if len(b) < 2 {
		return 0, nil, ErrIncomplete
	}
	return binary.BigEndian.Uint16(b), b[2:], nil
}

func encodeU32(v uint32, buf []byte) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func decodeU32(b []byte) (uint32, []byte, error) {
	if len(b) < 4 {
		return 0, nil, ErrIncomplete
	}
	return binary.BigEndian.Uint32(b), b[4:], nil
}

func encodeString(v string, buf []byte) ([]byte, error) {
	if len(v) > MaxStringLen {
		return nil, ErrInvalid
	}
	buf = encodeU8(uint8(len(v)), buf)
	return append(buf, v...), nil
}

func decodeString(b []byte) (string, []byte, error) {
	n, rest, err := decodeU8(b)
	if err != nil {
		return "", nil, err
	}
	if len(rest) < int(n) {
		return "", nil, ErrIncomplete
	}
	return string(rest[:n]), rest[n:], nil
}
