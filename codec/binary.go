// Package codec serializes a peg.RawGrammar's clause tree and action
// source text to bytes and restores it, so a caller can rebuild a
// working Parser without reparsing the original grammar notation.
//
// The low-level encoding here is a hand-rolled scheme: an 8-byte
// varint-in-a-fixed-width-field length prefix ahead of each
// variable-length value. Encode/Decode, the package's public entry
// points, wrap that format through github.com/dekarrin/rezi's
// EncBinary/DecBinary: rezi owns the outermost length-prefixing and
// leaves the payload format to the type's own
// MarshalBinary/UnmarshalBinary.
package codec

import (
	"encoding"
	"encoding/binary"
	"fmt"
)

func encInt(i int) []byte {
	buf := make([]byte, 8)
	binary.PutVarint(buf, int64(i))
	return buf
}

func decInt(data []byte) (int, int, error) {
	if len(data) < 8 {
		return 0, 0, fmt.Errorf("codec: need 8 bytes for an int, have %d", len(data))
	}
	val, n := binary.Varint(data[:8])
	if n <= 0 {
		return 0, 0, fmt.Errorf("codec: malformed varint")
	}
	return int(val), 8, nil
}

func encString(s string) []byte {
	return append(encInt(len(s)), []byte(s)...)
}

func decString(data []byte) (string, int, error) {
	n, read, err := decInt(data)
	if err != nil {
		return "", 0, fmt.Errorf("codec: string length: %w", err)
	}
	data = data[read:]
	if n < 0 || len(data) < n {
		return "", 0, fmt.Errorf("codec: string of length %d overruns buffer of %d bytes", n, len(data))
	}
	return string(data[:n]), read + n, nil
}

func encBool(b bool) []byte {
	if b {
		return []byte{1}
	}
	return []byte{0}
}

func decBool(data []byte) (bool, int, error) {
	if len(data) < 1 {
		return false, 0, fmt.Errorf("codec: need 1 byte for a bool, have 0")
	}
	return data[0] != 0, 1, nil
}

// encField length-prefixes an already-encoded field, for struct fields
// that are themselves BinaryMarshaler values.
func encField(b encoding.BinaryMarshaler) ([]byte, error) {
	enc, err := b.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return append(encInt(len(enc)), enc...), nil
}

func decField(data []byte, b encoding.BinaryUnmarshaler) (int, error) {
	n, read, err := decInt(data)
	if err != nil {
		return 0, fmt.Errorf("codec: field length: %w", err)
	}
	data = data[read:]
	if n < 0 || len(data) < n {
		return 0, fmt.Errorf("codec: field of length %d overruns buffer of %d bytes", n, len(data))
	}
	if err := b.UnmarshalBinary(data[:n]); err != nil {
		return 0, err
	}
	return read + n, nil
}
