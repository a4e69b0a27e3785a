package unity

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// wordHexLen is the number of hex digits encoding one 32-bit word.
const wordHexLen = 8

// DecodePackedUint32s decodes a hex string holding a flat sequence of
// little-endian 32-bit words. Unity serialises such arrays with a leading
// placeholder word, which is dropped.
//
// Precondition: none; any string is accepted as input.
// Postcondition: returns len(hexText)/8 - 1 values, or a decode error when
// the length is not a positive multiple of 8 or a character is not a hex digit.
func DecodePackedUint32s(hexText string) ([]uint32, error) {
	if len(hexText) == 0 || len(hexText)%wordHexLen != 0 {
		return nil, &Error{
			Kind:    KindDecode,
			Message: fmt.Sprintf("length %d is not a positive multiple of %d", len(hexText), wordHexLen),
		}
	}
	raw, err := hex.DecodeString(hexText)
	if err != nil {
		return nil, &Error{Kind: KindDecode, Message: "invalid hex digits", Cause: err}
	}
	words := len(raw) / 4
	out := make([]uint32, 0, words-1)
	for i := 1; i < words; i++ {
		out = append(out, binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return out, nil
}
