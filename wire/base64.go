package wire

import (
	"strings"

	"github.com/pkg/errors"
)

// BytesString is the JSON wire form of a proto bytes field.
type BytesString string

// ErrInvalidBase64 is returned when a BytesString cannot be decoded.
var ErrInvalidBase64 = errors.New("invalid base64 string")

const encodeTable = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// decodeTable maps both the standard and the url-safe alphabet; -1 marks
// bytes outside of both.
var decodeTable [256]int8

func init() {
	for i := range decodeTable {
		decodeTable[i] = -1
	}
	for i := 0; i < len(encodeTable); i++ {
		decodeTable[encodeTable[i]] = int8(i)
	}
	decodeTable['-'] = decodeTable['+']
	decodeTable['_'] = decodeTable['/']
}

// EncodeBytes encodes b with the standard alphabet and '=' padding.
func EncodeBytes(b []byte) BytesString {
	var sb strings.Builder
	sb.Grow((len(b) + 2) / 3 * 4)
	groupPos := 0
	var p byte
	for _, c := range b {
		switch groupPos {
		case 0:
			sb.WriteByte(encodeTable[c>>2])
			p = (c & 3) << 4
			groupPos = 1
		case 1:
			sb.WriteByte(encodeTable[p|c>>4])
			p = (c & 15) << 2
			groupPos = 2
		case 2:
			sb.WriteByte(encodeTable[p|c>>6])
			sb.WriteByte(encodeTable[c&63])
			groupPos = 0
		}
	}
	switch groupPos {
	case 1:
		sb.WriteByte(encodeTable[p])
		sb.WriteString("==")
	case 2:
		sb.WriteByte(encodeTable[p])
		sb.WriteByte('=')
	}
	return BytesString(sb.String())
}

// DecodeBytes decodes s. Whitespace is skipped, '-' and '_' are accepted
// next to '+' and '/', and missing padding is tolerated.
func DecodeBytes(s BytesString) ([]byte, error) {
	out := make([]byte, 0, len(s)*3/4)
	groupPos := 0
	var p byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		case '=':
			groupPos = 0
			continue
		}
		d := decodeTable[c]
		if d < 0 {
			return nil, errors.Wrapf(ErrInvalidBase64, "unexpected character %q at offset %d", c, i)
		}
		b := byte(d)
		switch groupPos {
		case 0:
			p = b
			groupPos = 1
		case 1:
			out = append(out, p<<2|(b&48)>>4)
			p = b
			groupPos = 2
		case 2:
			out = append(out, (p&15)<<4|(b&60)>>2)
			p = b
			groupPos = 3
		case 3:
			out = append(out, (p&3)<<6|b)
			groupPos = 0
		}
	}
	if groupPos == 1 {
		return nil, errors.Wrap(ErrInvalidBase64, "truncated final group")
	}
	return out, nil
}

// Bytes decodes s, see DecodeBytes.
func (s BytesString) Bytes() ([]byte, error) {
	return DecodeBytes(s)
}
