// Package ebtext implements the game's standard text charset as an
// x/text encoding.
//
// Printable ASCII (0x20-0x7F) is stored as the character plus 0x30. Any other
// byte decodes to a bracketed control code such as "[0A]", and the same form
// encodes back to the raw byte, so decode/encode round-trips arbitrary data.
// 0x00 terminates a string.
package ebtext

import (
	"errors"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

const (
	shift    = 0x30
	firstRaw = 0x20 + shift
	lastRaw  = 0x7F + shift
)

var (
	// ErrUnencodable indicates a character with no charset mapping.
	ErrUnencodable = errors.New("ebtext: character not in charset")

	// ErrTooLong indicates a string that does not fit its field.
	ErrTooLong = errors.New("ebtext: string too long for field")
)

// Standard is the game's main text charset.
var Standard encoding.Encoding = standard{}

type standard struct{}

func (standard) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: decoder{}}
}

func (standard) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: encoder{}}
}

func (standard) String() string { return "ebtext.Standard" }

type decoder struct{ transform.NopResetter }

const hexdigits = "0123456789ABCDEF"

func (decoder) Transform(dst, src []byte, _ bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		c := src[nSrc]
		if c >= firstRaw && c <= lastRaw && c-shift != '[' {
			if nDst+1 > len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = c - shift
			nDst++
		} else {
			if nDst+4 > len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = '['
			dst[nDst+1] = hexdigits[c>>4]
			dst[nDst+2] = hexdigits[c&0xF]
			dst[nDst+3] = ']'
			nDst += 4
		}
		nSrc++
	}
	return nDst, nSrc, nil
}

type encoder struct{ transform.NopResetter }

func (encoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		c := src[nSrc]
		if c == '[' {
			if len(src)-nSrc < 4 {
				if !atEOF {
					return nDst, nSrc, transform.ErrShortSrc
				}
				return nDst, nSrc, fmt.Errorf("%w: unterminated control code", ErrUnencodable)
			}
			v, ok := parseCode(src[nSrc+1 : nSrc+4])
			if !ok {
				return nDst, nSrc, fmt.Errorf("%w: bad control code %q", ErrUnencodable, src[nSrc:nSrc+4])
			}
			dst[nDst] = v
			nDst++
			nSrc += 4
			continue
		}
		if c < 0x20 || c > 0x7F {
			return nDst, nSrc, fmt.Errorf("%w: %q", ErrUnencodable, c)
		}
		dst[nDst] = c + shift
		nDst++
		nSrc++
	}
	return nDst, nSrc, nil
}

// parseCode parses "XX]" into a byte.
func parseCode(b []byte) (byte, bool) {
	if b[2] != ']' {
		return 0, false
	}
	hi, ok1 := unhex(b[0])
	lo, ok2 := unhex(b[1])
	return hi<<4 | lo, ok1 && ok2
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}

// EncodeField encodes s into a zero-padded field of size bytes. A
// null-terminated field keeps at least one trailing zero.
func EncodeField(s string, size int, nullTerminated bool) ([]byte, error) {
	enc, err := Standard.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, err
	}
	limit := size
	if nullTerminated {
		limit--
	}
	if len(enc) > limit {
		return nil, fmt.Errorf("%w: %q is %d bytes, field holds %d", ErrTooLong, s, len(enc), limit)
	}
	out := make([]byte, size)
	copy(out, enc)
	return out, nil
}

// DecodeField decodes b up to the first zero byte.
func DecodeField(b []byte) (string, error) {
	for i, c := range b {
		if c == 0 {
			b = b[:i]
			break
		}
	}
	out, err := Standard.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
