// Package codec holds the byte-sortable text encodings used for record keys.
package codec

import (
	"crypto/sha1"
	"errors"
	"fmt"
)

// Alphabet is the L85 digit set in ascending byte order, so encoded text
// sorts the same way as the bytes it encodes.
const Alphabet = "!$%&()+,-./" +
	"0123456789:;<=>@" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ[]_`" +
	"abcdefghijklmnopqrstuvwxyz{}"

// DigestLen is the length of an encoded SHA-1 digest
const DigestLen = 25

var (
	// digit value plus one, zero marks characters outside the alphabet
	decodeTable [256]byte

	ErrInvalidCharacter = errors.New("invalid L85 character")
	ErrTruncated        = errors.New("invalid L85 encoding: incomplete group")
)

func init() {
	for i := 0; i < len(Alphabet); i++ {
		decodeTable[Alphabet[i]] = byte(i + 1)
	}
}

func encodeGroup(dst []byte, group [4]byte, n int) []byte {
	v := uint32(group[0])<<24 | uint32(group[1])<<16 | uint32(group[2])<<8 | uint32(group[3])
	var digits [5]byte
	for j := 4; j >= 0; j-- {
		digits[j] = Alphabet[v%85]
		v /= 85
	}
	return append(dst, digits[:n]...)
}

// Encode writes every 4 bytes as 5 digits; a trailing partial group of k
// bytes is written as k+1 digits.
func Encode(src []byte) string {
	out := make([]byte, 0, (len(src)+3)/4*5)
	for len(src) >= 4 {
		out = encodeGroup(out, [4]byte{src[0], src[1], src[2], src[3]}, 5)
		src = src[4:]
	}
	if len(src) > 0 {
		var group [4]byte
		copy(group[:], src)
		out = encodeGroup(out, group, len(src)+1)
	}
	return string(out)
}

// Decode reverses Encode
func Decode(src string) ([]byte, error) {
	for i := 0; i < len(src); i++ {
		if decodeTable[src[i]] == 0 {
			return nil, fmt.Errorf("%w at position %d: %q", ErrInvalidCharacter, i, src[i])
		}
	}
	out := make([]byte, 0, len(src)/5*4+4)
	for len(src) > 0 {
		n := min(len(src), 5)
		if n == 1 {
			return nil, ErrTruncated
		}
		// dropped digits are filled with the highest digit so the kept
		// bytes are not borrowed from
		var v uint64
		for j := 0; j < 5; j++ {
			d := uint64(84)
			if j < n {
				d = uint64(decodeTable[src[j]] - 1)
			}
			v = v*85 + d
		}
		if v > 0xFFFFFFFF {
			return nil, fmt.Errorf("%w: group overflows 32 bits", ErrInvalidCharacter)
		}
		group := [4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
		out = append(out, group[:n-1]...)
		src = src[n:]
	}
	return out, nil
}

// Digest returns the encoded SHA-1 of s, always DigestLen characters
func Digest(s string) string {
	sum := sha1.Sum([]byte(s))
	return Encode(sum[:])
}
