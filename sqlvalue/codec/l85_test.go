package codec

import (
	"bytes"
	"crypto/sha1"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlphabet(t *testing.T) {
	assert.Len(t, Alphabet, 85)

	seen := make(map[byte]bool)
	for i := 0; i < len(Alphabet); i++ {
		assert.False(t, seen[Alphabet[i]], "duplicate %q", Alphabet[i])
		seen[Alphabet[i]] = true
	}

	sorted := []byte(Alphabet)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	assert.Equal(t, Alphabet, string(sorted))
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"empty", []byte{}},
		{"one byte", []byte{0x01}},
		{"two bytes", []byte{0xFF, 0x00}},
		{"three bytes", []byte{0x00, 0x00, 0x01}},
		{"full group", []byte{0xDE, 0xAD, 0xBE, 0xEF}},
		{"all zeros", bytes.Repeat([]byte{0x00}, 20)},
		{"all ones", bytes.Repeat([]byte{0xFF}, 21)},
		{"ascending", []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := Encode(tt.input)
			decoded, err := Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.input, decoded)
		})
	}
}

func TestSortOrderPreserved(t *testing.T) {
	words := []string{
		"", "a", "b", "c", "aa", "ab", "ba", "bb",
		"alice", "bob", "charlie", "diana", "eve",
		"test1", "test2", "test10", "test20",
	}
	type entry struct {
		hash    [20]byte
		encoded string
	}
	var byHash, byText []entry
	for _, w := range words {
		e := entry{hash: sha1.Sum([]byte(w))}
		e.encoded = Encode(e.hash[:])
		byHash = append(byHash, e)
		byText = append(byText, e)
	}
	sort.Slice(byHash, func(i, j int) bool { return bytes.Compare(byHash[i].hash[:], byHash[j].hash[:]) < 0 })
	sort.Slice(byText, func(i, j int) bool { return byText[i].encoded < byText[j].encoded })
	assert.Equal(t, byHash, byText)
}

func TestDigest(t *testing.T) {
	d := Digest("person:tobie")
	assert.Len(t, d, DigestLen)
	assert.Equal(t, d, Digest("person:tobie"))
	assert.NotEqual(t, d, Digest("person:jaime"))
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode("ab cd")
	assert.ErrorIs(t, err, ErrInvalidCharacter)

	_, err = Decode("abcde!")
	assert.ErrorIs(t, err, ErrTruncated)
}
