package internal

import (
	"errors"
	"strings"
)

// Base62 over digits, lowercase then uppercase. A code of 10 symbols covers
// every id the urls table can hold in practice (62^10 > 8e17).
const (
	alphabet      = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	base          = uint64(len(alphabet))
	MaxCodeLength = 10
)

var ErrInvalidCode = errors.New("invalid short code")

func EncodeID(id uint64) string {
	if id == 0 {
		return string(alphabet[0])
	}

	buf := make([]byte, 0, 11)
	for id > 0 {
		buf = append(buf, alphabet[id%base])
		id /= base
	}

	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}

	return string(buf)
}

// DecodeID is the inverse of EncodeID. It rejects empty input, leading zeros,
// symbols outside the alphabet and values that overflow uint64, so every id
// has exactly one code.
func DecodeID(code string) (uint64, error) {
	if code == "" || (len(code) > 1 && code[0] == alphabet[0]) {
		return 0, ErrInvalidCode
	}

	var id uint64
	for i := 0; i < len(code); i++ {
		idx := strings.IndexByte(alphabet, code[i])
		if idx < 0 {
			return 0, ErrInvalidCode
		}
		if id > (^uint64(0)-uint64(idx))/base {
			return 0, ErrInvalidCode
		}
		id = id*base + uint64(idx)
	}

	return id, nil
}
