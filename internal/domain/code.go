package domain

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// Ambiguous characters (0/O, 1/I) are excluded so codes survive being
// read out loud.
const codeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var codeCharsetLen = big.NewInt(int64(len(codeChars)))

func GenerateRoomCode() (string, error) {
	var sb strings.Builder
	sb.Grow(RoomCodeLength)

	for i := 0; i < RoomCodeLength; i++ {
		n, err := rand.Int(rand.Reader, codeCharsetLen)
		if err != nil {
			return "", err
		}
		sb.WriteByte(codeChars[n.Int64()])
	}

	return sb.String(), nil
}
