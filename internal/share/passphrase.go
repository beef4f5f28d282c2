package share

import (
	"crypto/rand"
	"errors"
)

// Alphabet for share tokens; visually ambiguous characters (0/O, 1/I/L)
// are excluded so the code survives being read aloud or copied by hand.
const passphraseAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const passphraseLength = 6

// maxGenerateAttempts bounds the collision retry loop. Five collisions in
// a row means something is wrong with the entropy source or the table, so
// the caller gets ErrTokenExhausted instead of another retry.
const maxGenerateAttempts = 5

var ErrTokenExhausted = errors.New("failed to generate unique share token")

var randRead = rand.Read

func newPassphrase() (string, error) {
	buf := make([]byte, passphraseLength)
	if _, err := randRead(buf); err != nil {
		return "", err
	}
	out := make([]byte, passphraseLength)
	for i, b := range buf {
		out[i] = passphraseAlphabet[int(b)%len(passphraseAlphabet)]
	}
	return string(out), nil
}
