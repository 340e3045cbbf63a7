package randomid

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
)

const digitChars = "0123456789"

// GenerateDigits generates a random string of the given length using only
// digit characters.
//
// Wrapper element ids are built from these, so the result must stay valid
// inside a CSS id selector.
func GenerateDigits(length int) string {
	return generate(length, digitChars)
}

func generate(length int, alphabet string) string {
	charsLen := len(alphabet)
	b := make([]byte, length)
	_, err := rand.Read(b) // generates len(b) random bytes
	if err != nil {
		err = fmt.Errorf("rand error: %s", err.Error())
		slog.LogAttrs(context.Background(),
			slog.LevelError,
			"randomid: error",
			slog.String("error", err.Error()))
		panic(err)
	}

	for i := 0; i < length; i++ {
		b[i] = alphabet[int(b[i])%charsLen]
	}
	return string(b)
}
