package util

import (
	"fmt"
	"math/rand"
	"strings"
)

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateOTP returns a 6-digit one-time passcode
func GenerateOTP() string {
	return fmt.Sprintf("%06d", 100000+rand.Intn(900000))
}

// GenerateConfirmationCode returns a booking confirmation code of the form
// "BK" followed by n characters from an unambiguous alphabet (no 0/O, 1/I)
func GenerateConfirmationCode(n int) string {
	var sb strings.Builder
	sb.WriteString("BK")
	for i := 0; i < n; i++ {
		sb.WriteByte(codeAlphabet[rand.Intn(len(codeAlphabet))])
	}
	return sb.String()
}

// GenerateRandomNumber generates a random number between min and max (inclusive)
func GenerateRandomNumber(min, max int) int {
	return min + rand.Intn(max-min+1)
}
