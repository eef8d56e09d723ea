package approval

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// NumberLength = PrefixLength + SerialLength.
	NumberLength = 12
	PrefixLength = 5
	serialLength = 7
	maxSerial    = 9_999_999
)

// ErrNumberExhausted is fatal: the 7-digit counter has no room left and the
// numbering scheme itself needs operator intervention.
var ErrNumberExhausted = errors.New("the maximum number of PASS IAE has been reached")

// NextNumber computes the number following lastNumber under the given issuer
// prefix. An empty lastNumber starts the sequence at 1. The serial is
// strictly incrementing and zero-padded to 7 digits.
func NextNumber(prefix, lastNumber string) (string, error) {
	if len(prefix) != PrefixLength {
		return "", fmt.Errorf("issuer prefix must be %d characters, got %q", PrefixLength, prefix)
	}
	if lastNumber == "" {
		return fmt.Sprintf("%s%07d", prefix, 1), nil
	}
	raw := strings.TrimPrefix(lastNumber, prefix)
	serial, err := strconv.Atoi(raw)
	if err != nil {
		return "", fmt.Errorf("malformed approval number %q: %w", lastNumber, err)
	}
	serial++
	if serial > maxSerial {
		return "", ErrNumberExhausted
	}
	return fmt.Sprintf("%s%0*d", prefix, serialLength, serial), nil
}

// NumberWithSpaces formats a 12-char number for display: "XXXXX 00 00042".
func NumberWithSpaces(number string) string {
	if len(number) != NumberLength {
		return number
	}
	return number[:5] + " " + number[5:7] + " " + number[7:]
}

// IsIssuedByPlatform reports whether the number carries the issuer prefix,
// as opposed to numbers imported from the legacy employment-agency system.
func IsIssuedByPlatform(number, prefix string) bool {
	return strings.HasPrefix(number, prefix)
}
