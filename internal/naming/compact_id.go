package naming

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"
)

// max36x7 is 36^7; timestamps at or above it do not fit the 7-char prefix.
const max36x7 = 78364164096

var max36x5 = big.NewInt(36 * 36 * 36 * 36 * 36)

// NewCompactID returns a time-ordered, lowercase base36 id of 12 characters:
// 7 characters of unix seconds followed by 5 random characters.
func NewCompactID() (string, error) {
	return newCompactIDAt(time.Now().UTC())
}

func newCompactIDAt(t time.Time) (string, error) {
	ts := t.Unix()
	if ts < 0 || ts >= max36x7 {
		return "", fmt.Errorf("timestamp %d out of range for compact id", ts)
	}
	n, err := rand.Int(rand.Reader, max36x5)
	if err != nil {
		return "", fmt.Errorf("generate random suffix: %w", err)
	}
	return fmt.Sprintf("%07s%05s", strconv.FormatInt(ts, 36), strconv.FormatInt(n.Int64(), 36)), nil
}
