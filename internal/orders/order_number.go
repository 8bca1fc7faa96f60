package orders

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

var randomSuffixMax = big.NewInt(1000000)

// NewOrderNumber builds a human-facing order number: ORD-YYYYMMDD followed by
// six random digits. Numbers are display identity only; the uuid primary key
// remains the real one, and the unique index plus retry on insert handles the
// rare suffix collision.
func NewOrderNumber(now time.Time) string {
	n, err := rand.Int(rand.Reader, randomSuffixMax)
	if err != nil {
		// crypto/rand only fails when the platform source is broken
		n = big.NewInt(now.UnixNano() % 1000000)
	}
	return fmt.Sprintf("ORD-%s-%06d", now.UTC().Format("20060102"), n.Int64())
}
