package orders

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const orderCodePrefix = "SM"

// NewOrderCode mints a human-readable order code from the current timestamp
// and a random suffix. Uniqueness is enforced by the orders table constraint;
// callers regenerate and retry on conflict.
func NewOrderCode(now time.Time) string {
	suffix := make([]byte, 3)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand only fails when the OS entropy source is broken;
		// fall back to the nanosecond clock rather than aborting checkout.
		return fmt.Sprintf("%s-%d-%06X", orderCodePrefix, now.UnixMilli(), now.Nanosecond()%0xFFFFFF)
	}
	return fmt.Sprintf("%s-%d-%s", orderCodePrefix, now.UnixMilli(), strings.ToUpper(hex.EncodeToString(suffix)))
}
