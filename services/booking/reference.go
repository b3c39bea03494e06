package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateBookingNumber builds a human-shareable booking reference:
// "SH-" + UTC timestamp + random suffix. The unique index on booking_number
// is the real uniqueness guarantee; the generator only makes collisions
// vanishingly unlikely.
func GenerateBookingNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("SH-%s-%s", now.UTC().Format("20060102150405"), suffix)
}
