package id

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// New returns a transaction ID like "2024-01-01-1704110400000-ab12cd34":
// the record's date, the assignment time in unix milliseconds, and a random
// suffix giving practical uniqueness within a single process.
func New(date string, now time.Time) string {
	return fmt.Sprintf("%s-%d-%s", date, now.UnixMilli(), suffix())
}

func suffix() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}
