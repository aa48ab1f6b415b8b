package utils

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/nats-io/nuid"
)

var idSeq uint64

// GenSessionID returns a short collision-resistant ID for one viewer
// session. Session IDs end up in log lines and report files, so they stay
// compact.
func GenSessionID() string {
	return "sess-" + nuid.Next()
}

// GenFeedID generates a unique feed ID using the current UTC nanosecond timestamp and an atomic sequence number.
// The format is "feed-<timestamp>-<seq>".
func GenFeedID() string {
	n := time.Now().UTC().UnixNano()
	s := atomic.AddUint64(&idSeq, 1)
	return fmt.Sprintf("feed-%d-%d", n, s)
}

// MakeSlug creates a filename-friendly slug from a title and an ID.
// It lowercases the title, replaces non-alphanumeric characters with dashes, and appends the ID.
// If the resulting slug is empty, it defaults to "f-<id>".
func MakeSlug(title, id string) string {
	t := strings.ToLower(title)
	var b strings.Builder
	lastDash := false
	for _, r := range t {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
		} else {
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	s := strings.Trim(b.String(), "-")
	if s == "" {
		s = "f"
	}
	return fmt.Sprintf("%s-%s", s, id)
}
