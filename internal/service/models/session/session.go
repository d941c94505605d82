package session

import (
	"time"
)

// Session is a server-owned authentication session. Key is opaque and may
// be presented either as a cookie or as an X-Session-Key header.
type Session struct {
	Key       string
	UserID    int64
	Data      map[string]string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session has passed its expiry.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
