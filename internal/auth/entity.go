// AngelaMos | 2026
// entity.go

package auth

import (
	"crypto/subtle"
	"time"
)

// LoginCode is a pending one-time signin code. At most one row exists per
// email; reissuing overwrites the previous code and restarts the clock.
type LoginCode struct {
	Email    string    `db:"email"     json:"email"`
	Code     string    `db:"code"      json:"code"`
	IssuedAt time.Time `db:"issued_at" json:"issued_at"`
}

// IsExpired reports whether the code has outlived its ttl. Expiry is only
// ever checked here, at redemption time; nothing reaps rows on a timer.
func (c *LoginCode) IsExpired(ttl time.Duration) bool {
	return time.Since(c.IssuedAt) > ttl
}

func (c *LoginCode) Matches(code string) bool {
	return subtle.ConstantTimeCompare([]byte(c.Code), []byte(code)) == 1
}
