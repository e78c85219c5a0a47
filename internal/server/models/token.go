package models

import "time"

// TokenIDLength is the fixed length of a token id.
const TokenIDLength = 20

// Token is a session credential. Expires is milliseconds since the Unix epoch.
type Token struct {
	Phone   string `json:"phone"`
	ID      string `json:"id"`
	Expires int64  `json:"expires"`
}

// ExpiresAt returns Expires as a time.Time.
func (t *Token) ExpiresAt() time.Time {
	return time.UnixMilli(t.Expires)
}

// ActiveAt reports whether the token is still valid at now, i.e. now < expires.
func (t *Token) ActiveAt(now time.Time) bool {
	return now.UnixMilli() < t.Expires
}
