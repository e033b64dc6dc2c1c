package model

import "time"

// Session is one logged-in browser session. The token is the only
// credential: opaque, random, stored server-side with a sliding expiry.
type Session struct {
	Token     string    `json:"-"`
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
