package domain

import "time"

// Session is an opaque bearer credential record for the mobile client.
// ExpiresAt is fixed at creation (no sliding expiration); expired sessions
// are deleted lazily when presented, never by a background sweep.
type Session struct {
	SessionID    string    `json:"id" dynamodbav:"session_id"`
	SessionToken string    `json:"-" dynamodbav:"session_token"`
	UserID       string    `json:"user_id" dynamodbav:"user_id"`
	ExpiresAt    int64     `json:"expires_at" dynamodbav:"expires_at"` // Unix seconds
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return now.Unix() > s.ExpiresAt
}
