package models

import "time"

// Identity is the caller resolved from a session token.
type Identity struct {
	SessionID     string    `json:"session_id"`
	LectureID     string    `json:"lecture_id"`
	LecturerName  string    `json:"lecturer_name"`
	LecturerEmail string    `json:"lecturer_email"`
	IssuedAt      time.Time `json:"issued_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Expired reports whether the session has passed its expiry.
func (i Identity) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}
