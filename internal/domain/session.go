package domain

import "time"

// Admin is an account allowed to edit content and status.
type Admin struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Session is an authenticated admin session.
type Session struct {
	AdminID   string    `json:"admin_id"`
	Email     string    `json:"email"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsAdmin reports whether the session belongs to a signed in admin. It is only
// a presentation hint; mutations re-check the session server-side.
func (s *Session) IsAdmin() bool {
	return s != nil && s.AdminID != ""
}
