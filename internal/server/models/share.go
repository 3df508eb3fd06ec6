package models

import "time"

// Share is a public, token-addressed view over a fixed list of contents.
// ContentIDs keeps the requested order and duplicates.
type Share struct {
	ID         string
	UserID     string
	ContentIDs []string
	ShareID    string
	ExpiresAt  *time.Time
	CreatedAt  time.Time
}

// ExpiredAt reports whether the share is no longer resolvable at now.
// A share without ExpiresAt never expires.
func (s *Share) ExpiredAt(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}

// SharedBrain is what a public share resolves to.
type SharedBrain struct {
	SharedBy string     `json:"sharedBy"`
	Contents []*Content `json:"contents"`
}
