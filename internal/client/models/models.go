// Package models defines the wire shapes the CLI exchanges with the
// Second Brain API.
package models

import "time"

// User is the public projection of an account.
type User struct {
	ID        string    `json:"_id"`
	UserName  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Content is a saved note as returned by the server.
type Content struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Body      string    `json:"content"`
	URL       string    `json:"url,omitempty"`
	Type      string    `json:"type"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ContentPayload is the body of create and update requests. Updates
// replace every field, so callers start from the current record.
type ContentPayload struct {
	Title string   `json:"title"`
	Body  string   `json:"content"`
	URL   string   `json:"url,omitempty"`
	Type  string   `json:"type"`
	Tags  []string `json:"tags"`
}

// PayloadOf copies the editable fields of c.
func PayloadOf(c Content) ContentPayload {
	return ContentPayload{Title: c.Title, Body: c.Body, URL: c.URL, Type: c.Type, Tags: append([]string(nil), c.Tags...)}
}

// ContentFilter narrows a content listing. Empty fields are not sent.
type ContentFilter struct {
	Type   string
	Search string
	Tag    string
}

// Merge overlays the non-empty fields of other onto f.
func (f ContentFilter) Merge(other ContentFilter) ContentFilter {
	if other.Type != "" {
		f.Type = other.Type
	}
	if other.Search != "" {
		f.Search = other.Search
	}
	if other.Tag != "" {
		f.Tag = other.Tag
	}
	return f
}

type TypeCount struct {
	Type  string `json:"_id"`
	Count int64  `json:"count"`
}

type AuthResponse struct {
	Message  string `json:"message"`
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	UserName string `json:"username"`
}

type ProfileResponse struct {
	User  User        `json:"user"`
	Stats []TypeCount `json:"stats"`
}

// ProfileUpdate carries optional profile changes.
type ProfileUpdate struct {
	UserName        string `json:"username,omitempty"`
	Email           string `json:"email,omitempty"`
	CurrentPassword string `json:"currentPassword,omitempty"`
	NewPassword     string `json:"newPassword,omitempty"`
}

type ShareRequest struct {
	ContentIDs []string `json:"contentIds"`
	ExpiresIn  *float64 `json:"expiresIn,omitempty"`
}

type ShareResponse struct {
	Message   string     `json:"message"`
	ShareID   string     `json:"shareId"`
	ShareLink string     `json:"shareLink"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

type SharedBrain struct {
	SharedBy string    `json:"sharedBy"`
	Contents []Content `json:"contents"`
}

type ExportResult struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expiresAt"`
}
