package models

import (
	"strings"
	"time"
)

// ContentType classifies a saved note.
type ContentType string

const (
	ContentTypeYouTube ContentType = "youtube"
	ContentTypeTwitter ContentType = "twitter"
	ContentTypeTask    ContentType = "task"
	ContentTypeBlog    ContentType = "blog"
	ContentTypeOther   ContentType = "other"
)

// ContentTypes lists every valid type in display order.
var ContentTypes = []ContentType{
	ContentTypeYouTube,
	ContentTypeTwitter,
	ContentTypeTask,
	ContentTypeBlog,
	ContentTypeOther,
}

// ParseContentType normalizes s (trim + lower case) and reports whether it
// names a known type.
func ParseContentType(s string) (ContentType, bool) {
	t := ContentType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ContentTypes {
		if t == known {
			return t, true
		}
	}
	return t, false
}

// Content is a note owned by exactly one user.
type Content struct {
	ID        string      `json:"_id"`
	UserID    string      `json:"userId"`
	Title     string      `json:"title"`
	Body      string      `json:"content"`
	URL       *string     `json:"url,omitempty"`
	Type      ContentType `json:"type"`
	Tags      []string    `json:"tags"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// ContentFields are the user-editable parts of a Content.
type ContentFields struct {
	Title string
	Body  string
	URL   *string
	Type  ContentType
	Tags  []string
}

// ContentFilter narrows a content listing. Zero values mean "no filter".
type ContentFilter struct {
	Type   ContentType
	Search string
	Tag    string
}

// NormalizeTags trims and lower-cases tags, drops empty entries and
// duplicates, and keeps first-seen order. The result is never nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
