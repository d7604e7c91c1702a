package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// BlogPost is a rally blog entry. Images holds public URLs in display order.
type BlogPost struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"text"`
	Images    []string  `json:"images"`
	CreatedAt time.Time `json:"created_at"`
}

// PrimaryImage returns the first image or an empty string.
func (p BlogPost) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// NormalizeImages converts the stored images column into the canonical list.
// Older rows hold either nothing, a bare string, a JSON string, or a JSON array.
func NormalizeImages(raw []byte) []string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal([]byte(trimmed), &list); err == nil {
		return compactImages(list)
	}
	var single string
	if err := json.Unmarshal([]byte(trimmed), &single); err == nil {
		return compactImages([]string{single})
	}
	return compactImages([]string{trimmed})
}

func compactImages(in []string) []string {
	out := make([]string, 0, len(in))
	for _, u := range in {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}
