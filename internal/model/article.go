package model

import "strings"

// Bucket is the perspective grouping an outlet belongs to.
type Bucket string

const (
	BucketLeft    Bucket = "left"
	BucketCenter  Bucket = "center"
	BucketRight   Bucket = "right"
	BucketUnknown Bucket = "unknown"
)

// ParseBucket maps free-form bucket text onto a known Bucket.
func ParseBucket(s string) Bucket {
	switch Bucket(normalizeLabel(s)) {
	case BucketLeft:
		return BucketLeft
	case BucketCenter:
		return BucketCenter
	case BucketRight:
		return BucketRight
	default:
		return BucketUnknown
	}
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SourcedArticle is one outlet's coverage of a headline, either fetched
// from the outlet's feed or synthesized when no live item matched.
type SourcedArticle struct {
	HeadlineID string `json:"headline_id"`
	Source     string `json:"source"`
	Bucket     Bucket `json:"bucket"`
	Title      string `json:"title"`
	Summary    string `json:"summary"`
	URL        string `json:"url,omitempty"`
	Origin     Origin `json:"origin"`
}
