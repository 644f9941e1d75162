package model

import "time"

// Category is the coarse topic of a headline.
type Category string

const (
	CategoryWorld    Category = "world"
	CategoryPolitics Category = "politics"
	CategoryOther    Category = "other"
)

// ParseCategory maps free-form category text onto a known Category.
// Anything unrecognized lands in CategoryOther.
func ParseCategory(s string) Category {
	switch Category(normalizeLabel(s)) {
	case CategoryWorld:
		return CategoryWorld
	case CategoryPolitics:
		return CategoryPolitics
	default:
		return CategoryOther
	}
}

// Origin records where a piece of content came from: a live feed fetch
// or a model-generated stand-in.
type Origin string

const (
	OriginLive      Origin = "live"
	OriginSimulated Origin = "simulated"
)

type Headline struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  Category  `json:"category"`
	Origin    Origin    `json:"origin"`
	CreatedAt time.Time `json:"created_at"`
}
