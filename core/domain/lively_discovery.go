package domain

import (
	"time"
)

// Discovery is one AI-generated recommendation tied to a single user and
// the interest that triggered it. Discoveries are insert-only; removal of
// the related interest cascade-deletes them.
//
// The JSON shape is the wire contract consumed by the mobile client, so
// field names stay camelCase.
type Discovery struct {
	ID              string    `json:"id" bson:"id"`
	UserID          string    `json:"userId" bson:"user_id"`
	RelatedInterest string    `json:"relatedInterest" bson:"related_interest"`
	Title           string    `json:"title" bson:"title"`
	Description     string    `json:"description" bson:"description"`
	Color           string    `json:"color" bson:"color"`
	Icon            string    `json:"icon" bson:"icon"`
	CreatedAt       time.Time `json:"createdAt" bson:"created_at"`
}

// Recommendation is the generator's output before it is tagged with a user
// and persisted as a Discovery.
type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

// Category colors the generator may use. The client treats color as a
// category signal.
const (
	ColorChill        = "#0EA5E9" // chill / water
	ColorAdventure    = "#F59E0B" // adventure
	ColorSocial       = "#EC4899" // social / nightlife
	ColorIntellectual = "#1E293B" // intellectual
	ColorFallback     = "#94A3B8"
)

const (
	IconFallback        = "search"
	fallbackDescription = "The agent found a spot, but the signal was fuzzy. Check back soon!"
)

var categoryColors = map[string]bool{
	ColorChill:        true,
	ColorAdventure:    true,
	ColorSocial:       true,
	ColorIntellectual: true,
}

// iconVocabulary is the set of Ionicons names a recommendation may carry.
var iconVocabulary = map[string]bool{
	"american-football": true,
	"basketball":        true,
	"beer":              true,
	"bicycle":           true,
	"boat":              true,
	"book":              true,
	"brush":             true,
	"cafe":              true,
	"camera":            true,
	"color-palette":     true,
	"compass":           true,
	"film":              true,
	"fitness":           true,
	"flower":            true,
	"football":          true,
	"game-controller":   true,
	"headset":           true,
	"leaf":              true,
	"map":               true,
	"mic":               true,
	"musical-notes":     true,
	"paw":               true,
	"pizza":             true,
	"restaurant":        true,
	"search":            true,
	"star":              true,
	"telescope":         true,
	"tennisball":        true,
	"walk":              true,
	"wine":              true,
}

// IsCategoryColor reports whether c is one of the four category hex codes.
func IsCategoryColor(c string) bool {
	return categoryColors[c]
}

// IsKnownIcon reports whether icon is in the icon vocabulary.
func IsKnownIcon(icon string) bool {
	return iconVocabulary[icon]
}

// Validate checks a recommendation against the schema the client expects.
// The generator falls back on any violation, so untrusted model output
// never reaches storage unchecked.
func (r *Recommendation) Validate() error {
	if r.Title == "" {
		return ErrInvalidRecommendation("empty title")
	}
	if r.Description == "" {
		return ErrInvalidRecommendation("empty description")
	}
	if !IsCategoryColor(r.Color) {
		return ErrInvalidRecommendation("unknown color " + r.Color)
	}
	if !IsKnownIcon(r.Icon) {
		return ErrInvalidRecommendation("unknown icon " + r.Icon)
	}
	return nil
}

// ErrInvalidRecommendation marks a recommendation that failed schema
// validation.
type ErrInvalidRecommendation string

func (e ErrInvalidRecommendation) Error() string {
	return "invalid recommendation: " + string(e)
}

// FallbackRecommendation is the deterministic recommendation substituted
// when generation fails for any reason.
func FallbackRecommendation(interest string) Recommendation {
	return Recommendation{
		Title:       interest + " Spot",
		Description: fallbackDescription,
		Color:       ColorFallback,
		Icon:        IconFallback,
	}
}
