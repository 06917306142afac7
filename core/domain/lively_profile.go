package domain

import (
	"time"
)

// UserProfile holds a user's identifier and their stated interests.
// Interests are distinct free-text strings (case-sensitive exact match)
// kept in insertion order. Profiles are created lazily on first read or
// write and are never deleted.
type UserProfile struct {
	UserID    string    `json:"userId"`
	Interests []string  `json:"interests"`
	CreatedAt time.Time `json:"createdAt"`
}

// HasInterest reports whether the profile already contains the interest.
func (p *UserProfile) HasInterest(interest string) bool {
	for _, i := range p.Interests {
		if i == interest {
			return true
		}
	}
	return false
}
