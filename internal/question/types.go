package question

import (
	"strings"
	"time"
)

// Gender targets for a question.
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
	GenderBoth   = "BOTH"
)

// Deck composition modes.
const (
	ModeZigzag     = "zigzag"
	ModeAllBoth    = "all_both"
	ModeZigzagBoth = "zigzag_both"
)

// DeckSize is the maximum number of questions returned per assembly request.
const DeckSize = 6

// Synthetic id prefixes for questions that were never persisted. Reactions
// against these ids are acknowledged without a database write.
const (
	FallbackIDPrefix = "fallback-"
	MockIDPrefix     = "mock-"
)

// IsTransientID reports whether id denotes a non-persisted question.
func IsTransientID(id string) bool {
	return strings.HasPrefix(id, FallbackIDPrefix) || strings.HasPrefix(id, MockIDPrefix)
}

// ValidGender reports whether g is a known gender target.
func ValidGender(g string) bool {
	return g == GenderMale || g == GenderFemale || g == GenderBoth
}

// Question is the card payload delivered to clients.
type Question struct {
	ID           string    `json:"id"`
	Content      string    `json:"content"`
	ForGender    string    `json:"forGender"`
	Level        int       `json:"level"`
	Is18Plus     bool      `json:"is18Plus"`
	CategoryID   string    `json:"categoryId"`
	CreatorID    string    `json:"creatorId,omitempty"`
	Upvotes      int       `json:"upvotes"`
	Downvotes    int       `json:"downvotes"`
	ViewersCount int       `json:"viewersCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// DeckRequest carries the caller's filters for one deck.
type DeckRequest struct {
	UserID      string
	ExternalUID string
	Mode        string
	MinLevel    int
	MaxLevel    int
	Allow18Plus bool
	CategoryID  string
	ExcludeIDs  []string
}

// Filter scopes a single gender-bucket candidate query.
type Filter struct {
	Gender      string
	MinLevel    int
	MaxLevel    int
	Allow18Plus bool
	CategoryID  string
	ExcludeIDs  []string
	Limit       int
}

// CreateRequest is a user-submitted question.
type CreateRequest struct {
	Content    string `json:"content"`
	Level      int    `json:"level"`
	ForGender  string `json:"forGender"`
	CategoryID string `json:"categoryId"`
	CreatorID  string `json:"creatorId"`
}
