// Package fallback holds a hand-authored question bank used when neither the
// database nor the generator can satisfy a deck request.
package fallback

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/queple/queple-server/internal/question"
)

// SystemCreatorID attributes bank questions to the sentinel system identity.
const SystemCreatorID = "0000000000000000000000000"

type entry struct {
	content    string
	forGender  string
	level      int
	categoryID string
	is18Plus   bool
}

var bank = []entry{
	// BOTH
	{"What is your biggest fear that you haven't told anyone?", question.GenderBoth, 5, "c7", false},
	{"If you could change one thing about your past, what would it be?", question.GenderBoth, 7, "c3", false},
	{"What's the most adventurous thing you've ever done in bed?", question.GenderBoth, 8, "c1", true},
	{"Who was your first crush and why did you like them?", question.GenderBoth, 3, "c8", false},
	{"What is a controversial opinion you hold?", question.GenderBoth, 4, "c7", false},
	{"Describe your ideal romantic date.", question.GenderBoth, 2, "c8", false},
	{"What is the biggest lie you've ever told your parents?", question.GenderBoth, 6, "c1", false},
	{"Have you ever ghosted someone? Why?", question.GenderBoth, 4, "c6", false},
	{"What turns you on the most intellectually?", question.GenderBoth, 5, "c7", false},
	{"If you had one week left to live, how would you spend it?", question.GenderBoth, 9, "c4", false},
	{"What is the most meaningful gift you have ever received?", question.GenderBoth, 3, "c8", false},
	{"What is a memory that always makes you smile?", question.GenderBoth, 2, "c8", false},

	// MALE
	{"What is a compliment you wish you received more often?", question.GenderMale, 4, "c7", false},
	{"What does 'being a man' mean to you in today's world?", question.GenderMale, 7, "c7", false},
	{"What's something you find confusing about women?", question.GenderMale, 3, "c6", false},
	{"How do you prefer to be comforted when you're stressed?", question.GenderMale, 5, "c7", false},
	{"What is your biggest insecurity in a relationship?", question.GenderMale, 8, "c2", false},
	{"When was the last time you cried, and why?", question.GenderMale, 6, "c2", false},
	{"What puts you in the mood instantly?", question.GenderMale, 7, "c2", true},
	{"What is a hobby you would love to start if you had the time?", question.GenderMale, 2, "c8", false},

	// FEMALE
	{"What's a gesture that makes you feel most loved?", question.GenderFemale, 3, "c8", false},
	{"What is something you wish men understood better about women?", question.GenderFemale, 5, "c6", false},
	{"How has your relationship with your body changed over time?", question.GenderFemale, 8, "c5", false},
	{"What's your biggest turn-off in a partner?", question.GenderFemale, 4, "c8", false},
	{"What does 'femininity' mean to you?", question.GenderFemale, 7, "c7", false},
	{"What is one thing you need more of in the bedroom?", question.GenderFemale, 8, "c2", true},
	{"Who is the strongest woman you know?", question.GenderFemale, 3, "c8", false},
	{"What makes you feel most empowered?", question.GenderFemale, 5, "c7", false},
}

// Bank serves shuffled samples from the static question list.
type Bank struct {
	entries []entry
	rng     *rand.Rand
}

// New returns a bank over the built-in question list.
func New() *Bank {
	return &Bank{
		entries: bank,
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// Sample returns up to count bank questions matching gender, skipping entries
// whose content appears in exclude. Bank items have no stable id, so the
// exclusion check is keyed by content text. Each returned question carries a
// freshly generated non-persistent id.
func (b *Bank) Sample(gender string, count int, exclude map[string]struct{}, allow18Plus bool) []question.Question {
	var filtered []entry
	for _, e := range b.entries {
		if gender != question.GenderBoth && e.forGender != gender {
			continue
		}
		if e.is18Plus && !allow18Plus {
			continue
		}
		if _, seen := exclude[e.content]; seen {
			continue
		}
		filtered = append(filtered, e)
	}

	b.rng.Shuffle(len(filtered), func(i, j int) {
		filtered[i], filtered[j] = filtered[j], filtered[i]
	})
	if count < len(filtered) {
		filtered = filtered[:count]
	}

	now := time.Now()
	out := make([]question.Question, 0, len(filtered))
	for _, e := range filtered {
		out = append(out, question.Question{
			ID:         question.FallbackIDPrefix + uuid.NewString(),
			Content:    e.content,
			ForGender:  e.forGender,
			Level:      e.level,
			Is18Plus:   e.is18Plus,
			CategoryID: e.categoryID,
			CreatorID:  SystemCreatorID,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	return out
}
