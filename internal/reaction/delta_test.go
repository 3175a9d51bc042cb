package reaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeDelta(t *testing.T) {
	tests := []struct {
		name string
		prev string
		next string
		want Delta
	}{
		{"first upvote", "", Upvote, Delta{Upvotes: 1, Viewers: 1}},
		{"first downvote", "", Downvote, Delta{Downvotes: 1, Viewers: 1}},
		{"first skip", "", Skip, Delta{Viewers: 1}},
		{"repeat upvote", Upvote, Upvote, Delta{}},
		{"repeat downvote", Downvote, Downvote, Delta{}},
		{"repeat skip", Skip, Skip, Delta{}},
		{"upvote to downvote", Upvote, Downvote, Delta{Upvotes: -1, Downvotes: 1}},
		{"downvote to upvote", Downvote, Upvote, Delta{Upvotes: 1, Downvotes: -1}},
		{"upvote to skip", Upvote, Skip, Delta{Upvotes: -1}},
		{"skip to upvote", Skip, Upvote, Delta{Upvotes: 1}},
		{"skip to downvote", Skip, Downvote, Delta{Downvotes: 1}},
		{"downvote to skip", Downvote, Skip, Delta{Downvotes: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeDelta(tt.prev, tt.next))
		})
	}
}

func TestComputeDeltaToggleCancelsOut(t *testing.T) {
	// A vote, its reversal, and the original vote again must leave only the
	// final vote and a single viewer on the counters.
	total := Delta{}
	sequence := []string{Upvote, Downvote, Upvote}
	prev := ""
	for _, next := range sequence {
		d := ComputeDelta(prev, next)
		total.Upvotes += d.Upvotes
		total.Downvotes += d.Downvotes
		total.Viewers += d.Viewers
		prev = next
	}
	assert.Equal(t, Delta{Upvotes: 1, Downvotes: 0, Viewers: 1}, total)
}

func TestDeltaIsZero(t *testing.T) {
	assert.True(t, Delta{}.IsZero())
	assert.False(t, Delta{Viewers: 1}.IsZero())
	assert.False(t, Delta{Upvotes: -1, Downvotes: 1}.IsZero())
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(Upvote))
	assert.True(t, Valid(Downvote))
	assert.True(t, Valid(Skip))
	assert.False(t, Valid(""))
	assert.False(t, Valid("LIKE"))
}
