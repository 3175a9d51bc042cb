package reaction

// Reaction values a user can record against a question.
const (
	Upvote   = "UPVOTE"
	Downvote = "DOWNVOTE"
	Skip     = "SKIP"
)

// Valid reports whether r is a known reaction.
func Valid(r string) bool {
	return r == Upvote || r == Downvote || r == Skip
}

// Delta is the counter adjustment a reaction transition produces on the
// question row. Fields may be negative.
type Delta struct {
	Upvotes   int
	Downvotes int
	Viewers   int
}

// IsZero reports whether applying the delta would be a no-op.
func (d Delta) IsZero() bool {
	return d == Delta{}
}

// ComputeDelta derives the counter adjustment from the previous reaction
// (empty string for none) and the new one.
//
// No prior interaction counts a new viewer plus the vote, if any. A changed
// reaction swaps vote counters without touching the viewer count. Repeating
// the same reaction changes nothing.
func ComputeDelta(prev, next string) Delta {
	if prev == next {
		return Delta{}
	}

	var d Delta
	if prev == "" {
		d.Viewers = 1
	}

	switch prev {
	case Upvote:
		d.Upvotes--
	case Downvote:
		d.Downvotes--
	}

	switch next {
	case Upvote:
		d.Upvotes++
	case Downvote:
		d.Downvotes++
	}
	return d
}
