package fallback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/queple/queple-server/internal/question"
)

func TestSampleFiltersByGender(t *testing.T) {
	b := New()

	for _, gender := range []string{question.GenderMale, question.GenderFemale} {
		out := b.Sample(gender, 50, nil, true)
		require.NotEmpty(t, out)
		for _, q := range out {
			assert.Equal(t, gender, q.ForGender)
		}
	}
}

func TestSampleBothAcceptsAllGenders(t *testing.T) {
	b := New()

	out := b.Sample(question.GenderBoth, 50, nil, true)

	genders := map[string]bool{}
	for _, q := range out {
		genders[q.ForGender] = true
	}
	assert.True(t, genders[question.GenderMale])
	assert.True(t, genders[question.GenderFemale])
	assert.True(t, genders[question.GenderBoth])
}

func TestSampleCapsCount(t *testing.T) {
	b := New()

	assert.Len(t, b.Sample(question.GenderBoth, 4, nil, true), 4)
	assert.Empty(t, b.Sample(question.GenderBoth, 0, nil, true))
}

func TestSampleExcludesByContent(t *testing.T) {
	b := New()

	exclude := map[string]struct{}{}
	for _, q := range b.Sample(question.GenderMale, 50, nil, true) {
		exclude[q.Content] = struct{}{}
	}

	assert.Empty(t, b.Sample(question.GenderMale, 50, exclude, true))
}

func TestSampleFiltersAdultContent(t *testing.T) {
	b := New()

	for _, q := range b.Sample(question.GenderBoth, 50, nil, false) {
		assert.False(t, q.Is18Plus, "adult entry %q leaked past the filter", q.Content)
	}

	adult := false
	for _, q := range b.Sample(question.GenderBoth, 50, nil, true) {
		adult = adult || q.Is18Plus
	}
	assert.True(t, adult, "allow18Plus should expose adult entries")
}

func TestSampleAssignsTransientIDs(t *testing.T) {
	b := New()

	seen := map[string]bool{}
	for _, q := range b.Sample(question.GenderBoth, 10, nil, true) {
		assert.True(t, question.IsTransientID(q.ID))
		assert.False(t, seen[q.ID], "duplicate id %s", q.ID)
		seen[q.ID] = true
		assert.Equal(t, SystemCreatorID, q.CreatorID)
	}
}
