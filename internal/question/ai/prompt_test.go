package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPromptGenderAudience(t *testing.T) {
	male := buildPrompt(Request{Gender: "MALE", Count: 3, MinLevel: 1, MaxLevel: 3})
	assert.Contains(t, male, "MALE partner to answer")
	assert.Contains(t, male, "Generate 3 unique questions")

	both := buildPrompt(Request{Gender: "BOTH", Count: 1, MinLevel: 1, MaxLevel: 3})
	assert.Contains(t, both, "COUPLE to answer together")
}

func TestBuildPromptLevelWording(t *testing.T) {
	p := buildPrompt(Request{Gender: "FEMALE", Count: 2, MinLevel: 5, MaxLevel: 10})

	assert.Contains(t, p, "Selected Level: 5 (Vulnerable) to 10 (Naked Truth)")
}

func TestBuildPromptAdultMode(t *testing.T) {
	off := buildPrompt(Request{Gender: "BOTH", Count: 1, MinLevel: 1, MaxLevel: 3})
	assert.Contains(t, off, "18+ Intimacy Mode: DISABLED")
	assert.NotContains(t, off, "18+ INTIMACY PROGRESSION (MANDATORY)")

	on := buildPrompt(Request{Gender: "BOTH", Count: 1, MinLevel: 1, MaxLevel: 8, Allow18Plus: true})
	assert.Contains(t, on, "18+ Intimacy Mode: ENABLED")
	assert.Contains(t, on, "18+ INTIMACY PROGRESSION (MANDATORY)")
}
