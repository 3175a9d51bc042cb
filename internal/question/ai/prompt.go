package ai

import (
	"fmt"
	"strings"
)

// levelDescriptions maps intensity levels to the wording used in prompts.
// 1 is surface-level small talk, 10 is full transparency.
var levelDescriptions = map[int]string{
	1:  "Surface",
	2:  "Getting Comfortable",
	3:  "Opening Up",
	4:  "Personal",
	5:  "Vulnerable",
	6:  "Deep",
	7:  "Intimate",
	8:  "Raw",
	9:  "Soul-Baring",
	10: "Naked Truth",
}

const adultProgression = `
18+ INTIMACY PROGRESSION (MANDATORY):
- Level 1-2: NOT 18+. Keep it light and non-sexual.
- Level 3-4: Light physical intimacy (kissing, cuddling, touch, physical attraction).
- Level 5-6: Moderate sexual intimacy (detailed preferences, foreplay).
- Level 7-8: Intense sexual exploration (kinks, adventurous physical acts).
- Level 10: EXTREMELY 21+. The most raw, naked sexual truths, deepest sexual fantasies, and "no-filter" physical questions.
`

// buildPrompt encodes the bucket's gender nuance, level range, category and
// adult-content ladder into a single generation prompt.
func buildPrompt(req Request) string {
	audience := req.Gender + " partner to answer"
	if req.Gender == "BOTH" {
		audience = "COUPLE to answer together"
	}

	category := "Varied"
	if req.CategoryID != "" {
		category = "Matching provided ID"
	}

	mode := "DISABLED"
	progression := ""
	if req.Allow18Plus {
		mode = "ENABLED"
		progression = adultProgression
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a world-class relationship therapist and connection expert.\n")
	fmt.Fprintf(&b, "Goal: Generate unique, deep questions for a couple.\n")
	fmt.Fprintf(&b, "Generate %d unique questions.\n\n", req.Count)
	fmt.Fprintf(&b, "Target Audience: The question is specifically for the %s.\n\n", audience)
	b.WriteString(`Gender Nuance Rules:
- If MALE: Focus on masculine psychology, logic-based scenarios, hobbies/gadgets, protective instincts, or communication styles associated with men.
- If FEMALE: Focus on feminine psychology, emotional nuances, care rituals, beauty/self-image, or specific female experiences (like cycles or emotional safety).
- If BOTH: Focus on shared experiences and mutual growth.

`)
	fmt.Fprintf(&b, "Scale: 1 (Surface) to 10 (Naked Truth).\n")
	fmt.Fprintf(&b, "Selected Level: %d (%s) to %d (%s)\n", req.MinLevel, levelDescriptions[req.MinLevel], req.MaxLevel, levelDescriptions[req.MaxLevel])
	fmt.Fprintf(&b, "Category: %s\n", category)
	fmt.Fprintf(&b, "18+ Intimacy Mode: %s\n", mode)
	b.WriteString(progression)
	fmt.Fprintf(&b, `
Rules:
- Return ONLY the question text.
- BE COMPACT: Keep the question to 1-3 sentences maximum. Get straight to the point.
- EXCEPTION: 'Case Study' questions can be longer (3-5 sentences) to properly set up the scenario.
- If adult mode is enabled, the question MUST strictly follow the INTIMACY PROGRESSION listed above for Level maximum %d.
- If adult mode is disabled, keep it purely emotional or psychological.
- Level 10 must always be "shattering" in its transparency, regardless of adult mode.`, req.MaxLevel)
	return b.String()
}
