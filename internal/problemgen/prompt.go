package problemgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You create fun math problems for a children's arithmetic game.

Rules:
- Pick exactly one topic from the allowed list and report its key in "topic".
- Match the requested difficulty.
- Language: Hebrew. The question may be a bare expression such as "5 + 3" or a very short question.
- Use × for multiplication and ÷ for division.
- Provide exactly 4 distinct options as strings. Exactly one is correct and "correctAnswer" must equal it character for character.
- Distractors should be plausible mistakes, close to the correct value.
- The explanation is one super short, fun sentence in Hebrew.
- Do not repeat any question from the "already shown" list.`

// buildUserMessage renders the per-request part of the prompt.
func buildUserMessage(input Input, cfg Config) string {
	var b strings.Builder

	b.WriteString("Allowed topics:\n")
	for _, t := range input.Topics {
		fmt.Fprintf(&b, "- %s (%s)\n", t, t.Label())
	}
	fmt.Fprintf(&b, "Difficulty: %s (%s)\n", input.Difficulty, input.Difficulty.Label())

	b.WriteString("\nAlready shown in this game:\n")
	b.WriteString(buildRecent(input.Recent, cfg.MaxRecent))

	return b.String()
}
