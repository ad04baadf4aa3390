package team

import (
	"fmt"
	"strings"
)

const synthesisPrompt = `You are the CEO of a corporate organization, leading an executive team.

Synthesize the executive input below into one unified answer:
- Clearly attribute each perspective when multiple executives contributed.
- Highlight agreements and disagreements.
- Provide a unified recommendation with clear next steps.
- If no executive input is present, answer directly from a strategic
  leadership perspective.
- Be decisive but considerate of all perspectives, and use business
  terminology appropriately.`

func (t *Team) selectionPrompt() string {
	var sb strings.Builder
	sb.WriteString("You are the CEO deciding which executives to consult for an incoming question.\n\nAvailable executives:\n")
	for _, m := range t.members {
		fmt.Fprintf(&sb, "- %s: %s\n", m.Role, m.Expertise)
	}
	sb.WriteString(`
Reply with only a JSON object of the form {"members": ["cfo"]} listing the
executives whose domain expertise the question needs. Use an empty list when
none apply and you should answer alone.`)
	return sb.String()
}
