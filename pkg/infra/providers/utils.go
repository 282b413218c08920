package providers

import "strings"

// FormatInstructions renders prompt-stage guardrail rule bodies as a single
// bulleted block that providers prepend to the conversation.
func FormatInstructions(instr []string) string {
	if len(instr) == 0 {
		return "[Guardrail Instructions]\n"
	}

	var b strings.Builder
	b.WriteString("[Guardrail Instructions]\n")
	for _, rule := range instr {
		if strings.TrimSpace(rule) == "" {
			continue
		}
		b.WriteString("- ")
		b.WriteString(rule)
		b.WriteByte('\n')
	}
	return b.String()
}
