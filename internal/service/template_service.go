package service

import (
	"strings"
)

// RenderTemplate substitutes {{name}} placeholders in a campaign body with
// the recipient's field values. Names are matched literally (no trimming,
// case-sensitive); a name absent from fields renders as the empty string.
// Placeholders do not nest. An unterminated "{{" is kept verbatim along
// with everything after it.
func RenderTemplate(body string, fields map[string]string) string {
	if !strings.Contains(body, "{{") {
		return body
	}

	var out strings.Builder
	rest := body
	for {
		open := strings.Index(rest, "{{")
		if open < 0 {
			out.WriteString(rest)
			return out.String()
		}
		out.WriteString(rest[:open])

		after := rest[open+2:]
		end := strings.Index(after, "}}")
		if end < 0 {
			out.WriteString(rest[open:])
			return out.String()
		}

		out.WriteString(fields[after[:end]])
		rest = after[end+2:]
	}
}
