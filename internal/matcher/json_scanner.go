package matcher

// findJSONCandidates scans the input for top-level JSON object
// candidates. It uses a byte-level state machine that tracks brace
// depth, string context, and escapes, so braces inside string values or
// surrounding prose never confuse the boundaries.
//
// Iterating bytes is safe for the ASCII delimiters ({, }, ", \) because
// UTF-8 never embeds ASCII bytes inside a multi-byte sequence.
func findJSONCandidates(s string) []string {
	var candidates []string
	var depth int
	start := -1
	var inString, escape bool

	for i := 0; i < len(s); i++ {
		b := s[i]

		if escape {
			escape = false
			continue
		}

		if inString {
			if b == '\\' {
				escape = true
			} else if b == '"' {
				inString = false
			}
			continue
		}

		if b == '"' {
			inString = true
			continue
		}

		if b == '{' {
			if depth == 0 {
				start = i
			}
			depth++
		} else if b == '}' {
			if depth > 0 {
				depth--
				if depth == 0 && start != -1 {
					candidates = append(candidates, s[start:i+1])
					start = -1
				}
			}
		}
	}

	return candidates
}
