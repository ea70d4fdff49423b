package oracle

import "fmt"

// extractJSONBlock finds the first balanced `{...}` or `[...]` block in
// output and returns it verbatim, tolerating the LLM wrapping the JSON in
// markdown fences or surrounding prose.
func extractJSONBlock(output []byte) ([]byte, error) {
	start := -1
	var open, close byte
	for i, b := range output {
		if b == '{' || b == '[' {
			start = i
			open = b
			if open == '{' {
				close = '}'
			} else {
				close = ']'
			}
			break
		}
	}
	if start == -1 {
		return nil, fmt.Errorf("no JSON object or array found in output")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(output); i++ {
		b := output[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case b == '\\':
				escaped = true
			case b == '"':
				inString = false
			}
			continue
		}

		switch b {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return output[start : i+1], nil
			}
		}
	}

	return nil, fmt.Errorf("unbalanced JSON block starting at byte %d", start)
}
