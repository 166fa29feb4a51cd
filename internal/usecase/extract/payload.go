package extract

import (
	"fmt"
	"strings"
)

// locatePayload finds the first balanced JSON array or object inside raw.
// Model responses routinely wrap the payload in prose or markdown code
// fences; everything around the first balanced bracket structure is noise.
func locatePayload(raw string) (string, error) {
	start := -1
	var open, close byte
	for i := 0; i < len(raw); i++ {
		if raw[i] == '[' || raw[i] == '{' {
			start = i
			open = raw[i]
			close = '}'
			if open == '[' {
				close = ']'
			}
			break
		}
	}
	if start < 0 {
		return "", fmt.Errorf("no JSON payload in response")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		switch {
		case escaped:
			escaped = false
		case inString:
			if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return raw[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("unbalanced JSON payload in response")
}

// stripFences removes a surrounding markdown code fence if the whole
// response is one fenced block. Payloads inside prose are handled by
// locatePayload either way; this only cleans the common exact-fence case.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop a language hint like "json" on the fence line.
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		first := strings.TrimSpace(s[:idx])
		if len(first) <= 10 && !strings.ContainsAny(first, "[{") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
