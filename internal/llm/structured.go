package llm

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// SchemaValidator checks a value after JSON extraction.
type SchemaValidator[T any] func(T) error

// ExtractJSON decodes the first JSON object in raw model output into T.
// Markdown fences, surrounding prose, comments and ".5"-style numbers are
// tolerated. A non-nil validator runs on the decoded value.
func ExtractJSON[T any](raw string, validator SchemaValidator[T]) (T, error) {
	var zero T

	block := firstObject(stripCodeFences(raw))
	if block == "" {
		return zero, fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
	}
	block = repairJSON(block)

	var result T
	if err := json.Unmarshal([]byte(block), &result); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if validator != nil {
		if err := validator(result); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}
	return result, nil
}

// stripCodeFences drops ``` fence lines and keeps everything between them.
func stripCodeFences(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// stringTracker follows whether a byte scan is inside a JSON string.
type stringTracker struct {
	inString bool
	escaped  bool
}

// step consumes c and reports whether it belongs to string content,
// including the quotes themselves.
func (st *stringTracker) step(c byte) bool {
	switch {
	case st.escaped:
		st.escaped = false
		return true
	case st.inString && c == '\\':
		st.escaped = true
		return true
	case c == '"':
		st.inString = !st.inString
		return true
	default:
		return st.inString
	}
}

// firstObject returns the first balanced {...} block in s, or "".
func firstObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}
	var st stringTracker
	depth := 0
	for i := start; i < len(s); i++ {
		if st.step(s[i]) {
			continue
		}
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// repairJSON removes // and /* */ comments and rewrites leading-dot numbers
// (".8", "-.3") outside string values.
func repairJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	var st stringTracker

	for i := 0; i < len(s); i++ {
		c := s[i]
		if st.step(c) {
			b.WriteByte(c)
			continue
		}
		next := byte(0)
		if i+1 < len(s) {
			next = s[i+1]
		}
		switch {
		case c == '/' && next == '/':
			for i+1 < len(s) && s[i+1] != '\n' {
				i++
			}
		case c == '/' && next == '*':
			end := strings.Index(s[i+2:], "*/")
			if end == -1 {
				i = len(s)
			} else {
				i += 2 + end + 1
			}
		default:
			if c == '.' && isDigit(next) && numberMayStart(lastNonSpace(s[:i])) {
				b.WriteByte('0')
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}

func lastNonSpace(s string) byte {
	t := strings.TrimRight(s, " \t\r\n")
	if t == "" {
		return 0
	}
	return t[len(t)-1]
}

func numberMayStart(prev byte) bool {
	switch prev {
	case 0, ':', ',', '[', '{', '-':
		return true
	}
	return false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
