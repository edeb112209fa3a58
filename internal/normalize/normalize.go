// Package normalize bounds and cleans raw request text before it reaches the
// planner.
//
// Normalization strips constructs that would otherwise be echoed into
// generated code or explanations (fenced code blocks and script elements) and
// caps the length. It is not a sanitizer for adversarial input.
package normalize

import "regexp"

// MaxLength is the maximum length of normalized text, in characters.
const MaxLength = 1000

var (
	codeFence = regexp.MustCompile("```[\\s\\S]*?```")
	scriptTag = regexp.MustCompile(`(?i)<script[\s\S]*?</script>`)
)

// Text strips fenced code blocks and script elements from s, then truncates
// the result to MaxLength characters.
func Text(s string) string {
	s = codeFence.ReplaceAllString(s, "")
	s = scriptTag.ReplaceAllString(s, "")
	return truncate(s, MaxLength)
}

// Value normalizes v if it is a string. Any other value, including nil,
// yields "".
func Value(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return Text(s)
}

func truncate(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
