package planner

import (
	"regexp"
	"strings"
)

const (
	defaultButtonText = "Click Me"
	defaultCardTitle  = "UI Component"
	defaultModalTitle = "Modal Title"
	subtitleLimit     = 100
)

var (
	buttonQuoted = regexp.MustCompile(`(?i)button.*?["']([^"']+)["']`)
	buttonWord   = regexp.MustCompile(`(?i)button.*?(\w+)`)
	titleQuoted  = regexp.MustCompile(`(?i)title.*?["']([^"']+)["']`)
	calledQuoted = regexp.MustCompile(`(?i)called.*?["']([^"']+)["']`)
	modalQuoted  = regexp.MustCompile(`(?i)(?:modal|dialog|popup|settings).*?["']([^"']+)["']`)
)

// firstCapture returns the first capture group of the first pattern that
// matches text.
func firstCapture(text string, patterns ...*regexp.Regexp) (string, bool) {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// buttonText is the quoted string after "button", else the first word after
// it, else "Click Me".
func buttonText(text string) string {
	if s, ok := firstCapture(text, buttonQuoted, buttonWord); ok {
		return s
	}
	return defaultButtonText
}

// cardTitle is the quoted string after "title" or "called".
func cardTitle(text string) string {
	if s, ok := firstCapture(text, titleQuoted, calledQuoted); ok {
		return s
	}
	return defaultCardTitle
}

// subtitle is text capped at 100 characters, with an ellipsis when cut.
func subtitle(text string) string {
	r := []rune(text)
	if len(r) > subtitleLimit {
		return string(r[:subtitleLimit]) + "..."
	}
	return text
}

// modalTitle is the quoted string after a modal keyword, "Settings" when the
// text mentions settings, or "" when neither applies.
func modalTitle(text string) string {
	if s, ok := firstCapture(text, modalQuoted); ok {
		return s
	}
	if strings.Contains(strings.ToLower(text), "settings") {
		return "Settings"
	}
	return ""
}

// tableTemplate picks sample headers and rows by the domain the text mentions.
func tableTemplate(lower string) (headers []any, rows []any) {
	switch {
	case strings.Contains(lower, "user"):
		return []any{"Name", "Email", "Role"}, []any{
			[]any{"John Doe", "john@example.com", "Admin"},
			[]any{"Jane Smith", "jane@example.com", "User"},
			[]any{"Bob Johnson", "bob@example.com", "User"},
		}
	case strings.Contains(lower, "product"):
		return []any{"Product", "Price", "Stock"}, []any{
			[]any{"Widget A", "$10.00", "50"},
			[]any{"Widget B", "$15.00", "30"},
			[]any{"Widget C", "$20.00", "20"},
		}
	default:
		return []any{"Name", "Value", "Status"}, []any{
			[]any{"Item 1", "Value 1", "Active"},
			[]any{"Item 2", "Value 2", "Pending"},
			[]any{"Item 3", "Value 3", "Completed"},
		}
	}
}
