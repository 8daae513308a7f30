package notes

import "strings"

// Summarize produces the placeholder "AI" summary: the first two sentences
// of the text, split on periods. A real summarization backend would replace
// this function wholesale; its contract (text in, summary string out) is
// what callers depend on.
func Summarize(text string) string {
	parts := strings.Split(text, ".")
	sentences := make([]string, 0, 2)
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		sentences = append(sentences, p)
		if len(sentences) == 2 {
			break
		}
	}
	if len(sentences) == 0 {
		return ""
	}
	return strings.Join(sentences, ".") + "."
}

// preview is the creation-time summary: the first 150 characters of the
// content with a trailing ellipsis.
func preview(content string) string {
	r := []rune(content)
	if len(r) > 150 {
		r = r[:150]
	}
	return string(r) + "..."
}
