package schedule

import "strings"

// separator characters unified into '/' before room lists are split.
const unifiedSeparators = ";\\,"

// characters stripped from the edges of a normalized cell value.
const edgeTrimSet = " \t.-:!?/"

// NormalizeText brings a raw cell value into canonical form: case-folded,
// separator characters unified, inner whitespace collapsed and edge
// punctuation trimmed. The function is idempotent.
func NormalizeText(s string) string {
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(unifiedSeparators, r) {
			return '/'
		}
		return r
	}, s)
	s = strings.Join(strings.Fields(s), " ")
	return strings.Trim(s, edgeTrimSet)
}

// SplitList normalizes a cell value and splits it on the unified separator,
// dropping empty parts. Used for room cells where several designators mean
// parallel subgroup lessons.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(NormalizeText(s), "/") {
		part = strings.Trim(part, edgeTrimSet)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
