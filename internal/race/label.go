package race

import "strings"

// ShortLabel abbreviates a display name to at most two runes: the initials of
// the first two words, or the first two runes of a lone word.
func ShortLabel(name string) string {
	words := strings.Fields(name)
	switch len(words) {
	case 0:
		return ""
	case 1:
		r := []rune(words[0])
		if len(r) > 2 {
			r = r[:2]
		}
		return string(r)
	default:
		a := []rune(words[0])
		b := []rune(words[1])
		return string([]rune{a[0], b[0]})
	}
}
