// Package wordlist provides word list filtering helpers.
package wordlist

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// Filter returns the entries accepted by keep, dropping duplicates while
// preserving order.
func Filter(words []string, keep FilterFunc) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if !keep(w) {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// Phrase accepts lowercase ASCII words of at most two tokens, allowing
// apostrophes inside words ("y'know", "you know").
func Phrase(word string) bool {
	if word == "" {
		return false
	}
	tokens := 1
	prev := byte(' ')
	for i := 0; i < len(word); i++ {
		ch := word[i]
		switch {
		case ch >= 'a' && ch <= 'z':
		case ch == '\'' && prev >= 'a' && prev <= 'z' && i+1 < len(word):
		case ch == ' ' && prev != ' ' && i+1 < len(word):
			tokens++
		default:
			return false
		}
		prev = ch
	}
	return tokens <= 2
}
