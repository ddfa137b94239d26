package macro

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Fillers removed at any aggressiveness above zero.
var hardFillers = []string{"um", "umm", "uh", "uhm", "er", "erm", "ah", "hmm", "mm"}

// Fillers that can carry meaning; removed only at higher aggressiveness.
var softFillers = []string{"like", "basically", "actually", "literally", "you know", "i mean", "sort of", "kind of"}

// FillerRemover strips filler words and phrases from text.
type FillerRemover struct {
	extra []string
}

// NewFillerRemover returns a remover that also drops the extra phrases
// (lowercase, at most two words) at any aggressiveness.
func NewFillerRemover(extra []string) *FillerRemover {
	return &FillerRemover{extra: extra}
}

// Process removes fillers according to the aggressiveness (0-10) and
// preserveNatural options. Soft fillers go at aggressiveness >= 5, or >= 8
// when preserveNatural is set.
func (f *FillerRemover) Process(text string, opts Options) string {
	aggr := opts.Int("aggressiveness", 5)
	if aggr <= 0 {
		return text
	}
	set := map[string]struct{}{}
	for _, w := range hardFillers {
		set[w] = struct{}{}
	}
	for _, w := range f.extra {
		set[w] = struct{}{}
	}
	preserve := opts.Bool("preserveNatural", true)
	if aggr >= 8 || (aggr >= 5 && !preserve) {
		for _, w := range softFillers {
			set[w] = struct{}{}
		}
	}
	return dropPhrases(text, set)
}

func dropPhrases(text string, set map[string]struct{}) string {
	toks := strings.Fields(text)
	out := make([]string, 0, len(toks))
	capNext := false
	for i := 0; i < len(toks); {
		n := matchPhrase(toks, i, set)
		if n == 0 {
			tok := toks[i]
			if capNext {
				tok = capitalize(tok)
				capNext = false
			}
			out = append(out, tok)
			i++
			continue
		}
		first, last := toks[i], toks[i+n-1]
		if startsUpper(first) && (len(out) == 0 || endsSentence(out[len(out)-1])) {
			capNext = true
		}
		if len(out) > 0 {
			prev := out[len(out)-1]
			switch {
			case endsSentence(last) && !endsSentence(prev):
				out[len(out)-1] = strings.TrimRight(prev, ",;:") + last[len(last)-1:]
				capNext = true
			case strings.HasSuffix(last, ",") && strings.HasSuffix(prev, ","):
				out[len(out)-1] = strings.TrimSuffix(prev, ",")
			}
		}
		i += n
	}
	return strings.Join(out, " ")
}

func matchPhrase(toks []string, i int, set map[string]struct{}) int {
	if i+1 < len(toks) && !endsWithPunct(toks[i]) {
		if _, ok := set[core(toks[i])+" "+core(toks[i+1])]; ok {
			return 2
		}
	}
	if _, ok := set[core(toks[i])]; ok {
		return 1
	}
	return 0
}

// RemoveStutterText collapses repeated words ("I I think") and broken word
// starts ("th- the", "b-but"). Options: sensitivity (0-10) and
// preserveEmphasis, which keeps comma-separated repeats like "very, very".
func RemoveStutterText(text string, opts Options) string {
	sensitivity := opts.Int("sensitivity", 7)
	if sensitivity <= 0 {
		return text
	}
	preserve := opts.Bool("preserveEmphasis", true)
	toks := strings.Fields(text)
	out := make([]string, 0, len(toks))
	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		if sensitivity >= 5 {
			tok = collapseInnerStutter(tok)
		}
		if i+1 < len(toks) {
			next := toks[i+1]
			if sensitivity >= 5 && strings.HasSuffix(tok, "-") {
				stem := strings.ToLower(strings.TrimSuffix(tok, "-"))
				if stem != "" && strings.HasPrefix(strings.ToLower(next), stem) {
					toks[i+1] = inheritCase(tok, next)
					continue
				}
			}
			c := core(tok)
			if c != "" && c == core(next) && (sensitivity >= 3 || utf8.RuneCountInString(c) <= 3) {
				if !(preserve && strings.HasSuffix(tok, ",")) {
					toks[i+1] = inheritCase(tok, next)
					continue
				}
			}
		}
		out = append(out, tok)
	}
	return strings.Join(out, " ")
}

// collapseInnerStutter turns "b-but" and "th-th-the" into the final word.
// Two-letter heads must repeat so that prefixes like "re-read" survive.
func collapseInnerStutter(tok string) string {
	parts := strings.Split(tok, "-")
	if len(parts) < 2 {
		return tok
	}
	head, rest := parts[0], parts[len(parts)-1]
	n := utf8.RuneCountInString(head)
	if n == 0 || n > 2 || rest == "" {
		return tok
	}
	if n > 1 && len(parts) < 3 {
		return tok
	}
	for _, p := range parts[1 : len(parts)-1] {
		if !strings.EqualFold(p, head) {
			return tok
		}
	}
	if !strings.HasPrefix(strings.ToLower(rest), strings.ToLower(head)) {
		return tok
	}
	return inheritCase(head, rest)
}

func inheritCase(from, to string) string {
	if startsUpper(from) {
		return capitalize(to)
	}
	return to
}

func core(tok string) string {
	return strings.ToLower(strings.TrimFunc(tok, func(r rune) bool {
		return unicode.IsPunct(r) && r != '\''
	}))
}

func endsWithPunct(tok string) bool {
	r, _ := utf8.DecodeLastRuneInString(tok)
	return unicode.IsPunct(r)
}

func endsSentence(tok string) bool {
	return strings.HasSuffix(tok, ".") || strings.HasSuffix(tok, "?") || strings.HasSuffix(tok, "!")
}

func startsUpper(tok string) bool {
	r, _ := utf8.DecodeRuneInString(tok)
	return unicode.IsUpper(r)
}

func capitalize(tok string) string {
	r, size := utf8.DecodeRuneInString(tok)
	if r == utf8.RuneError {
		return tok
	}
	return string(unicode.ToUpper(r)) + tok[size:]
}
