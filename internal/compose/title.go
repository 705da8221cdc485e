package compose

import "strings"

// wrapTitle renders a listing title into at most two lines. Titles within
// the budget stay on one line; longer ones break once at the nearest word
// boundary at or before the budget. A single over-long word is hard-cut.
func wrapTitle(title string, budget int) (string, string) {
	title = strings.ReplaceAll(title, "\n", " ")
	runes := []rune(title)
	if len(runes) <= budget {
		return title, ""
	}

	cut := budget
	for cut > 0 && runes[cut] != ' ' {
		cut--
	}
	if cut == 0 {
		return string(runes[:budget]), string(runes[budget:])
	}
	return string(runes[:cut]), string(runes[cut+1:])
}
