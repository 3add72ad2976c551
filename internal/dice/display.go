package dice

import (
	"fmt"
	"strings"
)

// DisplayRoll renders a result as "[rolls] + [rolls] + N" with unkept dice
// shown parenthesized in their original roll order.
func DisplayRoll(r Result) string {
	parts := make([]string, 0, len(r.ComponentResult))
	for _, cr := range r.ComponentResult {
		parts = append(parts, displayComponent(cr))
	}
	s := strings.Join(parts, " + ")

	switch {
	case r.Modifier > 0:
		s += fmt.Sprintf(" + %d", r.Modifier)
	case r.Modifier < 0:
		s += fmt.Sprintf(" - %d", -r.Modifier)
	}
	return s
}

// displayComponent shows kept dice plain and unkept dice parenthesized,
// matching duplicates against kept values one at a time so that rolling
// e.g. [6, 6, 2] kh2 doesn't double-count a kept 6 against both rolled 6s.
func displayComponent(cr ComponentResult) string {
	if len(cr.Rolls) <= len(cr.Kept) {
		pieces := make([]string, len(cr.Rolls))
		for i, roll := range cr.Rolls {
			pieces[i] = fmt.Sprintf("%d", roll)
		}
		return "[" + strings.Join(pieces, ", ") + "]"
	}

	keptUsed := make([]bool, len(cr.Kept))
	pieces := make([]string, 0, len(cr.Rolls))
	for _, roll := range cr.Rolls {
		matched := -1
		for i, k := range cr.Kept {
			if !keptUsed[i] && k == roll {
				matched = i
				break
			}
		}
		if matched >= 0 {
			keptUsed[matched] = true
			pieces = append(pieces, fmt.Sprintf("%d", roll))
		} else {
			pieces = append(pieces, fmt.Sprintf("(%d)", roll))
		}
	}
	return "[" + strings.Join(pieces, ", ") + "]"
}
