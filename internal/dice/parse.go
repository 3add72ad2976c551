package dice

import (
	"strconv"
	"strings"
)

type signedTerm struct {
	sign int
	text string
}

// splitSignedTerms walks the notation character by character, tracking the
// sign in effect and cutting a new term at each top-level + or -.
func splitSignedTerms(s string) []signedTerm {
	var terms []signedTerm
	sign := 1
	var buf strings.Builder
	flush := func() {
		if buf.Len() > 0 {
			terms = append(terms, signedTerm{sign: sign, text: buf.String()})
			buf.Reset()
		}
	}
	for _, c := range s {
		switch c {
		case '+':
			flush()
			sign = 1
		case '-':
			flush()
			sign = -1
		default:
			buf.WriteRune(c)
		}
	}
	flush()
	return terms
}

// Parse reads standard dice notation (XdY+Z with optional khK/klK suffixes)
// into an Expression. Missing N defaults to 1; valid die sizes are 4, 6, 8,
// 10, 12, 20, 100. A keep count exceeding a component's dice count fails
// with ErrInvalidKeepCount. Empty input, or input with no dice and a zero
// modifier, fails with ErrNoDice.
func Parse(notation string) (*Expression, error) {
	s := strings.ToLower(strings.TrimSpace(notation))
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return nil, &Error{Kind: ErrNoDice}
	}

	var components []Component
	modifier := 0
	for _, term := range splitSignedTerms(s) {
		if term.text == "" {
			continue
		}
		comp, modDelta, err := parseComponent(term.text, term.sign, s)
		if err != nil {
			return nil, err
		}
		if comp != nil {
			components = append(components, *comp)
		}
		modifier += modDelta
	}

	if len(components) == 0 && modifier == 0 {
		return nil, &Error{Kind: ErrNoDice}
	}

	return &Expression{Components: components, Modifier: modifier, Original: s}, nil
}

// MustParse parses notation, panicking on error. Reserved for constants and
// tests where the notation is known-good at compile time.
func MustParse(notation string) *Expression {
	expr, err := Parse(notation)
	if err != nil {
		panic(err)
	}
	return expr
}

func parseComponent(term string, sign int, original string) (*Component, int, error) {
	dIdx := strings.IndexByte(term, 'd')
	if dIdx == -1 {
		n, err := strconv.Atoi(term)
		if err != nil {
			return nil, 0, &Error{Kind: ErrInvalidNotation, Notation: original}
		}
		return nil, sign * n, nil
	}

	countStr := term[:dIdx]
	count := 1
	if countStr != "" {
		n, err := strconv.Atoi(countStr)
		if err != nil {
			return nil, 0, &Error{Kind: ErrInvalidNotation, Notation: original}
		}
		count = n
	}

	rest := term[dIdx+1:]
	sidesStr := rest
	var keepHighest, keepLowest *int

	if khIdx := strings.Index(rest, "kh"); khIdx >= 0 {
		sidesStr = rest[:khIdx]
		k, err := strconv.Atoi(rest[khIdx+2:])
		if err != nil {
			return nil, 0, &Error{Kind: ErrInvalidNotation, Notation: original}
		}
		keepHighest = &k
	} else if klIdx := strings.Index(rest, "kl"); klIdx >= 0 {
		sidesStr = rest[:klIdx]
		k, err := strconv.Atoi(rest[klIdx+2:])
		if err != nil {
			return nil, 0, &Error{Kind: ErrInvalidNotation, Notation: original}
		}
		keepLowest = &k
	}

	sides, err := strconv.Atoi(sidesStr)
	if err != nil {
		return nil, 0, &Error{Kind: ErrInvalidNotation, Notation: original}
	}
	dieType, err := DieTypeFromSides(sides)
	if err != nil {
		return nil, 0, err
	}

	if keepHighest != nil && *keepHighest > count {
		return nil, 0, &Error{Kind: ErrInvalidKeepCount, Keep: *keepHighest, Count: count, Notation: original}
	}
	if keepLowest != nil && *keepLowest > count {
		return nil, 0, &Error{Kind: ErrInvalidKeepCount, Keep: *keepLowest, Count: count, Notation: original}
	}

	return &Component{Count: count, DieType: dieType, KeepHighest: keepHighest, KeepLowest: keepLowest}, 0, nil
}

// DoubleDice returns a copy of the expression with every component's dice
// count doubled and the modifier left untouched — the 5e critical-hit rule
// of doubling dice, not the modifier.
func (e Expression) DoubleDice() Expression {
	doubled := make([]Component, len(e.Components))
	for i, c := range e.Components {
		doubled[i] = c
		doubled[i].Count *= 2
	}
	return Expression{Components: doubled, Modifier: e.Modifier, Original: e.Original}
}
