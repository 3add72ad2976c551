package dice

import "sort"

// Roller draws a uniform integer in [1, size]. Both rpg-toolkit's
// dice.Roller and this repo's randsrc.SeededRoller satisfy this shape.
type Roller interface {
	Roll(size int) (int, error)
}

// Roll draws every component's dice and sums kept subtotals plus the
// modifier. Natural-20/natural-1 flags are set only when the expression's
// sole component is a single kept d20.
func Roll(expr Expression, roller Roller) (*Result, error) {
	results := make([]ComponentResult, 0, len(expr.Components))
	for _, c := range expr.Components {
		rolls := make([]int, c.Count)
		for i := range rolls {
			r, err := roller.Roll(c.DieType.Sides())
			if err != nil {
				return nil, err
			}
			rolls[i] = r
		}
		kept := keepSubset(rolls, c.KeepHighest, c.KeepLowest)
		results = append(results, ComponentResult{
			DieType:  c.DieType,
			Rolls:    rolls,
			Kept:     kept,
			Subtotal: sumInts(kept),
		})
	}

	total := expr.Modifier
	for _, cr := range results {
		total += cr.Subtotal
	}

	nat20, nat1 := naturalFlags(results)

	return &Result{
		Expression:      expr,
		ComponentResult: results,
		Modifier:        expr.Modifier,
		Total:           total,
		Natural20:       nat20,
		Natural1:        nat1,
	}, nil
}

// RollWithAdvantage applies advantage/disadvantage when the expression is a
// single 1d20; any other shape ignores the advantage setting and rolls
// normally, per the documented (non-error) behavior.
func RollWithAdvantage(expr Expression, adv Advantage, roller Roller) (*Result, error) {
	if adv == Normal || !expr.IsSingleD20() {
		return Roll(expr, roller)
	}

	r1, err := roller.Roll(20)
	if err != nil {
		return nil, err
	}
	r2, err := roller.Roll(20)
	if err != nil {
		return nil, err
	}

	chosen := r1
	if adv == Advantage {
		if r2 > chosen {
			chosen = r2
		}
	} else if r2 < chosen {
		chosen = r2
	}

	total := chosen + expr.Modifier
	cr := ComponentResult{DieType: D20, Rolls: []int{r1, r2}, Kept: []int{chosen}, Subtotal: chosen}

	return &Result{
		Expression:      expr,
		ComponentResult: []ComponentResult{cr},
		Modifier:        expr.Modifier,
		Total:           total,
		Natural20:       chosen == 20,
		Natural1:        chosen == 1,
	}, nil
}

func keepSubset(rolls []int, keepHighest, keepLowest *int) []int {
	switch {
	case keepHighest != nil:
		sorted := append([]int(nil), rolls...)
		sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
		return sorted[:*keepHighest]
	case keepLowest != nil:
		sorted := append([]int(nil), rolls...)
		sort.Ints(sorted)
		return sorted[:*keepLowest]
	default:
		return append([]int(nil), rolls...)
	}
}

func sumInts(vals []int) int {
	total := 0
	for _, v := range vals {
		total += v
	}
	return total
}

func naturalFlags(results []ComponentResult) (nat20, nat1 bool) {
	if len(results) != 1 {
		return
	}
	cr := results[0]
	if cr.DieType == D20 && len(cr.Kept) == 1 {
		switch cr.Kept[0] {
		case 20:
			nat20 = true
		case 1:
			nat1 = true
		}
	}
	return
}
