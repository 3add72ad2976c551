package dice

import (
	"testing"

	"github.com/dndai/dmcore/internal/pkg/randsrc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRoller returns a preprogrammed sequence of rolls, for scenarios that
// need to force a specific outcome.
type fixedRoller struct {
	rolls []int
	i     int
}

func (f *fixedRoller) Roll(size int) (int, error) {
	if f.i >= len(f.rolls) {
		panic("fixedRoller: exhausted")
	}
	r := f.rolls[f.i]
	f.i++
	return r, nil
}

func TestParse_InvalidKeepCount(t *testing.T) {
	_, err := Parse("4d6kh5")
	require.Error(t, err)
	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, ErrInvalidKeepCount, derr.Kind)
}

func TestParse_KeepEqualToCountIsValid(t *testing.T) {
	expr, err := Parse("4d6kh4")
	require.NoError(t, err)
	assert.Equal(t, 4, *expr.Components[0].KeepHighest)
}

func TestParse_EmptyIsNoDice(t *testing.T) {
	_, err := Parse("")
	require.Error(t, err)
	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, ErrNoDice, derr.Kind)
}

func TestParse_InvalidDieSize(t *testing.T) {
	_, err := Parse("1d7")
	require.Error(t, err)
	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, ErrInvalidDieSize, derr.Kind)
}

func TestParse_DefaultCountIsOne(t *testing.T) {
	expr, err := Parse("d20")
	require.NoError(t, err)
	require.Len(t, expr.Components, 1)
	assert.Equal(t, 1, expr.Components[0].Count)
}

func TestRoll_1d20Plus5Range(t *testing.T) {
	roller := randsrc.NewSeeded(42)
	for i := 0; i < 100; i++ {
		result, err := RollNotation("1d20+5", roller)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.Total, 6)
		assert.LessOrEqual(t, result.Total, 25)
	}
}

func TestRoll_NaturalTwentyOnSingleD20(t *testing.T) {
	roller := &fixedRoller{rolls: []int{20}}
	result, err := RollNotation("1d20", roller)
	require.NoError(t, err)
	assert.True(t, result.Natural20)
	assert.False(t, result.Natural1)
}

func TestRollWithAdvantage_KeepsMax(t *testing.T) {
	roller := &fixedRoller{rolls: []int{5, 17}}
	result, err := RollNotationWithAdvantage("1d20+2", Advantage, roller)
	require.NoError(t, err)
	assert.Equal(t, 19, result.Total)
	assert.Equal(t, []int{17}, result.ComponentResult[0].Kept)
}

func TestRollWithAdvantage_IgnoredForMultiDie(t *testing.T) {
	roller := &fixedRoller{rolls: []int{3, 4}}
	result, err := RollNotationWithAdvantage("2d6", Advantage, roller)
	require.NoError(t, err)
	assert.Equal(t, 7, result.Total)
}

func TestAdvantageCombine(t *testing.T) {
	assert.Equal(t, Normal, Advantage.Combine(Disadvantage))
	assert.Equal(t, Advantage, Advantage.Combine(Advantage))
	assert.Equal(t, Disadvantage, Normal.Combine(Disadvantage))
}

func TestDisplayRoll_ParenthesizesUnkept(t *testing.T) {
	roller := &fixedRoller{rolls: []int{6, 6, 2}}
	result, err := RollNotation("3d6kh2", roller)
	require.NoError(t, err)
	assert.Equal(t, "[6, 6, (2)]", DisplayRoll(*result))
}

func TestExpression_DoubleDiceDoublesCountNotModifier(t *testing.T) {
	expr := MustParse("1d8+3")
	doubled := expr.DoubleDice()
	assert.Equal(t, 2, doubled.Components[0].Count)
	assert.Equal(t, 3, doubled.Modifier)
}
