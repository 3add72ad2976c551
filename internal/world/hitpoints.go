package world

import "github.com/dndai/dmcore/internal/dice"

// HitPoints tracks a combatant's current, maximum, and temporary hit
// points.
type HitPoints struct {
	Current   int
	Maximum   int
	Temporary int
}

// NewHitPoints starts a combatant at full health.
func NewHitPoints(maximum int) HitPoints {
	return HitPoints{Current: maximum, Maximum: maximum}
}

// DamageResult reports how a TakeDamage call played out.
type DamageResult struct {
	DamageTaken     int
	TempHPAbsorbed  int
	DroppedToZero   bool
	MassiveDamage   bool
}

// TakeDamage reduces temporary HP first, then current HP. MassiveDamage is
// true when the overflow below zero meets or exceeds maximum — the 5e
// instant-death threshold (surfaced here, not auto-applied; see §9 of
// SPEC_FULL.md).
func (hp *HitPoints) TakeDamage(amount int) DamageResult {
	remaining := amount

	if hp.Temporary > 0 {
		if hp.Temporary >= remaining {
			hp.Temporary -= remaining
			return DamageResult{DamageTaken: amount, TempHPAbsorbed: remaining}
		}
		absorbed := hp.Temporary
		remaining -= hp.Temporary
		hp.Temporary = 0

		hp.Current -= remaining
		return DamageResult{
			DamageTaken:    amount,
			TempHPAbsorbed: absorbed,
			DroppedToZero:  hp.Current <= 0,
			MassiveDamage:  -hp.Current >= hp.Maximum,
		}
	}

	hp.Current -= remaining
	return DamageResult{
		DamageTaken:   amount,
		DroppedToZero: hp.Current <= 0,
		MassiveDamage: -hp.Current >= hp.Maximum,
	}
}

// Heal restores HP capped at maximum and returns the amount actually
// healed.
func (hp *HitPoints) Heal(amount int) int {
	old := hp.Current
	hp.Current += amount
	if hp.Current > hp.Maximum {
		hp.Current = hp.Maximum
	}
	return hp.Current - old
}

// AddTempHP takes the higher of the existing and incoming temporary HP;
// temporary HP from different sources never stacks.
func (hp *HitPoints) AddTempHP(amount int) {
	if amount > hp.Temporary {
		hp.Temporary = amount
	}
}

// Effective returns current plus temporary HP.
func (hp HitPoints) Effective() int { return hp.Current + hp.Temporary }

// IsUnconscious reports whether current HP has dropped to zero or below.
func (hp HitPoints) IsUnconscious() bool { return hp.Current <= 0 }

// Ratio returns current/maximum, floored at zero.
func (hp HitPoints) Ratio() float64 {
	if hp.Maximum <= 0 {
		return 0
	}
	r := float64(hp.Current) / float64(hp.Maximum)
	if r < 0 {
		return 0
	}
	return r
}

// HitDice tracks a character's pool of hit dice by die type.
type HitDice struct {
	Total     map[dice.DieType]int
	Remaining map[dice.DieType]int
}

// NewHitDice returns an empty hit-dice pool.
func NewHitDice() HitDice {
	return HitDice{Total: map[dice.DieType]int{}, Remaining: map[dice.DieType]int{}}
}

// Add grants count more hit dice of the given type.
func (hd *HitDice) Add(dieType dice.DieType, count int) {
	hd.Total[dieType] += count
	hd.Remaining[dieType] += count
}

// Spend consumes one hit die of the given type if one remains.
func (hd *HitDice) Spend(dieType dice.DieType) bool {
	if hd.Remaining[dieType] > 0 {
		hd.Remaining[dieType]--
		return true
	}
	return false
}

// RecoverHalf restores ceil(total/2) hit dice per type, capped at total —
// the short-rest-adjacent long-rest recovery rule.
func (hd *HitDice) RecoverHalf() {
	for dieType, total := range hd.Total {
		recover := (total + 1) / 2
		remaining := hd.Remaining[dieType] + recover
		if remaining > total {
			remaining = total
		}
		hd.Remaining[dieType] = remaining
	}
}

// RecoverAll restores every hit die to full.
func (hd *HitDice) RecoverAll() {
	for dieType, total := range hd.Total {
		hd.Remaining[dieType] = total
	}
}

// DeathSaveOutcome is the result of recording one death saving throw.
type DeathSaveOutcome int

const (
	Ongoing DeathSaveOutcome = iota
	Stabilized
	Conscious
	Dead
)

// DeathSaves tracks death-saving-throw successes and failures.
type DeathSaves struct {
	Successes int
	Failures  int
}

// AddSuccess records a success; three successes stabilize the character.
func (d *DeathSaves) AddSuccess() DeathSaveOutcome {
	d.Successes++
	if d.Successes >= 3 {
		return Stabilized
	}
	return Ongoing
}

// AddFailure records a failure; three failures kill the character.
func (d *DeathSaves) AddFailure() DeathSaveOutcome {
	d.Failures++
	if d.Failures >= 3 {
		return Dead
	}
	return Ongoing
}

// Natural20 on a death save resets the tracker and restores consciousness.
func (d *DeathSaves) Natural20() DeathSaveOutcome {
	d.Reset()
	return Conscious
}

// Natural1 on a death save counts as two failures.
func (d *DeathSaves) Natural1() DeathSaveOutcome {
	d.Failures += 2
	if d.Failures >= 3 {
		return Dead
	}
	return Ongoing
}

// Reset clears both counters, used on stabilization or waking.
func (d *DeathSaves) Reset() {
	d.Successes = 0
	d.Failures = 0
}

// IsStable reports three or more recorded successes.
func (d DeathSaves) IsStable() bool { return d.Successes >= 3 }
