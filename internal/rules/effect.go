package rules

import (
	"github.com/dndai/dmcore/internal/dice"
	"github.com/dndai/dmcore/internal/world"
)

// Effect is a concrete state change produced by resolving an Intent. Like
// Intent, it is a closed sum type carrying the unexported isEffect marker.
// Effects are the only thing the applier ever mutates the world from; the
// one change the engine makes itself is consuming a spell slot while
// resolving CastSpell.
type Effect interface {
	isEffect()
}

// DiceRolled records that a roll happened, for narration and animation.
type DiceRolled struct {
	Roll    dice.Result
	Purpose string
}

func (DiceRolled) isEffect() {}

// HpChanged records a hit-point delta. MassiveDamage threads end-to-end
// from HitPoints.TakeDamage (design note #3): true when the overflow below
// zero meets or exceeds the target's maximum.
type HpChanged struct {
	TargetID      world.CombatantID
	Amount        int
	NewCurrent    int
	NewMax        int
	DroppedToZero bool
	MassiveDamage bool
}

func (HpChanged) isEffect() {}

// ConditionApplied records a condition newly in effect on a target.
type ConditionApplied struct {
	TargetID  world.CombatantID
	Condition world.Condition
	Source    string
}

func (ConditionApplied) isEffect() {}

// ConditionRemoved records a condition no longer in effect.
type ConditionRemoved struct {
	TargetID  world.CombatantID
	Condition world.Condition
}

func (ConditionRemoved) isEffect() {}

// CombatStarted records that an encounter began.
type CombatStarted struct{}

func (CombatStarted) isEffect() {}

// CombatEnded records that an encounter concluded.
type CombatEnded struct{}

func (CombatEnded) isEffect() {}

// TurnAdvanced records the initiative order moving to the next combatant.
type TurnAdvanced struct {
	Round            int
	CurrentCombatant string
}

func (TurnAdvanced) isEffect() {}

// InitiativeRolled records one combatant's rolled initiative total.
type InitiativeRolled struct {
	CharacterID world.CombatantID
	Name        string
	Roll        int
	Total       int
}

func (InitiativeRolled) isEffect() {}

// CombatantAdded records a combatant entering the initiative order. The
// applier is responsible for inserting it in stable descending-initiative
// order (§4.4).
type CombatantAdded struct {
	ID                 world.CombatantID
	Name               string
	Initiative         int
	InitiativeModifier int
	IsPlayer           bool
	IsAlly             bool
	CurrentHP          int
	MaxHP              int
}

func (CombatantAdded) isEffect() {}

// TimeAdvanced records the game clock moving forward.
type TimeAdvanced struct {
	Minutes int
}

func (TimeAdvanced) isEffect() {}

// ExperienceGained records an XP award and the new running total.
type ExperienceGained struct {
	Amount   int
	NewTotal int
}

func (ExperienceGained) isEffect() {}

// LevelUp records a level increase triggered by crossing an XP threshold.
type LevelUp struct {
	NewLevel int
}

func (LevelUp) isEffect() {}

// FeatureUsed records a limited-use feature being consumed.
type FeatureUsed struct {
	FeatureName   string
	UsesRemaining int
}

func (FeatureUsed) isEffect() {}

// SpellSlotUsed records a spell slot being consumed.
type SpellSlotUsed struct {
	Level     int
	Remaining int
}

func (SpellSlotUsed) isEffect() {}

// ConcentrationBroken records a concentration spell ending because a
// concentration saving throw failed. Casting a new concentration spell
// emits only ConcentrationStarted, which replaces the old one in Apply.
type ConcentrationBroken struct {
	CharacterID world.CombatantID
	SpellName   string
}

func (ConcentrationBroken) isEffect() {}

// ConcentrationStarted records a caster beginning concentration on a
// spell. At most one may be active per character — the applier clears any
// prior ConcentratedSpell before setting the new one.
type ConcentrationStarted struct {
	CasterID  world.CombatantID
	SpellName string
}

func (ConcentrationStarted) isEffect() {}

// RestCompleted records a short or long rest finishing.
type RestCompleted struct {
	RestType RestType
}

func (RestCompleted) isEffect() {}

// CheckSucceeded records a skill/ability/saving-throw check meeting its DC.
type CheckSucceeded struct {
	CheckType string
	Roll      int
	DC        int
}

func (CheckSucceeded) isEffect() {}

// CheckFailed records a skill/ability/saving-throw check missing its DC.
type CheckFailed struct {
	CheckType string
	Roll      int
	DC        int
}

func (CheckFailed) isEffect() {}

// AttackHit records a successful attack roll.
type AttackHit struct {
	AttackerName string
	TargetName   string
	AttackRoll   int
	TargetAC     int
	IsCritical   bool
}

func (AttackHit) isEffect() {}

// AttackMissed records a failed attack roll.
type AttackMissed struct {
	AttackerName string
	TargetName   string
	AttackRoll   int
	TargetAC     int
}

func (AttackMissed) isEffect() {}

// FactRemembered signals that a fact should be written into story memory.
// The rules engine only produces the effect; internal/agent is what
// actually calls into internal/memory.
type FactRemembered struct {
	SubjectName     string
	SubjectType     string
	Fact            string
	Category        string
	RelatedEntities []string
	Importance      float32
}

func (FactRemembered) isEffect() {}
