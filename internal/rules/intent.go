package rules

import (
	"github.com/dndai/dmcore/internal/dice"
	"github.com/dndai/dmcore/internal/world"
)

// Intent represents what a character (or the environment) wants to do.
// The DM agent or tool parser produces intents; the RulesEngine resolves
// them into Effects. Intent is a closed sum type: every implementation
// lives in this file and carries the unexported isIntent marker.
type Intent interface {
	isIntent()
}

// Attack is a weapon or unarmed strike against a target.
type Attack struct {
	AttackerID world.CombatantID
	TargetID   world.CombatantID
	WeaponName string
	Advantage  dice.Advantage
}

func (Attack) isIntent() {}

// CastSpell casts a spell, optionally at one or more targets.
type CastSpell struct {
	CasterID   world.CombatantID
	SpellName  string
	Targets    []world.CombatantID
	SpellLevel int
	// Concentration marks the spell as requiring concentration; the
	// applier records it on the caster's SpellcastingData, clearing any
	// prior concentration (at most one at a time).
	Concentration bool
}

func (CastSpell) isIntent() {}

// SkillCheck rolls a skill check against a DC.
type SkillCheck struct {
	CharacterID world.CombatantID
	Skill       world.Skill
	DC          int
	Advantage   dice.Advantage
	Description string
}

func (SkillCheck) isIntent() {}

// AbilityCheck rolls a raw ability check (not tied to a specific skill).
type AbilityCheck struct {
	CharacterID world.CombatantID
	Ability     world.Ability
	DC          int
	Advantage   dice.Advantage
	Description string
}

func (AbilityCheck) isIntent() {}

// SavingThrow rolls a saving throw against a DC. When ConcentrationCheck is
// set, a failed save also emits ConcentrationBroken. The tool parser never
// sets it; the forced save after a Damage intent is rolled inside
// resolveDamage, not through this intent.
type SavingThrow struct {
	CharacterID        world.CombatantID
	Ability            world.Ability
	DC                 int
	Advantage          dice.Advantage
	Source             string
	ConcentrationCheck bool
}

func (SavingThrow) isIntent() {}

// Damage deals damage to a target, identified uniformly by CombatantID —
// there is no player-privileged path (design note #2).
type Damage struct {
	TargetID   world.CombatantID
	Amount     int
	DamageType DamageType
	Source     string
}

func (Damage) isIntent() {}

// Heal restores hit points to a target.
type Heal struct {
	TargetID world.CombatantID
	Amount   int
	Source   string
}

func (Heal) isIntent() {}

// ApplyCondition applies a condition to a target, with an optional
// round-based duration.
type ApplyCondition struct {
	TargetID       world.CombatantID
	Condition      world.Condition
	Source         string
	DurationRounds *int
}

func (ApplyCondition) isIntent() {}

// RemoveCondition clears a condition from a target.
type RemoveCondition struct {
	TargetID  world.CombatantID
	Condition world.Condition
}

func (RemoveCondition) isIntent() {}

// Move repositions a character.
type Move struct {
	CharacterID  world.CombatantID
	Destination  string
	DistanceFeet int
}

func (Move) isIntent() {}

// ShortRestIntent takes a one-hour short rest.
type ShortRestIntent struct{}

func (ShortRestIntent) isIntent() {}

// LongRestIntent takes an eight-hour long rest.
type LongRestIntent struct{}

func (LongRestIntent) isIntent() {}

// CombatantInit seeds one combatant when combat begins. InitiativeModifier
// is read explicitly for every combatant, player or NPC alike — the
// resolver never hardcodes a modifier of zero (design note #1).
type CombatantInit struct {
	ID                 world.CombatantID
	Name               string
	IsPlayer           bool
	IsAlly             bool
	CurrentHP          int
	MaxHP              int
	InitiativeModifier int
}

// StartCombat begins an encounter and rolls initiative for every listed
// combatant.
type StartCombat struct {
	Combatants []CombatantInit
}

func (StartCombat) isIntent() {}

// EndCombat ends the active encounter.
type EndCombat struct{}

func (EndCombat) isIntent() {}

// NextTurnIntent advances the initiative order by one combatant.
type NextTurnIntent struct{}

func (NextTurnIntent) isIntent() {}

// RollInitiative rolls initiative for a single character outside of
// StartCombat (e.g. a reinforcement joining mid-encounter).
type RollInitiative struct {
	CharacterID world.CombatantID
	Name        string
	Modifier    int
	IsPlayer    bool
}

func (RollInitiative) isIntent() {}

// RollDice performs a free-standing dice roll not tied to a specific
// mechanic (loot tables, random encounters, flavor rolls).
type RollDice struct {
	Notation string
	Purpose  string
}

func (RollDice) isIntent() {}

// AdvanceTime advances the game clock by the given number of minutes.
type AdvanceTime struct {
	Minutes int
}

func (AdvanceTime) isIntent() {}

// GainExperience awards experience points, possibly triggering a level up.
type GainExperience struct {
	Amount int
}

func (GainExperience) isIntent() {}

// UseFeature expends one use of a limited-use class or racial feature.
type UseFeature struct {
	CharacterID world.CombatantID
	FeatureName string
}

func (UseFeature) isIntent() {}

// RememberFact records a story fact for narrative consistency. The rules
// engine only confirms the intent in its narrative; the DM agent is
// responsible for actually writing the fact into story memory.
type RememberFact struct {
	SubjectName      string
	SubjectType      string
	Fact             string
	Category         string
	RelatedEntities  []string
	Importance       float32
}

func (RememberFact) isIntent() {}
