package world

import "sort"

// Combatant is one row in a CombatState's initiative order.
type Combatant struct {
	ID                 CombatantID
	CharacterID        CharacterID
	Name               string
	Initiative         int
	InitiativeModifier int
	IsPlayer           bool
	IsAlly             bool
	CurrentHP          int
	MaxHP              int
}

// CombatState is the ordered initiative tracker for an active encounter.
type CombatState struct {
	Combatants []Combatant
	TurnIndex  int
	Round      int
}

// NewCombatState starts an empty encounter at round 1.
func NewCombatState() *CombatState {
	return &CombatState{Round: 1}
}

// AddCombatant appends a combatant and restores stable descending-
// initiative order (ties preserve insertion order) — the applier's
// responsibility per SPEC_FULL.md §4.4.
func (cs *CombatState) AddCombatant(c Combatant) {
	cs.Combatants = append(cs.Combatants, c)
	sort.SliceStable(cs.Combatants, func(i, j int) bool {
		return cs.Combatants[i].Initiative > cs.Combatants[j].Initiative
	})
}

// NextTurn advances the turn index, wrapping to the next round when it
// cycles back to the first combatant.
func (cs *CombatState) NextTurn() {
	if len(cs.Combatants) == 0 {
		return
	}
	cs.TurnIndex = (cs.TurnIndex + 1) % len(cs.Combatants)
	if cs.TurnIndex == 0 {
		cs.Round++
	}
}

// Current returns the combatant whose turn it currently is.
func (cs *CombatState) Current() *Combatant {
	if len(cs.Combatants) == 0 || cs.TurnIndex >= len(cs.Combatants) {
		return nil
	}
	return &cs.Combatants[cs.TurnIndex]
}

// Find returns the combatant with the given id, if present.
func (cs *CombatState) Find(id CombatantID) *Combatant {
	for i := range cs.Combatants {
		if cs.Combatants[i].ID == id {
			return &cs.Combatants[i]
		}
	}
	return nil
}

// End clears the encounter back to its zero state.
func (cs *CombatState) End() {
	cs.Combatants = nil
	cs.TurnIndex = 0
	cs.Round = 0
}
