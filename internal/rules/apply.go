package rules

import (
	"github.com/dndai/dmcore/internal/errors"
	"github.com/dndai/dmcore/internal/world"
)

// Apply commits every effect in order, stopping at the first error. Intents
// that resolve into no effects (e.g. a miss with no on-miss effect) apply
// cleanly as a no-op.
func Apply(w *world.GameWorld, effects []Effect) error {
	for _, effect := range effects {
		if err := ApplyEffect(w, effect); err != nil {
			return err
		}
	}
	return nil
}

// ApplyEffect mutates the world for a single effect. Effects that target a
// combatant look the CombatantID up in the active encounter
// (CombatState.Find); isPlayerTarget decides whether the player
// character's own HitPoints and Conditions are updated as well. Conditions
// are tracked for the player character only: a condition effect aimed at
// a non-player combatant changes nothing.
func ApplyEffect(w *world.GameWorld, effect Effect) error {
	switch eff := effect.(type) {
	case DiceRolled:
		return nil

	case HpChanged:
		applyHPChange(w, eff)
		return nil

	case ConditionApplied:
		applyCondition(w, eff.TargetID, eff.Condition, eff.Source)
		return nil

	case ConditionRemoved:
		removeCondition(w, eff.TargetID, eff.Condition)
		return nil

	case CombatStarted:
		w.StartCombat()
		return nil

	case CombatEnded:
		w.EndCombat()
		return nil

	case TurnAdvanced:
		if w.Combat == nil {
			return errors.InvalidArgumentf("turn advanced with no active combat")
		}
		w.Combat.NextTurn()
		return nil

	case InitiativeRolled:
		return nil

	case CombatantAdded:
		if w.Combat == nil {
			w.Combat = world.NewCombatState()
		}
		w.Combat.AddCombatant(world.Combatant{
			ID:                 eff.ID,
			Name:               eff.Name,
			Initiative:         eff.Initiative,
			InitiativeModifier: eff.InitiativeModifier,
			IsPlayer:           eff.IsPlayer,
			IsAlly:             eff.IsAlly,
			CurrentHP:          eff.CurrentHP,
			MaxHP:              eff.MaxHP,
		})
		return nil

	case TimeAdvanced:
		w.GameTime.AdvanceMinutes(eff.Minutes)
		return nil

	case ExperienceGained:
		w.PlayerCharacter.Experience = eff.NewTotal
		return nil

	case LevelUp:
		w.PlayerCharacter.Level = eff.NewLevel
		return nil

	case FeatureUsed:
		for i := range w.PlayerCharacter.Features {
			if w.PlayerCharacter.Features[i].Name == eff.FeatureName && w.PlayerCharacter.Features[i].Uses != nil {
				w.PlayerCharacter.Features[i].Uses.Current = eff.UsesRemaining
			}
		}
		return nil

	case SpellSlotUsed:
		return nil // already consumed against the live slot pool during resolution

	case ConcentrationBroken:
		if w.PlayerCharacter.Spellcasting != nil {
			w.PlayerCharacter.Spellcasting.Concentration = nil
		}
		return nil

	case ConcentrationStarted:
		// At most one concentration spell at a time: starting a new one
		// silently replaces whatever the caster was concentrating on.
		if w.PlayerCharacter.Spellcasting != nil {
			w.PlayerCharacter.Spellcasting.Concentration = &world.ConcentratedSpell{SpellName: eff.SpellName}
		}
		return nil

	case RestCompleted:
		switch eff.RestType {
		case ShortRestType:
			w.ShortRest()
		case LongRestType:
			w.LongRest()
		}
		return nil

	case CheckSucceeded, CheckFailed, AttackHit, AttackMissed:
		return nil

	case FactRemembered:
		return nil // internal/agent routes this into story memory

	default:
		return errors.InvalidArgumentf("unknown effect type %T", eff)
	}
}

// applyHPChange updates whichever HP pool(s) TargetID names. The player
// character's HitPoints is the authoritative pool for the player: when
// TargetID resolves to the player (in or out of combat), it is mutated
// first and then mirrored onto the player's combat row, if any. A
// non-player combatant's row is the only pool mutated for it. Dropping to
// zero pushes Unconscious onto the player (design note #2; spec.md §4.4,
// §3.1).
func applyHPChange(w *world.GameWorld, eff HpChanged) {
	isPlayer := isPlayerTarget(w, eff.TargetID)
	if isPlayer {
		w.PlayerCharacter.HitPoints.Current = eff.NewCurrent
		w.PlayerCharacter.HitPoints.Maximum = eff.NewMax
	}
	if w.Combat != nil {
		if c := w.Combat.Find(eff.TargetID); c != nil {
			c.CurrentHP = eff.NewCurrent
			c.MaxHP = eff.NewMax
		}
	}
	if isPlayer && eff.DroppedToZero {
		applyCondition(w, eff.TargetID, world.Unconscious, "Dropped to 0 HP")
	}
}

func applyCondition(w *world.GameWorld, targetID world.CombatantID, condition world.Condition, source string) {
	if isPlayerTarget(w, targetID) {
		for _, ac := range w.PlayerCharacter.Conditions {
			if ac.Condition == condition {
				return
			}
		}
		w.PlayerCharacter.Conditions = append(w.PlayerCharacter.Conditions, world.ActiveCondition{
			Condition: condition,
			Source:    source,
		})
	}
}

func removeCondition(w *world.GameWorld, targetID world.CombatantID, condition world.Condition) {
	if !isPlayerTarget(w, targetID) {
		return
	}
	kept := w.PlayerCharacter.Conditions[:0]
	for _, ac := range w.PlayerCharacter.Conditions {
		if ac.Condition != condition {
			kept = append(kept, ac)
		}
	}
	w.PlayerCharacter.Conditions = kept
}

// isPlayerTarget reports whether a CombatantID names the player character:
// either there is no matching combat row (meaning the target is the only
// HP pool this system tracks outside combat), or the matching row is
// flagged IsPlayer.
func isPlayerTarget(w *world.GameWorld, targetID world.CombatantID) bool {
	if w.Combat == nil {
		return true
	}
	c := w.Combat.Find(targetID)
	if c == nil {
		return true
	}
	return c.IsPlayer
}
