package rules

import (
	"fmt"

	"github.com/dndai/dmcore/internal/dice"
	"github.com/dndai/dmcore/internal/world"
)

// xpThresholds are the cumulative experience totals for levels 1-20.
var xpThresholds = [...]int{
	0, 300, 900, 2700, 6500, 14000, 23000, 34000, 48000, 64000,
	85000, 100000, 120000, 140000, 165000, 195000, 225000, 265000, 305000, 355000,
}

// Engine resolves Intents into Effects using 5e rules; Apply commits those
// effects to a GameWorld. Resolution reads the world and leaves it as it
// is, with one exception: resolving a CastSpell consumes the spell slot
// from the caster's live slot pool, and the SpellSlotUsed effect it emits
// is a no-op in Apply.
type Engine struct {
	roller dice.Roller
}

// NewEngine builds a rules engine that draws from the given roller for
// every dice resolution.
func NewEngine(roller dice.Roller) *Engine {
	return &Engine{roller: roller}
}

// Resolve dispatches an Intent to its resolver and returns the Resolution.
func (e *Engine) Resolve(w *world.GameWorld, intent Intent) Resolution {
	switch i := intent.(type) {
	case Attack:
		return e.resolveAttack(w, i)
	case CastSpell:
		return e.resolveCastSpell(w, i)
	case SkillCheck:
		return e.resolveSkillCheck(w, i)
	case AbilityCheck:
		return e.resolveAbilityCheck(w, i)
	case SavingThrow:
		return e.resolveSavingThrow(w, i)
	case Damage:
		return e.resolveDamage(w, i)
	case Heal:
		return e.resolveHeal(w, i)
	case ApplyCondition:
		return e.resolveApplyCondition(i)
	case RemoveCondition:
		return e.resolveRemoveCondition(i)
	case Move:
		return e.resolveMove(i)
	case ShortRestIntent:
		return e.resolveShortRest()
	case LongRestIntent:
		return e.resolveLongRest()
	case StartCombat:
		return e.resolveStartCombat(w, i)
	case EndCombat:
		return NewResolution("Combat ends.").WithEffect(CombatEnded{})
	case NextTurnIntent:
		return e.resolveNextTurn(w)
	case RollInitiative:
		return e.resolveRollInitiative(i)
	case RollDice:
		return e.resolveRollDice(i)
	case AdvanceTime:
		return e.resolveAdvanceTime(i)
	case GainExperience:
		return e.resolveGainExperience(w, i)
	case UseFeature:
		return e.resolveUseFeature(w, i)
	case RememberFact:
		return e.resolveRememberFact(i)
	default:
		return NewResolution("Intent not yet implemented")
	}
}

func (e *Engine) rollExpr(modifier int, adv dice.Advantage) (*dice.Result, error) {
	expr, err := dice.Parse(fmt.Sprintf("1d20%+d", modifier))
	if err != nil {
		return nil, err
	}
	return dice.RollWithAdvantage(*expr, adv, e.roller)
}

func (e *Engine) rollNotation(notation string) (*dice.Result, error) {
	expr, err := dice.Parse(notation)
	if err != nil {
		return nil, err
	}
	return dice.Roll(*expr, e.roller)
}

// targetCombatant resolves a CombatantID to its live row in the active
// encounter, uniformly for players and NPCs alike (design note #2) — there
// is no special-cased "is this the player" branch here.
func targetCombatant(w *world.GameWorld, id world.CombatantID) *world.Combatant {
	if w.Combat == nil {
		return nil
	}
	return w.Combat.Find(id)
}

func (e *Engine) resolveAttack(w *world.GameWorld, i Attack) Resolution {
	attacker := &w.PlayerCharacter

	targetName := "the target"
	// Combatants in this system track HP but not a stat-block AC; a typical
	// CR-appropriate AC stands in until the tool layer supplies a real one.
	targetAC := 15
	if target := targetCombatant(w, i.TargetID); target != nil {
		targetName = target.Name
	}

	attackMod := attacker.AbilityScores.Modifier(world.Strength) + attacker.ProficiencyBonus()
	attackResult, err := e.rollExpr(attackMod, i.Advantage)
	if err != nil {
		return NewResolution(fmt.Sprintf("could not resolve attack: %v", err))
	}

	resolution := NewResolution(fmt.Sprintf(
		"%s attacks %s with %s (roll: %d vs AC %d)", attacker.Name, targetName, i.WeaponName, attackResult.Total, targetAC,
	)).WithEffect(DiceRolled{Roll: *attackResult, Purpose: fmt.Sprintf("Attack with %s", i.WeaponName)})

	if attackResult.Total >= targetAC || attackResult.IsCritical() {
		resolution = resolution.WithEffect(AttackHit{
			AttackerName: attacker.Name,
			TargetName:   targetName,
			AttackRoll:   attackResult.Total,
			TargetAC:     targetAC,
			IsCritical:   attackResult.IsCritical(),
		})

		parsedDamage, err := dice.Parse("1d8+3")
		if err == nil {
			damageExpr := *parsedDamage
			if attackResult.IsCritical() {
				damageExpr = damageExpr.DoubleDice()
			}
			if damageResult, err := dice.Roll(damageExpr, e.roller); err == nil {
				resolution = resolution.WithEffect(DiceRolled{Roll: *damageResult, Purpose: "Damage"})
			}
		}
	} else {
		resolution = resolution.WithEffect(AttackMissed{
			AttackerName: attacker.Name,
			TargetName:   targetName,
			AttackRoll:   attackResult.Total,
			TargetAC:     targetAC,
		})
	}

	return resolution
}

func (e *Engine) resolveCastSpell(w *world.GameWorld, i CastSpell) Resolution {
	caster := &w.PlayerCharacter
	resolution := NewResolution(fmt.Sprintf("%s casts %s", caster.Name, i.SpellName))

	if caster.Spellcasting != nil && i.SpellLevel > 0 {
		if caster.Spellcasting.SpellSlots.UseSlot(i.SpellLevel) {
			slot, _ := caster.Spellcasting.SpellSlots.Get(i.SpellLevel)
			resolution = resolution.WithEffect(SpellSlotUsed{Level: i.SpellLevel, Remaining: slot.Available()})
		}
	}

	if i.Concentration {
		resolution = resolution.WithEffect(ConcentrationStarted{CasterID: i.CasterID, SpellName: i.SpellName})
	}

	return resolution
}

func (e *Engine) resolveSkillCheck(w *world.GameWorld, i SkillCheck) Resolution {
	character := &w.PlayerCharacter
	modifier := character.SkillModifier(i.Skill)

	result, err := e.rollExpr(modifier, i.Advantage)
	if err != nil {
		return NewResolution(fmt.Sprintf("could not resolve skill check: %v", err))
	}

	success := result.Total >= i.DC
	resultStr := "succeeds"
	if !success {
		resultStr = "fails"
	}

	resolution := NewResolution(fmt.Sprintf(
		"%s %s (%s check: %d vs DC %d)", character.Name, resultStr, i.Skill.String(), result.Total, i.DC,
	)).WithEffect(DiceRolled{Roll: *result, Purpose: fmt.Sprintf("%s check - %s", i.Skill.String(), i.Description)})

	if success {
		return resolution.WithEffect(CheckSucceeded{CheckType: i.Skill.String(), Roll: result.Total, DC: i.DC})
	}
	return resolution.WithEffect(CheckFailed{CheckType: i.Skill.String(), Roll: result.Total, DC: i.DC})
}

func (e *Engine) resolveAbilityCheck(w *world.GameWorld, i AbilityCheck) Resolution {
	character := &w.PlayerCharacter
	modifier := character.AbilityScores.Modifier(i.Ability)

	result, err := e.rollExpr(modifier, i.Advantage)
	if err != nil {
		return NewResolution(fmt.Sprintf("could not resolve ability check: %v", err))
	}

	success := result.Total >= i.DC
	resultStr := "succeeds"
	if !success {
		resultStr = "fails"
	}

	resolution := NewResolution(fmt.Sprintf(
		"%s %s (%s check: %d vs DC %d)", character.Name, resultStr, i.Ability.String(), result.Total, i.DC,
	)).WithEffect(DiceRolled{Roll: *result, Purpose: fmt.Sprintf("%s check - %s", i.Ability.String(), i.Description)})

	if success {
		return resolution.WithEffect(CheckSucceeded{CheckType: i.Ability.String(), Roll: result.Total, DC: i.DC})
	}
	return resolution.WithEffect(CheckFailed{CheckType: i.Ability.String(), Roll: result.Total, DC: i.DC})
}

func (e *Engine) resolveSavingThrow(w *world.GameWorld, i SavingThrow) Resolution {
	character := &w.PlayerCharacter
	modifier := character.SavingThrowModifier(i.Ability)

	result, err := e.rollExpr(modifier, i.Advantage)
	if err != nil {
		return NewResolution(fmt.Sprintf("could not resolve saving throw: %v", err))
	}

	success := result.Total >= i.DC
	resultStr := "succeeds"
	if !success {
		resultStr = "fails"
	}

	resolution := NewResolution(fmt.Sprintf(
		"%s %s on %s saving throw (%d vs DC %d)", character.Name, resultStr, i.Ability.String(), result.Total, i.DC,
	)).WithEffect(DiceRolled{Roll: *result, Purpose: fmt.Sprintf("%s save vs %s", i.Ability.String(), i.Source)})

	checkType := i.Ability.String() + " save"
	if success {
		resolution = resolution.WithEffect(CheckSucceeded{CheckType: checkType, Roll: result.Total, DC: i.DC})
	} else {
		resolution = resolution.WithEffect(CheckFailed{CheckType: checkType, Roll: result.Total, DC: i.DC})
		if i.ConcentrationCheck && character.Spellcasting != nil && character.Spellcasting.Concentration != nil {
			resolution = resolution.WithEffect(ConcentrationBroken{
				CharacterID: i.CharacterID,
				SpellName:   character.Spellcasting.Concentration.SpellName,
			})
		}
	}

	return resolution
}

// resolveDamage applies damage uniformly to whichever combatant TargetID
// names. Outside of active combat the only tracked HP pool is the player
// character's, so that is the fallback target (design note #2: no
// privileged path when a real combatant row exists).
func (e *Engine) resolveDamage(w *world.GameWorld, i Damage) Resolution {
	var name string
	var hp world.HitPoints
	var concentrated *world.ConcentratedSpell

	if target := targetCombatant(w, i.TargetID); target != nil {
		name = target.Name
		hp = world.HitPoints{Current: target.CurrentHP, Maximum: target.MaxHP}
		if target.IsPlayer && w.PlayerCharacter.Spellcasting != nil {
			concentrated = w.PlayerCharacter.Spellcasting.Concentration
		}
	} else {
		name = w.PlayerCharacter.Name
		hp = w.PlayerCharacter.HitPoints
		if w.PlayerCharacter.Spellcasting != nil {
			concentrated = w.PlayerCharacter.Spellcasting.Concentration
		}
	}

	result := hp.TakeDamage(i.Amount)

	hpStatus := describeHPStatus(hp)
	resolution := NewResolution(fmt.Sprintf(
		"%s takes %d %s damage from %s%s", name, i.Amount, i.DamageType.String(), i.Source, hpStatus,
	)).WithEffect(HpChanged{
		TargetID:      i.TargetID,
		Amount:        -i.Amount,
		NewCurrent:    hp.Current,
		NewMax:        hp.Maximum,
		DroppedToZero: result.DroppedToZero,
		MassiveDamage: result.MassiveDamage,
	})

	// A hit against a concentrating caster forces a CON save at DC
	// max(10, half the damage taken), resolved here rather than left for
	// the agent to remember to ask for (design note #5).
	if concentrated != nil && !result.DroppedToZero {
		dc := 10
		if half := i.Amount / 2; half > dc {
			dc = half
		}

		conMod := w.PlayerCharacter.SavingThrowModifier(world.Constitution)
		saveRoll, err := e.rollExpr(conMod, dice.Normal)
		if err == nil {
			resolution = resolution.WithEffect(DiceRolled{Roll: *saveRoll, Purpose: "Concentration check"})
			if saveRoll.Total >= dc {
				resolution = resolution.WithEffect(CheckSucceeded{CheckType: "concentration save", Roll: saveRoll.Total, DC: dc})
			} else {
				resolution = resolution.WithEffect(CheckFailed{CheckType: "concentration save", Roll: saveRoll.Total, DC: dc})
				resolution = resolution.WithEffect(ConcentrationBroken{
					CharacterID: i.TargetID,
					SpellName:   concentrated.SpellName,
				})
			}
		}
	}

	return resolution
}

func describeHPStatus(hp world.HitPoints) string {
	switch {
	case hp.IsUnconscious():
		return fmt.Sprintf(" (HP: 0/%d - UNCONSCIOUS! Character falls and begins making death saving throws)", hp.Maximum)
	case hp.Maximum > 0 && hp.Current <= hp.Maximum/4:
		return fmt.Sprintf(" (HP: %d/%d - critically wounded)", hp.Current, hp.Maximum)
	case hp.Maximum > 0 && hp.Current <= hp.Maximum/2:
		return fmt.Sprintf(" (HP: %d/%d - bloodied)", hp.Current, hp.Maximum)
	default:
		return fmt.Sprintf(" (HP: %d/%d)", hp.Current, hp.Maximum)
	}
}

func (e *Engine) resolveHeal(w *world.GameWorld, i Heal) Resolution {
	var name string
	var hp world.HitPoints

	if target := targetCombatant(w, i.TargetID); target != nil {
		name = target.Name
		hp = world.HitPoints{Current: target.CurrentHP, Maximum: target.MaxHP}
	} else {
		name = w.PlayerCharacter.Name
		hp = w.PlayerCharacter.HitPoints
	}

	wasUnconscious := hp.Current <= 0
	healed := hp.Heal(i.Amount)

	var hpStatus string
	switch {
	case wasUnconscious && hp.Current > 0:
		hpStatus = fmt.Sprintf(" (HP: %d/%d - regains consciousness!)", hp.Current, hp.Maximum)
	case hp.Current == hp.Maximum:
		hpStatus = fmt.Sprintf(" (HP: %d/%d - fully healed)", hp.Current, hp.Maximum)
	default:
		hpStatus = fmt.Sprintf(" (HP: %d/%d)", hp.Current, hp.Maximum)
	}

	return NewResolution(fmt.Sprintf(
		"%s heals %d hit points from %s%s", name, healed, i.Source, hpStatus,
	)).WithEffect(HpChanged{
		TargetID:   i.TargetID,
		Amount:     healed,
		NewCurrent: hp.Current,
		NewMax:     hp.Maximum,
	})
}

func (e *Engine) resolveApplyCondition(i ApplyCondition) Resolution {
	return NewResolution(fmt.Sprintf("%s condition applied (%s)", i.Condition.String(), i.Source)).
		WithEffect(ConditionApplied{TargetID: i.TargetID, Condition: i.Condition, Source: i.Source})
}

func (e *Engine) resolveRemoveCondition(i RemoveCondition) Resolution {
	return NewResolution(fmt.Sprintf("%s condition removed", i.Condition.String())).
		WithEffect(ConditionRemoved{TargetID: i.TargetID, Condition: i.Condition})
}

func (e *Engine) resolveMove(i Move) Resolution {
	return NewResolution(fmt.Sprintf("Moving to %s (%d ft)", i.Destination, i.DistanceFeet))
}

func (e *Engine) resolveShortRest() Resolution {
	return NewResolution("The party takes a short rest, spending 1 hour resting.").
		WithEffect(TimeAdvanced{Minutes: 60}).
		WithEffect(RestCompleted{RestType: ShortRestType})
}

func (e *Engine) resolveLongRest() Resolution {
	return NewResolution("The party takes a long rest, spending 8 hours resting.").
		WithEffect(TimeAdvanced{Minutes: 480}).
		WithEffect(RestCompleted{RestType: LongRestType})
}

func (e *Engine) resolveStartCombat(w *world.GameWorld, i StartCombat) Resolution {
	resolution := NewResolution("Combat begins! Roll for initiative.").WithEffect(CombatStarted{})

	for _, init := range i.Combatants {
		roll, err := e.rollNotation("1d20")
		if err != nil {
			continue
		}
		total := roll.Total + init.InitiativeModifier

		resolution = resolution.WithEffect(InitiativeRolled{
			CharacterID: init.ID,
			Name:        init.Name,
			Roll:        roll.Total,
			Total:       total,
		}).WithEffect(CombatantAdded{
			ID:                 init.ID,
			Name:               init.Name,
			Initiative:         total,
			InitiativeModifier: init.InitiativeModifier,
			IsPlayer:           init.IsPlayer,
			IsAlly:             init.IsAlly,
			CurrentHP:          init.CurrentHP,
			MaxHP:              init.MaxHP,
		})
	}

	return resolution
}

func (e *Engine) resolveNextTurn(w *world.GameWorld) Resolution {
	if w.Combat == nil {
		return NewResolution("No combat in progress")
	}

	combatCopy := *w.Combat
	combatantsCopy := append([]world.Combatant(nil), w.Combat.Combatants...)
	combatCopy.Combatants = combatantsCopy
	combatCopy.NextTurn()

	current := "Unknown"
	if c := combatCopy.Current(); c != nil {
		current = c.Name
	}

	return NewResolution(fmt.Sprintf("Next turn: %s (Round %d)", current, combatCopy.Round)).
		WithEffect(TurnAdvanced{Round: combatCopy.Round, CurrentCombatant: current})
}

func (e *Engine) resolveRollInitiative(i RollInitiative) Resolution {
	roll, err := e.rollNotation("1d20")
	if err != nil {
		return NewResolution(fmt.Sprintf("could not roll initiative: %v", err))
	}
	total := roll.Total + i.Modifier

	return NewResolution(fmt.Sprintf("%s rolls initiative: %d + %d = %d", i.Name, roll.Total, i.Modifier, total)).
		WithEffect(DiceRolled{Roll: *roll, Purpose: "Initiative"}).
		WithEffect(InitiativeRolled{CharacterID: i.CharacterID, Name: i.Name, Roll: roll.Total, Total: total})
}

func (e *Engine) resolveRollDice(i RollDice) Resolution {
	result, err := e.rollNotation(i.Notation)
	if err != nil {
		return NewResolution(fmt.Sprintf("Failed to roll %s: %v", i.Notation, err))
	}
	return NewResolution(fmt.Sprintf("Rolling %s for %s: %s", i.Notation, i.Purpose, result.String())).
		WithEffect(DiceRolled{Roll: *result, Purpose: i.Purpose})
}

func (e *Engine) resolveAdvanceTime(i AdvanceTime) Resolution {
	hours := i.Minutes / 60
	mins := i.Minutes % 60

	var timeStr string
	switch {
	case hours > 0 && mins > 0:
		timeStr = fmt.Sprintf("%d hours and %d minutes", hours, mins)
	case hours > 0:
		timeStr = fmt.Sprintf("%d hours", hours)
	default:
		timeStr = fmt.Sprintf("%d minutes", mins)
	}

	return NewResolution(fmt.Sprintf("%s pass.", timeStr)).WithEffect(TimeAdvanced{Minutes: i.Minutes})
}

func (e *Engine) resolveGainExperience(w *world.GameWorld, i GainExperience) Resolution {
	newTotal := w.PlayerCharacter.Experience + i.Amount
	currentLevel := w.PlayerCharacter.Level

	newLevel := 1
	for idx, threshold := range xpThresholds {
		if newTotal >= threshold {
			newLevel = idx + 1
		}
	}

	resolution := NewResolution(fmt.Sprintf("Gained %d experience points (Total: %d)", i.Amount, newTotal)).
		WithEffect(ExperienceGained{Amount: i.Amount, NewTotal: newTotal})

	if newLevel > currentLevel {
		resolution = resolution.WithEffect(LevelUp{NewLevel: newLevel})
	}

	return resolution
}

func (e *Engine) resolveUseFeature(w *world.GameWorld, i UseFeature) Resolution {
	character := &w.PlayerCharacter

	for _, feature := range character.Features {
		if feature.Name != i.FeatureName {
			continue
		}
		if feature.Uses == nil {
			return NewResolution(fmt.Sprintf("%s uses %s", character.Name, i.FeatureName))
		}
		if feature.Uses.Current <= 0 {
			return NewResolution(fmt.Sprintf("%s has no uses of %s remaining", character.Name, i.FeatureName))
		}
		return NewResolution(fmt.Sprintf(
			"%s uses %s (%d uses remaining)", character.Name, i.FeatureName, feature.Uses.Current-1,
		)).WithEffect(FeatureUsed{FeatureName: i.FeatureName, UsesRemaining: feature.Uses.Current - 1})
	}

	return NewResolution(fmt.Sprintf("%s does not have the feature %s", character.Name, i.FeatureName))
}

func (e *Engine) resolveRememberFact(i RememberFact) Resolution {
	related := ""
	if len(i.RelatedEntities) > 0 {
		related = " (related: "
		for idx, r := range i.RelatedEntities {
			if idx > 0 {
				related += ", "
			}
			related += r
		}
		related += ")"
	}

	return NewResolution(fmt.Sprintf("Noted: %s (%s) - %s%s", i.SubjectName, i.SubjectType, i.Fact, related)).
		WithEffect(FactRemembered{
			SubjectName:     i.SubjectName,
			SubjectType:     i.SubjectType,
			Fact:            i.Fact,
			Category:        i.Category,
			RelatedEntities: i.RelatedEntities,
			Importance:      i.Importance,
		})
}
