package tools

import (
	"strings"

	"github.com/dndai/dmcore/internal/dice"
	"github.com/dndai/dmcore/internal/rules"
	"github.com/dndai/dmcore/internal/world"
)

// normalize lowercases and strips underscores, matching tools.rs's
// `s.to_lowercase().replace('_', "")` comparison key.
func normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "_", "")
}

func parseSkill(s string) (world.Skill, bool) {
	switch normalize(s) {
	case "athletics":
		return world.Athletics, true
	case "acrobatics":
		return world.Acrobatics, true
	case "sleightofhand":
		return world.SleightOfHand, true
	case "stealth":
		return world.Stealth, true
	case "arcana":
		return world.Arcana, true
	case "history":
		return world.History, true
	case "investigation":
		return world.Investigation, true
	case "nature":
		return world.Nature, true
	case "religion":
		return world.Religion, true
	case "animalhandling":
		return world.AnimalHandling, true
	case "insight":
		return world.Insight, true
	case "medicine":
		return world.Medicine, true
	case "perception":
		return world.Perception, true
	case "survival":
		return world.Survival, true
	case "deception":
		return world.Deception, true
	case "intimidation":
		return world.Intimidation, true
	case "performance":
		return world.Performance, true
	case "persuasion":
		return world.Persuasion, true
	default:
		return 0, false
	}
}

// parseAbility accepts both full names and the three-letter abbreviations
// tools.rs accepts ("str", "dex", ...).
func parseAbility(s string) (world.Ability, bool) {
	switch strings.ToLower(s) {
	case "strength", "str":
		return world.Strength, true
	case "dexterity", "dex":
		return world.Dexterity, true
	case "constitution", "con":
		return world.Constitution, true
	case "intelligence", "int":
		return world.Intelligence, true
	case "wisdom", "wis":
		return world.Wisdom, true
	case "charisma", "cha":
		return world.Charisma, true
	default:
		return 0, false
	}
}

func parseAdvantage(s string) dice.Advantage {
	switch strings.ToLower(s) {
	case "advantage":
		return dice.Advantage
	case "disadvantage":
		return dice.Disadvantage
	default:
		return dice.Normal
	}
}

func parseDamageType(s string) (rules.DamageType, bool) {
	switch strings.ToLower(s) {
	case "slashing":
		return rules.Slashing, true
	case "piercing":
		return rules.Piercing, true
	case "bludgeoning":
		return rules.Bludgeoning, true
	case "fire":
		return rules.Fire, true
	case "cold":
		return rules.Cold, true
	case "lightning":
		return rules.Lightning, true
	case "thunder":
		return rules.Thunder, true
	case "acid":
		return rules.Acid, true
	case "poison":
		return rules.Poison, true
	case "necrotic":
		return rules.Necrotic, true
	case "radiant":
		return rules.Radiant, true
	case "force":
		return rules.Force, true
	case "psychic":
		return rules.Psychic, true
	default:
		return 0, false
	}
}

func parseCondition(s string) (world.Condition, bool) {
	switch strings.ToLower(s) {
	case "blinded":
		return world.Blinded, true
	case "charmed":
		return world.Charmed, true
	case "deafened":
		return world.Deafened, true
	case "frightened":
		return world.Frightened, true
	case "grappled":
		return world.Grappled, true
	case "incapacitated":
		return world.Incapacitated, true
	case "invisible":
		return world.Invisible, true
	case "paralyzed":
		return world.Paralyzed, true
	case "petrified":
		return world.Petrified, true
	case "poisoned":
		return world.Poisoned, true
	case "prone":
		return world.Prone, true
	case "restrained":
		return world.Restrained, true
	case "stunned":
		return world.Stunned, true
	case "unconscious":
		return world.Unconscious, true
	default:
		return 0, false
	}
}
