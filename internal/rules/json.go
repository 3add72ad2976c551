package rules

import (
	"encoding/json"

	"github.com/dndai/dmcore/internal/errors"
)

// MarshalIntent encodes an Intent as a JSON object carrying a snake_case
// "type" discriminator alongside the variant's own fields, per SPEC_FULL.md
// §6.3's tagged-variant convention.
func MarshalIntent(intent Intent) ([]byte, error) {
	name, ok := intentTypeName(intent)
	if !ok {
		return nil, errors.InvalidArgumentf("rules: cannot marshal unknown intent type %T", intent)
	}
	return marshalTagged(name, intent)
}

// UnmarshalIntent decodes a JSON object produced by MarshalIntent back into
// its concrete Intent variant.
func UnmarshalIntent(data []byte) (Intent, error) {
	tag, err := peekType(data)
	if err != nil {
		return nil, err
	}
	factory, ok := intentFactories[tag]
	if !ok {
		return nil, errors.InvalidArgumentf("rules: unknown intent type %q", tag)
	}
	return factory(data)
}

// MarshalEffect encodes an Effect the same way MarshalIntent encodes an
// Intent.
func MarshalEffect(effect Effect) ([]byte, error) {
	name, ok := effectTypeName(effect)
	if !ok {
		return nil, errors.InvalidArgumentf("rules: cannot marshal unknown effect type %T", effect)
	}
	return marshalTagged(name, effect)
}

// UnmarshalEffect decodes a JSON object produced by MarshalEffect back into
// its concrete Effect variant.
func UnmarshalEffect(data []byte) (Effect, error) {
	tag, err := peekType(data)
	if err != nil {
		return nil, err
	}
	factory, ok := effectFactories[tag]
	if !ok {
		return nil, errors.InvalidArgumentf("rules: unknown effect type %q", tag)
	}
	return factory(data)
}

func marshalTagged(typeName string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "marshal tagged payload")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, errors.Wrap(err, "decode tagged payload fields")
	}
	tagged, err := json.Marshal(typeName)
	if err != nil {
		return nil, errors.Wrap(err, "marshal type tag")
	}
	fields["type"] = tagged
	out, err := json.Marshal(fields)
	if err != nil {
		return nil, errors.Wrap(err, "marshal tagged envelope")
	}
	return out, nil
}

func peekType(data []byte) (string, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return "", errors.Wrap(err, "decode type discriminator")
	}
	if envelope.Type == "" {
		return "", errors.InvalidArgumentf("rules: missing type discriminator")
	}
	return envelope.Type, nil
}

func intentTypeName(intent Intent) (string, bool) {
	switch intent.(type) {
	case Attack:
		return "attack", true
	case CastSpell:
		return "cast_spell", true
	case SkillCheck:
		return "skill_check", true
	case AbilityCheck:
		return "ability_check", true
	case SavingThrow:
		return "saving_throw", true
	case Damage:
		return "damage", true
	case Heal:
		return "heal", true
	case ApplyCondition:
		return "apply_condition", true
	case RemoveCondition:
		return "remove_condition", true
	case Move:
		return "move", true
	case ShortRestIntent:
		return "short_rest", true
	case LongRestIntent:
		return "long_rest", true
	case StartCombat:
		return "start_combat", true
	case EndCombat:
		return "end_combat", true
	case NextTurnIntent:
		return "next_turn", true
	case RollInitiative:
		return "roll_initiative", true
	case RollDice:
		return "roll_dice", true
	case AdvanceTime:
		return "advance_time", true
	case GainExperience:
		return "gain_experience", true
	case UseFeature:
		return "use_feature", true
	case RememberFact:
		return "remember_fact", true
	default:
		return "", false
	}
}

var intentFactories = map[string]func([]byte) (Intent, error){
	"attack":           decodeIntent[Attack],
	"cast_spell":       decodeIntent[CastSpell],
	"skill_check":      decodeIntent[SkillCheck],
	"ability_check":    decodeIntent[AbilityCheck],
	"saving_throw":     decodeIntent[SavingThrow],
	"damage":           decodeIntent[Damage],
	"heal":             decodeIntent[Heal],
	"apply_condition":  decodeIntent[ApplyCondition],
	"remove_condition": decodeIntent[RemoveCondition],
	"move":             decodeIntent[Move],
	"short_rest":       decodeIntent[ShortRestIntent],
	"long_rest":        decodeIntent[LongRestIntent],
	"start_combat":     decodeIntent[StartCombat],
	"end_combat":       decodeIntent[EndCombat],
	"next_turn":        decodeIntent[NextTurnIntent],
	"roll_initiative":  decodeIntent[RollInitiative],
	"roll_dice":        decodeIntent[RollDice],
	"advance_time":     decodeIntent[AdvanceTime],
	"gain_experience":  decodeIntent[GainExperience],
	"use_feature":      decodeIntent[UseFeature],
	"remember_fact":    decodeIntent[RememberFact],
}

func effectTypeName(effect Effect) (string, bool) {
	switch effect.(type) {
	case DiceRolled:
		return "dice_rolled", true
	case HpChanged:
		return "hp_changed", true
	case ConditionApplied:
		return "condition_applied", true
	case ConditionRemoved:
		return "condition_removed", true
	case CombatStarted:
		return "combat_started", true
	case CombatEnded:
		return "combat_ended", true
	case TurnAdvanced:
		return "turn_advanced", true
	case InitiativeRolled:
		return "initiative_rolled", true
	case CombatantAdded:
		return "combatant_added", true
	case TimeAdvanced:
		return "time_advanced", true
	case ExperienceGained:
		return "experience_gained", true
	case LevelUp:
		return "level_up", true
	case FeatureUsed:
		return "feature_used", true
	case SpellSlotUsed:
		return "spell_slot_used", true
	case ConcentrationBroken:
		return "concentration_broken", true
	case ConcentrationStarted:
		return "concentration_started", true
	case RestCompleted:
		return "rest_completed", true
	case CheckSucceeded:
		return "check_succeeded", true
	case CheckFailed:
		return "check_failed", true
	case AttackHit:
		return "attack_hit", true
	case AttackMissed:
		return "attack_missed", true
	case FactRemembered:
		return "fact_remembered", true
	default:
		return "", false
	}
}

var effectFactories = map[string]func([]byte) (Effect, error){
	"dice_rolled":           decodeEffect[DiceRolled],
	"hp_changed":            decodeEffect[HpChanged],
	"condition_applied":     decodeEffect[ConditionApplied],
	"condition_removed":     decodeEffect[ConditionRemoved],
	"combat_started":        decodeEffect[CombatStarted],
	"combat_ended":          decodeEffect[CombatEnded],
	"turn_advanced":         decodeEffect[TurnAdvanced],
	"initiative_rolled":     decodeEffect[InitiativeRolled],
	"combatant_added":       decodeEffect[CombatantAdded],
	"time_advanced":         decodeEffect[TimeAdvanced],
	"experience_gained":     decodeEffect[ExperienceGained],
	"level_up":              decodeEffect[LevelUp],
	"feature_used":          decodeEffect[FeatureUsed],
	"spell_slot_used":       decodeEffect[SpellSlotUsed],
	"concentration_broken":  decodeEffect[ConcentrationBroken],
	"concentration_started": decodeEffect[ConcentrationStarted],
	"rest_completed":        decodeEffect[RestCompleted],
	"check_succeeded":       decodeEffect[CheckSucceeded],
	"check_failed":          decodeEffect[CheckFailed],
	"attack_hit":            decodeEffect[AttackHit],
	"attack_missed":         decodeEffect[AttackMissed],
	"fact_remembered":       decodeEffect[FactRemembered],
}

// decodeIntent decodes raw JSON into a concrete Intent variant T, boxed as
// the Intent interface.
func decodeIntent[T Intent](data []byte) (Intent, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrap(err, "decode tagged intent payload")
	}
	return v, nil
}

// decodeEffect decodes raw JSON into a concrete Effect variant T, boxed as
// the Effect interface.
func decodeEffect[T Effect](data []byte) (Effect, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrap(err, "decode tagged effect payload")
	}
	return v, nil
}
