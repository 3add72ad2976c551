package tools

import (
	"encoding/json"
	"strings"

	"github.com/dndai/dmcore/internal/rules"
	"github.com/dndai/dmcore/internal/world"
	"github.com/google/uuid"
)

// ParseToolCall decodes one completed tool-use block into the Intent it
// names. It reads — but never mutates — world, e.g. to resolve the player
// character's id or to find a named combatant. An unrecognized tool name
// or a call missing a required field returns ok=false, which the agent
// surfaces to the LLM as a tool error so it can self-correct (spec.md §7,
// taxonomy item 1).
func ParseToolCall(name string, inputJSON []byte, w *world.GameWorld) (rules.Intent, bool) {
	var in map[string]any
	if len(inputJSON) > 0 {
		if err := json.Unmarshal(inputJSON, &in); err != nil {
			return nil, false
		}
	}

	switch name {
	case "roll_dice":
		notation, ok := getStr(in, "notation")
		if !ok {
			return nil, false
		}
		purpose := getStrOr(in, "purpose", "general roll")
		return rules.RollDice{Notation: notation, Purpose: purpose}, true

	case "skill_check":
		skillName, ok := getStr(in, "skill")
		if !ok {
			return nil, false
		}
		skill, ok := parseSkill(skillName)
		if !ok {
			return nil, false
		}
		dc, ok := getInt(in, "dc")
		if !ok {
			return nil, false
		}
		return rules.SkillCheck{
			CharacterID: playerCombatantID(w),
			Skill:       skill,
			DC:          dc,
			Advantage:   parseAdvantage(getStrOr(in, "advantage", "")),
			Description: getStrOr(in, "description", ""),
		}, true

	case "ability_check":
		abilityName, ok := getStr(in, "ability")
		if !ok {
			return nil, false
		}
		ability, ok := parseAbility(abilityName)
		if !ok {
			return nil, false
		}
		dc, ok := getInt(in, "dc")
		if !ok {
			return nil, false
		}
		return rules.AbilityCheck{
			CharacterID: playerCombatantID(w),
			Ability:     ability,
			DC:          dc,
			Advantage:   parseAdvantage(getStrOr(in, "advantage", "")),
			Description: getStrOr(in, "description", ""),
		}, true

	case "saving_throw":
		abilityName, ok := getStr(in, "ability")
		if !ok {
			return nil, false
		}
		ability, ok := parseAbility(abilityName)
		if !ok {
			return nil, false
		}
		dc, ok := getInt(in, "dc")
		if !ok {
			return nil, false
		}
		return rules.SavingThrow{
			CharacterID: playerCombatantID(w),
			Ability:     ability,
			DC:          dc,
			Advantage:   parseAdvantage(getStrOr(in, "advantage", "")),
			Source:      getStrOr(in, "source", "unknown"),
		}, true

	case "apply_damage":
		amount, ok := getInt(in, "amount")
		if !ok {
			return nil, false
		}
		typeName, ok := getStr(in, "damage_type")
		if !ok {
			return nil, false
		}
		damageType, ok := parseDamageType(typeName)
		if !ok {
			return nil, false
		}
		return rules.Damage{
			TargetID:   resolveTargetID(w, getStrOr(in, "target", ""), getStrOr(in, "target_name", "")),
			Amount:     amount,
			DamageType: damageType,
			Source:     getStrOr(in, "source", "unknown"),
		}, true

	case "apply_healing":
		amount, ok := getInt(in, "amount")
		if !ok {
			return nil, false
		}
		return rules.Heal{
			TargetID: resolveTargetID(w, getStrOr(in, "target", ""), getStrOr(in, "target_name", "")),
			Amount:   amount,
			Source:   getStrOr(in, "source", "healing"),
		}, true

	case "apply_condition":
		condName, ok := getStr(in, "condition")
		if !ok {
			return nil, false
		}
		condition, ok := parseCondition(condName)
		if !ok {
			return nil, false
		}
		var duration *int
		if d, ok := getInt(in, "duration_rounds"); ok {
			duration = &d
		}
		return rules.ApplyCondition{
			TargetID:       resolveTargetID(w, getStrOr(in, "target", ""), getStrOr(in, "target_name", "")),
			Condition:      condition,
			Source:         getStrOr(in, "source", "unknown"),
			DurationRounds: duration,
		}, true

	case "remove_condition":
		condName, ok := getStr(in, "condition")
		if !ok {
			return nil, false
		}
		condition, ok := parseCondition(condName)
		if !ok {
			return nil, false
		}
		return rules.RemoveCondition{
			TargetID:  resolveTargetID(w, getStrOr(in, "target", ""), getStrOr(in, "target_name", "")),
			Condition: condition,
		}, true

	case "start_combat":
		rawEnemies, ok := in["enemies"].([]any)
		if !ok {
			return nil, false
		}
		player := w.PlayerCharacter
		combatants := []rules.CombatantInit{{
			ID:                 playerCombatantID(w),
			Name:               player.Name,
			IsPlayer:           true,
			IsAlly:             true,
			CurrentHP:          player.HitPoints.Current,
			MaxHP:              player.HitPoints.Maximum,
			InitiativeModifier: player.AbilityScores.Modifier(world.Dexterity),
		}}
		for _, raw := range rawEnemies {
			enemy, _ := raw.(map[string]any)
			maxHP := getIntOr(enemy, "max_hp", 10)
			combatants = append(combatants, rules.CombatantInit{
				ID:                 world.NewCombatantID(),
				Name:               getStrOr(enemy, "name", "Enemy"),
				IsPlayer:           false,
				IsAlly:             false,
				CurrentHP:          getIntOr(enemy, "current_hp", maxHP),
				MaxHP:              maxHP,
				InitiativeModifier: getIntOr(enemy, "initiative_modifier", 0),
			})
		}
		return rules.StartCombat{Combatants: combatants}, true

	case "end_combat":
		return rules.EndCombat{}, true

	case "next_turn":
		return rules.NextTurnIntent{}, true

	case "short_rest":
		return rules.ShortRestIntent{}, true

	case "long_rest":
		return rules.LongRestIntent{}, true

	case "remember_fact":
		subjectName, ok := getStr(in, "subject_name")
		if !ok {
			return nil, false
		}
		subjectType, ok := getStr(in, "subject_type")
		if !ok {
			return nil, false
		}
		fact, ok := getStr(in, "fact")
		if !ok {
			return nil, false
		}
		category, ok := getStr(in, "category")
		if !ok {
			return nil, false
		}
		return rules.RememberFact{
			SubjectName:     subjectName,
			SubjectType:     subjectType,
			Fact:            fact,
			Category:        category,
			RelatedEntities: getStrArray(in, "related_entities"),
			Importance:      float32(getFloatOr(in, "importance", 0.7)),
		}, true

	case "cast_spell":
		spellName, ok := getStr(in, "spell_name")
		if !ok {
			return nil, false
		}
		var targets []world.CombatantID
		for _, targetName := range getStrArray(in, "target_names") {
			targets = append(targets, resolveTargetID(w, "", targetName))
		}
		return rules.CastSpell{
			CasterID:      playerCombatantID(w),
			SpellName:     spellName,
			Targets:       targets,
			SpellLevel:    getIntOr(in, "spell_level", 0),
			Concentration: getBoolOr(in, "concentration", false),
		}, true

	case "move":
		destination, ok := getStr(in, "destination")
		if !ok {
			return nil, false
		}
		return rules.Move{
			CharacterID:  playerCombatantID(w),
			Destination:  destination,
			DistanceFeet: getIntOr(in, "distance_feet", 0),
		}, true

	case "gain_experience":
		amount, ok := getInt(in, "amount")
		if !ok {
			return nil, false
		}
		return rules.GainExperience{Amount: amount}, true

	case "use_feature":
		featureName, ok := getStr(in, "feature_name")
		if !ok {
			return nil, false
		}
		return rules.UseFeature{
			CharacterID: playerCombatantID(w),
			FeatureName: featureName,
		}, true

	case "roll_initiative":
		charName, ok := getStr(in, "name")
		if !ok {
			return nil, false
		}
		return rules.RollInitiative{
			CharacterID: world.NewCombatantID(),
			Name:        charName,
			Modifier:    getIntOr(in, "modifier", 0),
			IsPlayer:    false,
		}, true

	default:
		return nil, false
	}
}

// playerCombatantID derives the player character's combatant id from its
// character id — the two id spaces share their underlying uuid, so the
// player's combat row (added by start_combat) is always reachable by this
// conversion.
func playerCombatantID(w *world.GameWorld) world.CombatantID {
	return world.CombatantID(uuid.UUID(w.PlayerCharacter.ID))
}

// resolveTargetID resolves a damage/heal/condition tool call's target onto
// a single CombatantID, uniformly through GameWorld.Combatants() rather
// than hardcoding the player (design note #2). targetName, when given,
// matches a combatant by case-insensitive name and takes precedence over
// the player/npc enum. An "npc" target with no matching combatant, or any
// call made outside of combat, falls back to the player — the only HP pool
// this system tracks outside an encounter.
func resolveTargetID(w *world.GameWorld, target, targetName string) world.CombatantID {
	combatants := w.Combatants()

	if targetName != "" {
		for id, c := range combatants {
			if strings.EqualFold(c.Name, targetName) {
				return id
			}
		}
	}

	if strings.ToLower(target) == "npc" {
		for id, c := range combatants {
			if !c.IsPlayer {
				return id
			}
		}
	}

	return playerCombatantID(w)
}

func getStr(in map[string]any, key string) (string, bool) {
	v, ok := in[key].(string)
	return v, ok
}

func getStrOr(in map[string]any, key, fallback string) string {
	if v, ok := getStr(in, key); ok {
		return v
	}
	return fallback
}

func getInt(in map[string]any, key string) (int, bool) {
	v, ok := in[key].(float64) // encoding/json decodes JSON numbers as float64
	if !ok {
		return 0, false
	}
	return int(v), true
}

func getIntOr(in map[string]any, key string, fallback int) int {
	if v, ok := getInt(in, key); ok {
		return v
	}
	return fallback
}

func getFloatOr(in map[string]any, key string, fallback float64) float64 {
	if v, ok := in[key].(float64); ok {
		return v
	}
	return fallback
}

func getBoolOr(in map[string]any, key string, fallback bool) bool {
	if v, ok := in[key].(bool); ok {
		return v
	}
	return fallback
}

func getStrArray(in map[string]any, key string) []string {
	raw, ok := in[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
