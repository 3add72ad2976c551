// Package tools declares the fixed tool catalog the DM agent offers an LLM
// and parses completed tool calls back into internal/rules.Intent values.
// The catalog is closed and known at build time (SPEC_FULL.md §4.5) — every
// tool name here has exactly one ParseToolCall case.
package tools

// Tool is a declarative tool definition: name, description, and a
// JSON-Schema input object, matching the teacher's wire-shape for
// LLM-facing tool declarations.
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]any
}

func obj(properties map[string]any, required ...string) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

func str(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func enum(description string, values ...string) map[string]any {
	return map[string]any{"type": "string", "enum": values, "description": description}
}

func integer(description string) map[string]any {
	return map[string]any{"type": "integer", "description": description}
}

var skillValues = []string{
	"athletics", "acrobatics", "sleight_of_hand", "stealth",
	"arcana", "history", "investigation", "nature", "religion",
	"animal_handling", "insight", "medicine", "perception", "survival",
	"deception", "intimidation", "performance", "persuasion",
}

var abilityValues = []string{"strength", "dexterity", "constitution", "intelligence", "wisdom", "charisma"}

var advantageValues = []string{"normal", "advantage", "disadvantage"}

var damageTypeValues = []string{
	"slashing", "piercing", "bludgeoning", "fire", "cold",
	"lightning", "thunder", "acid", "poison", "necrotic",
	"radiant", "force", "psychic",
}

var conditionValues = []string{
	"blinded", "charmed", "deafened", "frightened", "grappled",
	"incapacitated", "invisible", "paralyzed", "petrified", "poisoned",
	"prone", "restrained", "stunned", "unconscious",
}

var subjectTypeValues = []string{"npc", "location", "item", "quest", "organization", "event", "creature"}

var factCategoryValues = []string{
	"appearance", "personality", "event", "relationship", "backstory",
	"motivation", "capability", "location", "possession", "status", "secret",
}

// All returns every tool definition in the catalog, in the teacher's fixed
// declaration order (the order DmTools::all() returns in tools.rs), with
// the SPEC_FULL.md §6.4 supplemented tools appended after it.
func All() []Tool {
	return []Tool{
		rollDice(),
		skillCheck(),
		abilityCheck(),
		savingThrow(),
		applyDamage(),
		applyHealing(),
		applyCondition(),
		removeCondition(),
		startCombat(),
		endCombat(),
		nextTurn(),
		shortRest(),
		longRest(),
		rememberFact(),
		castSpell(),
		move(),
		gainExperience(),
		useFeature(),
		rollInitiative(),
	}
}

func rollDice() Tool {
	return Tool{
		Name:        "roll_dice",
		Description: "Roll dice using standard D&D notation (e.g., '2d6+3', '1d20', '4d6kh3').",
		InputSchema: obj(map[string]any{
			"notation": str("Dice notation (e.g., '2d6+3', '1d20+5', '4d6kh3')"),
			"purpose":  str("What the roll is for (e.g., 'damage', 'initiative')"),
		}, "notation", "purpose"),
	}
}

func skillCheck() Tool {
	return Tool{
		Name:        "skill_check",
		Description: "Have a character make a skill check against a DC.",
		InputSchema: obj(map[string]any{
			"skill":       enum("The skill to check", skillValues...),
			"dc":          integer("Difficulty Class for the check"),
			"description": str("What the character is attempting"),
			"advantage":   enum("Advantage state for the roll", advantageValues...),
		}, "skill", "dc", "description"),
	}
}

func abilityCheck() Tool {
	return Tool{
		Name:        "ability_check",
		Description: "Have a character make a raw ability check (not tied to a skill).",
		InputSchema: obj(map[string]any{
			"ability":     enum("The ability to check", abilityValues...),
			"dc":          integer("Difficulty Class for the check"),
			"description": str("What the character is attempting"),
			"advantage":   enum("Advantage state for the roll", advantageValues...),
		}, "ability", "dc", "description"),
	}
}

func savingThrow() Tool {
	return Tool{
		Name:        "saving_throw",
		Description: "Have a character make a saving throw.",
		InputSchema: obj(map[string]any{
			"ability":   enum("The ability for the save", abilityValues...),
			"dc":        integer("Difficulty Class for the save"),
			"source":    str("What is causing the saving throw"),
			"advantage": enum("Advantage state for the roll", advantageValues...),
		}, "ability", "dc", "source"),
	}
}

func applyDamage() Tool {
	return Tool{
		Name:        "apply_damage",
		Description: "Apply damage to a character or creature.",
		InputSchema: obj(map[string]any{
			"amount":      integer("Amount of damage to apply"),
			"damage_type": enum("Type of damage", damageTypeValues...),
			"source":      str("Source of the damage"),
			"target":      enum("Who receives the damage", "player", "npc"),
			"target_name": str("Name of the specific combatant to target, when more than one NPC is in the encounter"),
		}, "amount", "damage_type", "source"),
	}
}

func applyHealing() Tool {
	return Tool{
		Name:        "apply_healing",
		Description: "Heal a character.",
		InputSchema: obj(map[string]any{
			"amount":      integer("Amount of HP to restore"),
			"source":      str("Source of the healing"),
			"target":      enum("Who receives the healing", "player", "npc"),
			"target_name": str("Name of the specific combatant to target, when more than one NPC is in the encounter"),
		}, "amount", "source"),
	}
}

func applyCondition() Tool {
	return Tool{
		Name:        "apply_condition",
		Description: "Apply a condition to a character.",
		InputSchema: obj(map[string]any{
			"condition":       enum("The condition to apply", conditionValues...),
			"source":          str("What caused the condition"),
			"duration_rounds": integer("How many rounds the condition lasts (omit for indefinite)"),
			"target":          enum("Who is affected", "player", "npc"),
			"target_name":     str("Name of the specific combatant to target"),
		}, "condition", "source"),
	}
}

func removeCondition() Tool {
	return Tool{
		Name:        "remove_condition",
		Description: "Remove a condition from a character.",
		InputSchema: obj(map[string]any{
			"condition":   enum("The condition to remove", conditionValues...),
			"target":      enum("Who is affected", "player", "npc"),
			"target_name": str("Name of the specific combatant to target"),
		}, "condition"),
	}
}

func startCombat() Tool {
	return Tool{
		Name:        "start_combat",
		Description: "Start a combat encounter. Initiative will be rolled for all combatants.",
		InputSchema: obj(map[string]any{
			"enemies": map[string]any{
				"type": "array",
				"items": obj(map[string]any{
					"name":    str("Enemy name"),
					"max_hp":  integer("Enemy max HP (default 10)"),
					"current_hp": integer("Enemy current HP (defaults to max_hp)"),
					"initiative_modifier": integer("Initiative bonus, e.g. DEX modifier (default 0)"),
				}, "name"),
				"description": "List of enemy combatants",
			},
		}, "enemies"),
	}
}

func endCombat() Tool {
	return Tool{
		Name:        "end_combat",
		Description: "End the current combat encounter.",
		InputSchema: obj(map[string]any{}),
	}
}

func nextTurn() Tool {
	return Tool{
		Name:        "next_turn",
		Description: "Advance to the next turn in combat.",
		InputSchema: obj(map[string]any{}),
	}
}

func shortRest() Tool {
	return Tool{
		Name:        "short_rest",
		Description: "Take a short rest (1 hour). Recover some abilities.",
		InputSchema: obj(map[string]any{}),
	}
}

func longRest() Tool {
	return Tool{
		Name:        "long_rest",
		Description: "Take a long rest (8 hours). Fully recover HP and abilities.",
		InputSchema: obj(map[string]any{}),
	}
}

func rememberFact() Tool {
	return Tool{
		Name: "remember_fact",
		Description: "Record an important story fact for future reference. Use this when " +
			"introducing NPCs, establishing locations, recording player decisions, or revealing " +
			"plot points. Facts are indexed and used to maintain narrative consistency.",
		InputSchema: obj(map[string]any{
			"subject_name":     str("Name of the entity this fact is about (NPC name, location name, item name, etc.)"),
			"subject_type":     enum("Type of entity", subjectTypeValues...),
			"fact":             str("The fact to record in natural language"),
			"category":         enum("Category of the fact", factCategoryValues...),
			"related_entities": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Names of other entities mentioned in this fact (optional)"},
			"importance":       map[string]any{"type": "number", "minimum": 0.1, "maximum": 1.0, "description": "How important this fact is (0.1-1.0, default 0.7)"},
		}, "subject_name", "subject_type", "fact", "category"),
	}
}

// The following five tools are supplemented per SPEC_FULL.md §6.4: they name
// Intent variants rules.rs defines (CastSpell, Move, GainExperience,
// UseFeature, RollInitiative) but the abbreviated spec.md §6 tool list
// omitted. Schemas are authored here in the same style as the fourteen
// above — tools.rs has no schema for these, only the Intent shapes.

func castSpell() Tool {
	return Tool{
		Name:        "cast_spell",
		Description: "Cast a spell, optionally at one or more targets.",
		InputSchema: obj(map[string]any{
			"spell_name":    str("Name of the spell being cast"),
			"spell_level":   integer("Spell slot level consumed (0 for a cantrip)"),
			"concentration": map[string]any{"type": "boolean", "description": "Whether this spell requires concentration"},
			"target_names":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Names of the spell's targets"},
		}, "spell_name"),
	}
}

func move() Tool {
	return Tool{
		Name:        "move",
		Description: "Move a character to a new position or location.",
		InputSchema: obj(map[string]any{
			"destination":   str("Where the character is moving to"),
			"distance_feet": integer("Distance covered in feet"),
		}, "destination"),
	}
}

func gainExperience() Tool {
	return Tool{
		Name:        "gain_experience",
		Description: "Award experience points to the player, possibly triggering a level up.",
		InputSchema: obj(map[string]any{
			"amount": integer("Amount of XP to award"),
		}, "amount"),
	}
}

func useFeature() Tool {
	return Tool{
		Name:        "use_feature",
		Description: "Expend one use of a limited-use class or racial feature.",
		InputSchema: obj(map[string]any{
			"feature_name": str("Name of the feature being used"),
		}, "feature_name"),
	}
}

func rollInitiative() Tool {
	return Tool{
		Name:        "roll_initiative",
		Description: "Roll initiative for a single character joining combat already in progress.",
		InputSchema: obj(map[string]any{
			"name":     str("Name of the joining combatant"),
			"modifier": integer("Initiative modifier to apply"),
		}, "name"),
	}
}
