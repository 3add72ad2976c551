package tools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dndai/dmcore/internal/rules"
	"github.com/dndai/dmcore/internal/world"
)

func newTestWorld() *world.GameWorld {
	player := world.NewCharacter("Elandra")
	player.HitPoints = world.NewHitPoints(20)
	return world.New("Test Campaign", *player)
}

func TestAll_ReturnsNineteenTools(t *testing.T) {
	all := All()
	assert.Len(t, all, 19)

	names := map[string]bool{}
	for _, tool := range all {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"roll_dice", "skill_check", "ability_check", "saving_throw",
		"apply_damage", "apply_healing", "apply_condition", "remove_condition",
		"start_combat", "end_combat", "next_turn", "short_rest", "long_rest",
		"remember_fact", "cast_spell", "move", "gain_experience", "use_feature",
		"roll_initiative",
	} {
		assert.True(t, names[want], "missing tool %q", want)
	}
}

func TestParseToolCall_RollDice(t *testing.T) {
	w := newTestWorld()
	input, _ := json.Marshal(map[string]any{"notation": "2d6+3", "purpose": "damage"})

	intent, ok := ParseToolCall("roll_dice", input, w)
	require.True(t, ok)
	assert.Equal(t, rules.RollDice{Notation: "2d6+3", Purpose: "damage"}, intent)
}

func TestParseToolCall_RollDice_DefaultsPurpose(t *testing.T) {
	w := newTestWorld()
	input, _ := json.Marshal(map[string]any{"notation": "1d20"})

	intent, ok := ParseToolCall("roll_dice", input, w)
	require.True(t, ok)
	assert.Equal(t, "general roll", intent.(rules.RollDice).Purpose)
}

func TestParseToolCall_SkillCheck_NormalizesSkillName(t *testing.T) {
	w := newTestWorld()
	input, _ := json.Marshal(map[string]any{"skill": "Sleight_of_Hand", "dc": 15, "description": "pick the lock"})

	intent, ok := ParseToolCall("skill_check", input, w)
	require.True(t, ok)
	check := intent.(rules.SkillCheck)
	assert.Equal(t, world.SleightOfHand, check.Skill)
	assert.Equal(t, 15, check.DC)
}

func TestParseToolCall_SkillCheck_UnknownSkillFails(t *testing.T) {
	w := newTestWorld()
	input, _ := json.Marshal(map[string]any{"skill": "not-a-skill", "dc": 10, "description": "???"})

	_, ok := ParseToolCall("skill_check", input, w)
	assert.False(t, ok)
}

func TestParseToolCall_AbilityCheck_AcceptsAbbreviation(t *testing.T) {
	w := newTestWorld()
	input, _ := json.Marshal(map[string]any{"ability": "str", "dc": 12, "description": "force the door"})

	intent, ok := ParseToolCall("ability_check", input, w)
	require.True(t, ok)
	assert.Equal(t, world.Strength, intent.(rules.AbilityCheck).Ability)
}

func TestParseToolCall_SavingThrow_ParsesAdvantage(t *testing.T) {
	w := newTestWorld()
	input, _ := json.Marshal(map[string]any{"ability": "dexterity", "dc": 14, "source": "fireball", "advantage": "disadvantage"})

	intent, ok := ParseToolCall("saving_throw", input, w)
	require.True(t, ok)
	save := intent.(rules.SavingThrow)
	assert.Equal(t, world.Dexterity, save.Ability)
	assert.False(t, save.ConcentrationCheck, "tool-sourced saves are never concentration checks")
}

func TestParseToolCall_ApplyDamage_MissingRequiredFieldFails(t *testing.T) {
	w := newTestWorld()
	input, _ := json.Marshal(map[string]any{"amount": 5, "damage_type": "fire"})

	_, ok := ParseToolCall("apply_damage", input, w)
	assert.False(t, ok, "apply_damage requires source")
}

func TestParseToolCall_ApplyDamage_TargetPlayerByDefault(t *testing.T) {
	w := newTestWorld()
	input, _ := json.Marshal(map[string]any{"amount": 5, "damage_type": "fire", "source": "torch"})

	intent, ok := ParseToolCall("apply_damage", input, w)
	require.True(t, ok)
	damage := intent.(rules.Damage)
	assert.Equal(t, playerCombatantID(w), damage.TargetID)
}

func TestParseToolCall_ApplyDamage_TargetsNamedCombatant(t *testing.T) {
	w := newTestWorld()
	w.Combat = world.NewCombatState()
	goblinID := world.NewCombatantID()
	w.Combat.AddCombatant(world.Combatant{ID: goblinID, Name: "Goblin Scout", IsPlayer: false, CurrentHP: 7, MaxHP: 7})

	input, _ := json.Marshal(map[string]any{
		"amount": 5, "damage_type": "piercing", "source": "arrow", "target_name": "goblin scout",
	})

	intent, ok := ParseToolCall("apply_damage", input, w)
	require.True(t, ok)
	assert.Equal(t, goblinID, intent.(rules.Damage).TargetID)
}

func TestParseToolCall_ApplyDamage_NPCTargetWithNoEnemyFallsBackToPlayer(t *testing.T) {
	w := newTestWorld()
	input, _ := json.Marshal(map[string]any{"amount": 3, "damage_type": "cold", "source": "frost", "target": "npc"})

	intent, ok := ParseToolCall("apply_damage", input, w)
	require.True(t, ok)
	assert.Equal(t, playerCombatantID(w), intent.(rules.Damage).TargetID)
}

func TestParseToolCall_StartCombat_SeedsPlayerAndEnemiesWithInitiativeModifiers(t *testing.T) {
	w := newTestWorld()
	w.PlayerCharacter.AbilityScores.Dexterity = 16 // +3 modifier
	input, _ := json.Marshal(map[string]any{
		"enemies": []map[string]any{
			{"name": "Orc", "max_hp": 15, "initiative_modifier": 1},
			{"name": "Kobold"},
		},
	})

	intent, ok := ParseToolCall("start_combat", input, w)
	require.True(t, ok)
	start := intent.(rules.StartCombat)
	require.Len(t, start.Combatants, 3)
	assert.True(t, start.Combatants[0].IsPlayer)
	assert.Equal(t, 3, start.Combatants[0].InitiativeModifier)
	assert.Equal(t, "Orc", start.Combatants[1].Name)
	assert.Equal(t, 15, start.Combatants[1].MaxHP)
	assert.Equal(t, 1, start.Combatants[1].InitiativeModifier)
	assert.Equal(t, 10, start.Combatants[2].MaxHP, "enemy with no max_hp defaults to 10")
}

func TestParseToolCall_RememberFact_DefaultsImportance(t *testing.T) {
	w := newTestWorld()
	input, _ := json.Marshal(map[string]any{
		"subject_name": "Captain Rill", "subject_type": "npc",
		"fact": "commands the harbor watch", "category": "backstory",
	})

	intent, ok := ParseToolCall("remember_fact", input, w)
	require.True(t, ok)
	assert.InDelta(t, float32(0.7), intent.(rules.RememberFact).Importance, 0.0001)
}

func TestParseToolCall_CastSpell_SetsConcentration(t *testing.T) {
	w := newTestWorld()
	input, _ := json.Marshal(map[string]any{"spell_name": "Hold Person", "spell_level": 2, "concentration": true})

	intent, ok := ParseToolCall("cast_spell", input, w)
	require.True(t, ok)
	cast := intent.(rules.CastSpell)
	assert.True(t, cast.Concentration)
	assert.Equal(t, 2, cast.SpellLevel)
}

func TestParseToolCall_UnknownToolFails(t *testing.T) {
	w := newTestWorld()
	_, ok := ParseToolCall("summon_demiplane", []byte(`{}`), w)
	assert.False(t, ok)
}

func TestParseToolCall_EndCombatNextTurnRestsTakeNoInput(t *testing.T) {
	w := newTestWorld()
	for _, name := range []string{"end_combat", "next_turn", "short_rest", "long_rest"} {
		_, ok := ParseToolCall(name, nil, w)
		assert.True(t, ok, "%s should parse with no input", name)
	}
}
