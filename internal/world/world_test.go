package world

import (
	"testing"

	"github.com/dndai/dmcore/internal/dice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCombatant_StableDescendingInitiative(t *testing.T) {
	cs := NewCombatState()

	cs.AddCombatant(Combatant{ID: NewCombatantID(), Name: "Alice", Initiative: 18})
	cs.AddCombatant(Combatant{ID: NewCombatantID(), Name: "Goblin", Initiative: 12})
	cs.AddCombatant(Combatant{ID: NewCombatantID(), Name: "Bob", Initiative: 18})

	require.Len(t, cs.Combatants, 3)
	assert.Equal(t, "Alice", cs.Combatants[0].Name)
	assert.Equal(t, "Bob", cs.Combatants[1].Name)
	assert.Equal(t, "Goblin", cs.Combatants[2].Name)
}

func TestCombatState_NextTurnWrapsAndAdvancesRound(t *testing.T) {
	cs := NewCombatState()
	cs.AddCombatant(Combatant{ID: NewCombatantID(), Name: "A", Initiative: 10})
	cs.AddCombatant(Combatant{ID: NewCombatantID(), Name: "B", Initiative: 5})

	assert.Equal(t, 1, cs.Round)
	assert.Equal(t, "A", cs.Current().Name)

	cs.NextTurn()
	assert.Equal(t, "B", cs.Current().Name)
	assert.Equal(t, 1, cs.Round)

	cs.NextTurn()
	assert.Equal(t, "A", cs.Current().Name)
	assert.Equal(t, 2, cs.Round)
}

func TestGameTime_AdvanceMinutesCarriesToNextDay(t *testing.T) {
	gt := DefaultGameTime()
	gt.AdvanceMinutes(24 * 60)

	assert.Equal(t, 16, gt.Day)
	assert.Equal(t, 10, gt.Hour)
	assert.Equal(t, 0, gt.Minute)
}

func TestGameTime_AdvanceDaysCarriesMonthAndYear(t *testing.T) {
	gt := GameTime{Year: 1492, Month: 12, Day: 29, Hour: 0}
	gt.AdvanceDays(2)

	assert.Equal(t, 1493, gt.Year)
	assert.Equal(t, 1, gt.Month)
	assert.Equal(t, 1, gt.Day)
}

func TestGameTime_TimeOfDay(t *testing.T) {
	cases := map[int]string{6: "dawn", 9: "morning", 12: "midday", 15: "afternoon", 19: "evening", 2: "night"}
	for hour, want := range cases {
		gt := GameTime{Hour: hour}
		assert.Equal(t, want, gt.TimeOfDay(), "hour %d", hour)
	}
}

func TestHitPoints_TakeDamage_TempHPFirst(t *testing.T) {
	hp := NewHitPoints(20)
	hp.AddTempHP(5)

	result := hp.TakeDamage(8)

	assert.Equal(t, 5, result.TempHPAbsorbed)
	assert.Equal(t, 17, hp.Current)
	assert.Equal(t, 0, hp.Temporary)
	assert.False(t, result.DroppedToZero)
}

func TestHitPoints_TakeDamage_MassiveDamage(t *testing.T) {
	hp := NewHitPoints(10)
	result := hp.TakeDamage(25)

	assert.True(t, result.DroppedToZero)
	assert.True(t, result.MassiveDamage)
	assert.Equal(t, -15, hp.Current)
}

func TestHitPoints_TakeDamage_NotQuiteMassive(t *testing.T) {
	hp := NewHitPoints(10)
	result := hp.TakeDamage(19)

	assert.True(t, result.DroppedToZero)
	assert.False(t, result.MassiveDamage)
}

func TestHitPoints_Heal_CapsAtMaximum(t *testing.T) {
	hp := HitPoints{Current: 15, Maximum: 20}
	healed := hp.Heal(10)

	assert.Equal(t, 5, healed)
	assert.Equal(t, 20, hp.Current)
}

func TestHitPoints_AddTempHP_DoesNotStack(t *testing.T) {
	hp := NewHitPoints(10)
	hp.AddTempHP(5)
	hp.AddTempHP(3)
	assert.Equal(t, 5, hp.Temporary)

	hp.AddTempHP(8)
	assert.Equal(t, 8, hp.Temporary)
}

func TestHitDice_RecoverHalf(t *testing.T) {
	hd := NewHitDice()
	hd.Add(dice.D8, 5)
	for i := 0; i < 5; i++ {
		hd.Spend(dice.D8)
	}
	require.Equal(t, 0, hd.Remaining[dice.D8])

	hd.RecoverHalf()
	assert.Equal(t, 3, hd.Remaining[dice.D8])
}

func TestDeathSaves_ThreeFailuresKill(t *testing.T) {
	var ds DeathSaves
	ds.AddFailure()
	ds.AddFailure()
	outcome := ds.AddFailure()
	assert.Equal(t, Dead, outcome)
}

func TestDeathSaves_Natural1CountsDouble(t *testing.T) {
	var ds DeathSaves
	ds.AddFailure()
	outcome := ds.Natural1()
	assert.Equal(t, Dead, outcome)
	assert.Equal(t, 3, ds.Failures)
}

func TestArmorClass_MediumArmorCapsDex(t *testing.T) {
	ac := ArmorClass{Base: 14}
	assert.Equal(t, 18, ac.Calculate(4))

	capped := ArmorClass{Base: 14, ArmorType: armorTypePtr(Medium)}
	assert.Equal(t, 16, capped.Calculate(4))
	assert.Equal(t, 16, capped.Calculate(2))
}

func armorTypePtr(a ArmorType) *ArmorType { return &a }

func TestGameWorld_LongRestRestoresEverything(t *testing.T) {
	pc := NewCharacter("Hero")
	pc.HitPoints = HitPoints{Current: 5, Maximum: 30}
	pc.HitDice.Add(dice.D10, 4)
	pc.HitDice.Remaining[dice.D10] = 0
	pc.Spellcasting = &SpellcastingData{Ability: Intelligence}
	pc.Spellcasting.SpellSlots.Slots[0] = SlotInfo{Total: 4, Used: 4}
	pc.Features = append(pc.Features, Feature{
		Name: "Second Wind",
		Uses: &FeatureUses{Current: 0, Maximum: 1, Recharge: RechargeLongRest},
	})

	gw := New("Test Campaign", *pc)
	gw.LongRest()

	assert.Equal(t, 30, gw.PlayerCharacter.HitPoints.Current)
	assert.Equal(t, 2, gw.PlayerCharacter.HitDice.Remaining[dice.D10])
	assert.Equal(t, 0, gw.PlayerCharacter.Spellcasting.SpellSlots.Slots[0].Used)
	assert.Equal(t, 1, gw.PlayerCharacter.Features[0].Uses.Current)
	assert.Equal(t, Exploration, gw.Mode)
}

func TestGameWorld_Snapshot_IsIndependentCopy(t *testing.T) {
	pc := NewCharacter("Hero")
	gw := New("Test Campaign", *pc)
	gw.AddNarrative("the party arrives", DmNarration)

	snap, err := gw.Snapshot()
	require.NoError(t, err)

	snap.PlayerCharacter.Name = "Mutated"
	assert.Equal(t, "Hero", gw.PlayerCharacter.Name)
	assert.Len(t, snap.NarrativeHistory, 1)
}

func TestGameWorld_Combatants_ResolvesUniformlyByID(t *testing.T) {
	pc := NewCharacter("Hero")
	gw := New("Test Campaign", *pc)
	cs := gw.StartCombat()

	playerID := NewCombatantID()
	npcID := NewCombatantID()
	cs.AddCombatant(Combatant{ID: playerID, IsPlayer: true, CurrentHP: 20, MaxHP: 20})
	cs.AddCombatant(Combatant{ID: npcID, IsPlayer: false, CurrentHP: 7, MaxHP: 7})

	combatants := gw.Combatants()
	require.Contains(t, combatants, playerID)
	require.Contains(t, combatants, npcID)

	combatants[npcID].CurrentHP -= 7
	assert.Equal(t, 0, cs.Find(npcID).CurrentHP)
}
