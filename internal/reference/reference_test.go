package reference

import (
	"context"
	"testing"

	"github.com/fadedpez/dnd5e-api/clients/dnd5e"
	"github.com/fadedpez/dnd5e-api/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dndai/dmcore/internal/world"
)

// mockDND5eClient mirrors internal/clients/external's mock of the same
// interface, trimmed to nothing (testify/mock.Mock satisfies any call not
// explicitly stubbed by panicking, which is what we want here).
type mockDND5eClient struct {
	mock.Mock
}

func (m *mockDND5eClient) ListRaces() ([]*entities.ReferenceItem, error) {
	args := m.Called()
	return args.Get(0).([]*entities.ReferenceItem), args.Error(1)
}

func (m *mockDND5eClient) GetRace(key string) (*entities.Race, error) {
	args := m.Called(key)
	return args.Get(0).(*entities.Race), args.Error(1)
}

func (m *mockDND5eClient) ListEquipment() ([]*entities.ReferenceItem, error) {
	args := m.Called()
	return args.Get(0).([]*entities.ReferenceItem), args.Error(1)
}

func (m *mockDND5eClient) GetEquipment(key string) (dnd5e.EquipmentInterface, error) {
	args := m.Called(key)
	return args.Get(0).(dnd5e.EquipmentInterface), args.Error(1)
}

func (m *mockDND5eClient) GetEquipmentCategory(key string) (*entities.EquipmentCategory, error) {
	args := m.Called(key)
	return args.Get(0).(*entities.EquipmentCategory), args.Error(1)
}

func (m *mockDND5eClient) ListClasses() ([]*entities.ReferenceItem, error) {
	args := m.Called()
	return args.Get(0).([]*entities.ReferenceItem), args.Error(1)
}

func (m *mockDND5eClient) GetClass(key string) (*entities.Class, error) {
	args := m.Called(key)
	return args.Get(0).(*entities.Class), args.Error(1)
}

func (m *mockDND5eClient) ListSpells(input *dnd5e.ListSpellsInput) ([]*entities.ReferenceItem, error) {
	args := m.Called(input)
	return args.Get(0).([]*entities.ReferenceItem), args.Error(1)
}

func (m *mockDND5eClient) GetSpell(key string) (*entities.Spell, error) {
	args := m.Called(key)
	return args.Get(0).(*entities.Spell), args.Error(1)
}

func (m *mockDND5eClient) ListFeatures() ([]*entities.ReferenceItem, error) {
	args := m.Called()
	return args.Get(0).([]*entities.ReferenceItem), args.Error(1)
}

func (m *mockDND5eClient) GetFeature(key string) (*entities.Feature, error) {
	args := m.Called(key)
	return args.Get(0).(*entities.Feature), args.Error(1)
}

func (m *mockDND5eClient) ListSkills() ([]*entities.ReferenceItem, error) {
	args := m.Called()
	return args.Get(0).([]*entities.ReferenceItem), args.Error(1)
}

func (m *mockDND5eClient) GetSkill(key string) (*entities.Skill, error) {
	args := m.Called(key)
	return args.Get(0).(*entities.Skill), args.Error(1)
}

func (m *mockDND5eClient) ListMonsters() ([]*entities.ReferenceItem, error) {
	args := m.Called()
	return args.Get(0).([]*entities.ReferenceItem), args.Error(1)
}

func (m *mockDND5eClient) ListMonstersWithFilter(input *dnd5e.ListMonstersInput) ([]*entities.ReferenceItem, error) {
	args := m.Called(input)
	return args.Get(0).([]*entities.ReferenceItem), args.Error(1)
}

func (m *mockDND5eClient) GetMonster(key string) (*entities.Monster, error) {
	args := m.Called(key)
	return args.Get(0).(*entities.Monster), args.Error(1)
}

func (m *mockDND5eClient) GetClassLevel(key string, level int) (*entities.Level, error) {
	args := m.Called(key, level)
	return args.Get(0).(*entities.Level), args.Error(1)
}

func (m *mockDND5eClient) GetProficiency(key string) (*entities.Proficiency, error) {
	args := m.Called(key)
	return args.Get(0).(*entities.Proficiency), args.Error(1)
}

func (m *mockDND5eClient) ListDamageTypes() ([]*entities.ReferenceItem, error) {
	args := m.Called()
	return args.Get(0).([]*entities.ReferenceItem), args.Error(1)
}

func (m *mockDND5eClient) GetDamageType(key string) (*entities.DamageType, error) {
	args := m.Called(key)
	return args.Get(0).(*entities.DamageType), args.Error(1)
}

func (m *mockDND5eClient) ListBackgrounds() ([]*entities.ReferenceItem, error) {
	args := m.Called()
	return args.Get(0).([]*entities.ReferenceItem), args.Error(1)
}

func (m *mockDND5eClient) GetBackground(key string) (*entities.Background, error) {
	args := m.Called(key)
	return args.Get(0).(*entities.Background), args.Error(1)
}

func TestGetClassInfo_ConvertsHitDieSavingThrowsAndProficiencies(t *testing.T) {
	mockClient := new(mockDND5eClient)
	mockClient.On("GetClass", "fighter").Return(&entities.Class{
		Name:   "Fighter",
		HitDie: 10,
		SavingThrows: []*entities.ReferenceItem{
			{Name: "STR"},
			{Name: "CON"},
		},
		ArmorProficiencies: []*entities.ReferenceItem{
			{Name: "All armor"},
		},
		WeaponProficiencies: []*entities.ReferenceItem{
			{Name: "Simple weapons"},
			{Name: "Martial weapons"},
		},
	}, nil)

	c := &client{dnd5eClient: mockClient}
	info, err := c.GetClassInfo(context.Background(), "Fighter")
	require.NoError(t, err)

	assert.Equal(t, "Fighter", info.Name)
	assert.Equal(t, 10, info.HitDieSides)
	assert.Equal(t, []string{"STR", "CON"}, info.SavingThrows)
	assert.Equal(t, []string{"All armor"}, info.ArmorProficiencies)
	assert.Equal(t, []string{"Simple weapons", "Martial weapons"}, info.WeaponProficiencies)
	mockClient.AssertExpectations(t)
}

func TestGetClassInfo_RejectsEmptyName(t *testing.T) {
	c := &client{dnd5eClient: new(mockDND5eClient)}
	_, err := c.GetClassInfo(context.Background(), "")
	assert.Error(t, err)
}

func TestGetRaceInfo_ConvertsSpeedBonusesAndTraits(t *testing.T) {
	mockClient := new(mockDND5eClient)
	mockClient.On("GetRace", "human").Return(&entities.Race{
		Name:  "Human",
		Speed: 30,
		AbilityBonuses: []*entities.AbilityBonus{
			{AbilityScore: &entities.ReferenceItem{Name: "STR"}, Bonus: 1},
			{AbilityScore: &entities.ReferenceItem{Name: "DEX"}, Bonus: 1},
		},
		Traits: []*entities.ReferenceItem{
			{Name: "Extra Language"},
		},
		Languages: []*entities.ReferenceItem{
			{Name: "Common"},
		},
	}, nil)

	c := &client{dnd5eClient: mockClient}
	info, err := c.GetRaceInfo(context.Background(), "Human")
	require.NoError(t, err)

	assert.Equal(t, "Human", info.Name)
	assert.Equal(t, 30, info.Speed)
	assert.Equal(t, map[string]int{"STR": 1, "DEX": 1}, info.AbilityBonuses)
	assert.Equal(t, []string{"Extra Language"}, info.Traits)
	assert.Equal(t, []string{"Common"}, info.Languages)
	mockClient.AssertExpectations(t)
}

func TestGetRaceInfo_RejectsEmptyName(t *testing.T) {
	c := &client{dnd5eClient: new(mockDND5eClient)}
	_, err := c.GetRaceInfo(context.Background(), "")
	assert.Error(t, err)
}

func TestApplyClass_SetsHitPointsAndSavingThrows(t *testing.T) {
	pc := world.NewCharacter("Kael")
	pc.AbilityScores.Constitution = 14 // +2 modifier

	ApplyClass(pc, &ClassInfo{
		HitDieSides:  10,
		SavingThrows: []string{"STR", "con"},
	})

	assert.Equal(t, 8, pc.HitPoints.Maximum) // 10/2 + 1 + 2
	assert.True(t, pc.SavingThrowProficiencies[world.Strength])
	assert.True(t, pc.SavingThrowProficiencies[world.Constitution])
	assert.False(t, pc.SavingThrowProficiencies[world.Dexterity])
}

func TestApplyRace_SetsSpeedBonusesAndTraits(t *testing.T) {
	pc := world.NewCharacter("Kael")
	pc.AbilityScores.Strength = 10

	ApplyRace(pc, &RaceInfo{
		Name:           "Half-Orc",
		Speed:          30,
		AbilityBonuses: map[string]int{"STR": 2, "con": 1},
		Traits:         []string{"Relentless Endurance"},
		Languages:      []string{"Orc"},
	})

	assert.Equal(t, "Half-Orc", pc.Race.Name)
	assert.Equal(t, []string{"Relentless Endurance"}, pc.Race.Traits)
	assert.Equal(t, 30, pc.Speed)
	assert.Equal(t, 12, pc.AbilityScores.Strength)
	assert.Contains(t, pc.Languages, "Orc")
}

func TestSlugify_NormalizesDisplayNames(t *testing.T) {
	assert.Equal(t, "fighter", slugify("Fighter"))
	assert.Equal(t, "half-elf", slugify("Half Elf"))
	assert.Equal(t, "human", slugify("  Human  "))
}
