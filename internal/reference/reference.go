// Package reference resolves canonical 5e race/class/background reference
// data (hit die, saving throws, starting proficiencies, ability bonuses) at
// session creation time, wrapping github.com/fadedpez/dnd5e-api the same
// way internal/clients/external does, scoped down to what the DM Agent's
// character setup needs rather than the teacher's full character-builder
// choice/equipment pipeline.
package reference

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fadedpez/dnd5e-api/clients/dnd5e"
	"github.com/fadedpez/dnd5e-api/entities"

	"github.com/dndai/dmcore/internal/errors"
	"github.com/dndai/dmcore/internal/world"
)

// ClassInfo is the subset of a 5e class's reference data the DM Agent needs
// when a new character is created.
type ClassInfo struct {
	Name                string
	HitDieSides         int
	SavingThrows        []string
	ArmorProficiencies  []string
	WeaponProficiencies []string
}

// RaceInfo is the subset of a 5e race's reference data the DM Agent needs.
type RaceInfo struct {
	Name           string
	Speed          int
	AbilityBonuses map[string]int
	Traits         []string
	Languages      []string
}

// Client resolves 5e reference data by name.
type Client interface {
	// GetClassInfo fetches hit die, saving throws, and proficiencies for a
	// class by name (case-insensitive, e.g. "Fighter").
	GetClassInfo(ctx context.Context, className string) (*ClassInfo, error)

	// GetRaceInfo fetches speed, ability bonuses, and traits for a race by
	// name (case-insensitive, e.g. "Human").
	GetRaceInfo(ctx context.Context, raceName string) (*RaceInfo, error)
}

// Config configures a Client.
type Config struct {
	// BaseURL for the D&D 5e API (defaults to https://www.dnd5eapi.co/api/2014/).
	BaseURL string
	// HTTPTimeout bounds a single request (defaults to 30s).
	HTTPTimeout time.Duration
	// CacheTTL controls how long responses are cached (defaults to 24h).
	CacheTTL time.Duration
}

// Validate validates the Config and fills in defaults.
func (cfg *Config) Validate() error {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.dnd5eapi.co/api/2014/"
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	return nil
}

type client struct {
	dnd5eClient dnd5e.Interface
}

// New creates a Client backed by the D&D 5e API, with responses cached for
// cfg.CacheTTL.
func New(cfg *Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseClient, err := dnd5e.NewDND5eAPI(&dnd5e.DND5eAPIConfig{
		Client:  &http.Client{Timeout: cfg.HTTPTimeout},
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create D&D 5e API client: %w", err)
	}

	return &client{dnd5eClient: dnd5e.NewCachedClient(baseClient, cfg.CacheTTL)}, nil
}

// slugify normalizes a display name ("Fighter") to the API's key format
// ("fighter"): it trims surrounding space, lowercases, and turns inner
// spaces into hyphens ("Half Elf" -> "half-elf"). Underscores are left as
// they are.
func slugify(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
}

func (c *client) GetClassInfo(_ context.Context, className string) (*ClassInfo, error) {
	if className == "" {
		return nil, errors.InvalidArgument("class name is required")
	}

	class, err := c.dnd5eClient.GetClass(slugify(className))
	if err != nil {
		return nil, fmt.Errorf("failed to get class %s: %w", className, err)
	}

	return &ClassInfo{
		Name:                class.Name,
		HitDieSides:         class.HitDie,
		SavingThrows:        referenceNames(class.SavingThrows),
		ArmorProficiencies:  referenceNames(class.ArmorProficiencies),
		WeaponProficiencies: referenceNames(class.WeaponProficiencies),
	}, nil
}

func (c *client) GetRaceInfo(_ context.Context, raceName string) (*RaceInfo, error) {
	if raceName == "" {
		return nil, errors.InvalidArgument("race name is required")
	}

	race, err := c.dnd5eClient.GetRace(slugify(raceName))
	if err != nil {
		return nil, fmt.Errorf("failed to get race %s: %w", raceName, err)
	}

	bonuses := make(map[string]int, len(race.AbilityBonuses))
	for _, bonus := range race.AbilityBonuses {
		if bonus.AbilityScore != nil {
			bonuses[bonus.AbilityScore.Name] = bonus.Bonus
		}
	}

	traits := make([]string, len(race.Traits))
	for i, trait := range race.Traits {
		traits[i] = trait.Name
	}

	return &RaceInfo{
		Name:           race.Name,
		Speed:          race.Speed,
		AbilityBonuses: bonuses,
		Traits:         traits,
		Languages:      referenceNames(race.Languages),
	}, nil
}

// ApplyClass sets a character's hit point maximum (average roll + CON
// modifier, the 5e level-1 convention) and saving throw proficiencies from
// class reference data. It does not touch armor/weapon proficiencies.
func ApplyClass(pc *world.Character, info *ClassInfo) {
	pc.HitPoints = world.NewHitPoints(info.HitDieSides/2 + 1 + pc.AbilityScores.Modifier(world.Constitution))
	for _, abbr := range info.SavingThrows {
		if ability, ok := world.ParseAbility(abbr); ok {
			pc.SavingThrowProficiencies[ability] = true
		}
	}
}

// ApplyRace sets a character's race, speed, and ability score bonuses from
// race reference data.
func ApplyRace(pc *world.Character, info *RaceInfo) {
	pc.Race = world.Race{Name: info.Name, Traits: info.Traits}
	pc.Speed = info.Speed
	for abbr, bonus := range info.AbilityBonuses {
		if ability, ok := world.ParseAbility(abbr); ok {
			pc.AbilityScores.Set(ability, pc.AbilityScores.Get(ability)+bonus)
		}
	}
	for _, lang := range info.Languages {
		pc.Languages = append(pc.Languages, lang)
	}
}

func referenceNames(refs []*entities.ReferenceItem) []string {
	names := make([]string, len(refs))
	for i, ref := range refs {
		if ref != nil {
			names[i] = ref.Name
		}
	}
	return names
}
