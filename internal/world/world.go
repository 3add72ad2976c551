package world

import (
	"encoding/json"

	"github.com/dndai/dmcore/internal/errors"
	"github.com/google/uuid"
)

// GameMode is the orchestrator's current high-level mode.
type GameMode int

const (
	Exploration GameMode = iota
	Combat
	Dialogue
	Rest
	Shopping
	CharacterManagement
)

var gameModeNames = [...]string{
	"Exploration", "Combat", "Dialogue", "Rest", "Shopping", "CharacterManagement",
}

func (m GameMode) String() string {
	if int(m) < 0 || int(m) >= len(gameModeNames) {
		return "Exploration"
	}
	return gameModeNames[m]
}

// NarrativeType tags one entry in the narrative log.
type NarrativeType int

const (
	DmNarration NarrativeType = iota
	PlayerAction
	NpcDialogue
	NarrativeCombat
	System
)

// NarrativeEntry is one logged line of the session's narrative history.
type NarrativeEntry struct {
	Content   string
	Type      NarrativeType
	GameTime  GameTime
}

// JournalEntry is a player-facing note, separate from the narrative log.
type JournalEntry struct {
	Title    string
	Content  string
	GameTime GameTime
	Location string
}

// GameWorld is the complete, canonical state of one session: the player
// character, known NPCs and locations, active combat (if any), game time,
// quests, and narrative history. Mutation only ever happens through the
// methods below or the rules-engine applier (internal/rules) — the world
// itself never decides *what* changes.
type GameWorld struct {
	SessionID      uuid.UUID
	CampaignName   string

	PlayerCharacter Character

	NPCs map[CharacterID]NPC

	Mode            GameMode
	Combat          *CombatState
	CurrentLocation Location
	GameTime        GameTime

	KnownLocations map[LocationID]Location

	Quests          []Quest
	JournalEntries  []JournalEntry

	SessionNumber    int
	NarrativeHistory []NarrativeEntry
}

// New builds a fresh GameWorld for a campaign, starting the player at a
// single default "Starting Location".
func New(campaignName string, player Character) *GameWorld {
	start := NewLocation("Starting Location", Town)
	start.Description = "A quiet place where your adventure begins."

	return &GameWorld{
		SessionID:        uuid.New(),
		CampaignName:     campaignName,
		PlayerCharacter:  player,
		NPCs:             map[CharacterID]NPC{},
		Mode:             Exploration,
		CurrentLocation:  start,
		GameTime:         DefaultGameTime(),
		KnownLocations:   map[LocationID]Location{start.ID: start},
		SessionNumber:    1,
	}
}

// StartCombat enters combat mode with a fresh, empty CombatState.
func (w *GameWorld) StartCombat() *CombatState {
	w.Mode = Combat
	w.Combat = NewCombatState()
	return w.Combat
}

// EndCombat clears the active encounter and returns to exploration.
func (w *GameWorld) EndCombat() {
	if w.Combat != nil {
		w.Combat.End()
	}
	w.Mode = Exploration
}

// StartDialogue enters dialogue mode.
func (w *GameWorld) StartDialogue() { w.Mode = Dialogue }

// EndDialogue returns to exploration mode.
func (w *GameWorld) EndDialogue() { w.Mode = Exploration }

// ShortRest advances an hour and resets ShortRest-recharge feature uses.
// Hit-die spending is exposed via HitDice but not auto-applied here.
func (w *GameWorld) ShortRest() {
	w.Mode = Rest
	w.GameTime.AdvanceHours(1)
	for i := range w.PlayerCharacter.Features {
		if uses := w.PlayerCharacter.Features[i].Uses; uses != nil && uses.Recharge == RechargeShortRest {
			uses.Current = uses.Maximum
		}
	}
	w.Mode = Exploration
}

// LongRest advances eight hours, fully heals the player, recovers half hit
// dice, resets LongRest-recharge feature uses, and refills spell slots.
func (w *GameWorld) LongRest() {
	w.Mode = Rest
	w.GameTime.AdvanceHours(8)

	w.PlayerCharacter.HitPoints.Current = w.PlayerCharacter.HitPoints.Maximum
	w.PlayerCharacter.HitDice.RecoverHalf()

	if w.PlayerCharacter.Spellcasting != nil {
		w.PlayerCharacter.Spellcasting.SpellSlots.RecoverAll()
	}

	for i := range w.PlayerCharacter.Features {
		if uses := w.PlayerCharacter.Features[i].Uses; uses != nil && uses.Recharge == RechargeLongRest {
			uses.Current = uses.Maximum
		}
	}

	w.Mode = Exploration
}

// AddNarrative appends a timestamped entry to the narrative log.
func (w *GameWorld) AddNarrative(content string, entryType NarrativeType) {
	w.NarrativeHistory = append(w.NarrativeHistory, NarrativeEntry{
		Content:  content,
		Type:     entryType,
		GameTime: w.GameTime,
	})
}

// RecentNarrative returns up to count entries, most recent first.
func (w *GameWorld) RecentNarrative(count int) []NarrativeEntry {
	n := len(w.NarrativeHistory)
	if count > n {
		count = n
	}
	out := make([]NarrativeEntry, count)
	for i := 0; i < count; i++ {
		out[i] = w.NarrativeHistory[n-1-i]
	}
	return out
}

// Combatants returns a per-id view over the active encounter's HP table,
// resolving SPEC_FULL.md design note #2: combatant HP is tracked uniformly
// by id, not privileging the player character.
func (w *GameWorld) Combatants() map[CombatantID]*Combatant {
	out := map[CombatantID]*Combatant{}
	if w.Combat == nil {
		return out
	}
	for i := range w.Combat.Combatants {
		out[w.Combat.Combatants[i].ID] = &w.Combat.Combatants[i]
	}
	return out
}

// Snapshot returns a deep, structurally independent copy for renderers —
// mutating the result never affects the live world.
func (w *GameWorld) Snapshot() (*GameWorld, error) {
	raw, err := json.Marshal(w)
	if err != nil {
		return nil, errors.Wrap(err, "marshal world for snapshot")
	}
	var copyOf GameWorld
	if err := json.Unmarshal(raw, &copyOf); err != nil {
		return nil, errors.Wrap(err, "unmarshal world snapshot")
	}
	return &copyOf, nil
}
