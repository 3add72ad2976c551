package world

// Disposition is an NPC's attitude toward the party.
type Disposition int

const (
	Hostile Disposition = iota
	Unfriendly
	Neutral
	Friendly
	Helpful
)

// NPC is a non-player character the party can encounter.
type NPC struct {
	ID                 CharacterID
	Name               string
	Description        string
	Personality        string
	Occupation         string
	LocationID         *LocationID
	Disposition        Disposition
	KnownInformation   []string
	DialogueHistory    []string
}

// NewNPC creates a neutral NPC with the given name.
func NewNPC(name string) NPC {
	return NPC{ID: NewCharacterID(), Name: name, Disposition: Neutral}
}
