package memory

import (
	"encoding/json"
	"strings"
)

// storeData is the exported snapshot of a Store's unexported fields, used
// only for persistence. nameIndex is rebuilt from entities on load rather
// than serialized, since it's fully derived from entity names and aliases.
type storeData struct {
	Entities      map[EntityID]*Entity `json:"entities"`
	Facts         []StoryFact          `json:"facts"`
	Relationships []Relationship       `json:"relationships"`
	Consequences  []Consequence        `json:"consequences"`
	CurrentTurn   uint32               `json:"current_turn"`
}

// MarshalJSON snapshots the store for persistence (SPEC_FULL.md §6.3's
// save-file format embeds a Store verbatim as story_memory).
func (s *Store) MarshalJSON() ([]byte, error) {
	return json.Marshal(storeData{
		Entities:      s.entities,
		Facts:         s.facts,
		Relationships: s.relationships,
		Consequences:  s.consequences,
		CurrentTurn:   s.currentTurn,
	})
}

// UnmarshalJSON restores a store from a snapshot, rebuilding nameIndex from
// each entity's name and aliases.
func (s *Store) UnmarshalJSON(data []byte) error {
	var d storeData
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}

	if d.Entities == nil {
		d.Entities = map[EntityID]*Entity{}
	}
	nameIndex := map[string]EntityID{}
	for id, entity := range d.Entities {
		nameIndex[strings.ToLower(entity.Name)] = id
		for _, alias := range entity.Aliases {
			nameIndex[strings.ToLower(alias)] = id
		}
	}

	s.entities = d.Entities
	s.nameIndex = nameIndex
	s.facts = d.Facts
	s.relationships = d.Relationships
	s.consequences = d.Consequences
	s.currentTurn = d.CurrentTurn
	return nil
}
