// Package world holds the typed container of character, combat, time,
// location, and quest state, plus the pure mutators the rules engine
// drives. The rules engine decides what changes; this package exposes how.
package world

import "github.com/google/uuid"

// CharacterID identifies a player character or NPC character sheet.
type CharacterID uuid.UUID

func NewCharacterID() CharacterID     { return CharacterID(uuid.New()) }
func (id CharacterID) String() string { return uuid.UUID(id).String() }

// MarshalText and UnmarshalText delegate to uuid.UUID so CharacterID
// round-trips as a plain string both as a struct field and as a JSON
// object key (map[CharacterID]... needs a TextMarshaler to serialize at
// all — an array-kind key has no default JSON encoding).
func (id CharacterID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *CharacterID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }

// CombatantID identifies a row in a CombatState's initiative order. It is
// distinct from CharacterID because a combat encounter may include
// creatures with no backing Character sheet (minions, environmental
// hazards).
type CombatantID uuid.UUID

func NewCombatantID() CombatantID     { return CombatantID(uuid.New()) }
func (id CombatantID) String() string { return uuid.UUID(id).String() }

func (id CombatantID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *CombatantID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }

// LocationID identifies a Location in the known-locations map.
type LocationID uuid.UUID

func NewLocationID() LocationID     { return LocationID(uuid.New()) }
func (id LocationID) String() string { return uuid.UUID(id).String() }

func (id LocationID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *LocationID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
