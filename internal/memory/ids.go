// Package memory tracks entities, facts, relationships, and consequences
// accumulated over the course of a session — the DM agent's long-term
// recall of what has actually happened, independent of conversation
// transcript length.
package memory

import "github.com/google/uuid"

// EntityID identifies a tracked NPC, location, quest, item, or faction.
type EntityID uuid.UUID

func NewEntityID() EntityID        { return EntityID(uuid.New()) }
func (id EntityID) String() string { return uuid.UUID(id).String() }

// MarshalText and UnmarshalText delegate to uuid.UUID so EntityID
// round-trips as a plain string, including as a JSON object key.
func (id EntityID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *EntityID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }

// ConsequenceID identifies a pending or resolved consequence.
type ConsequenceID uuid.UUID

func NewConsequenceID() ConsequenceID   { return ConsequenceID(uuid.New()) }
func (id ConsequenceID) String() string { return uuid.UUID(id).String() }

func (id ConsequenceID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *ConsequenceID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }

// FactID identifies a single recorded story fact.
type FactID uuid.UUID

func NewFactID() FactID        { return FactID(uuid.New()) }
func (id FactID) String() string { return uuid.UUID(id).String() }

func (id FactID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *FactID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
