package memory

// RelationshipType categorizes the connection between two entities.
type RelationshipType int

const (
	RelMentor RelationshipType = iota
	RelAlly
	RelEnemy
	RelFamily
	RelRomantic
	RelRival
	RelEmployer
	RelAcquaintance
)

var relationshipTypeName = [...]string{
	"mentors", "is allied with", "is enemies with", "is family with",
	"is romantically involved with", "rivals", "employs", "knows",
}

// Name returns a verb phrase suitable for context rendering, e.g.
// "<A> mentors <B>".
func (t RelationshipType) Name() string {
	if int(t) < 0 || int(t) >= len(relationshipTypeName) {
		return "knows"
	}
	return relationshipTypeName[t]
}

// Relationship is a directed connection between two entities.
type Relationship struct {
	FromEntity      EntityID
	ToEntity        EntityID
	Type            RelationshipType
	Description     string
	EstablishedTurn uint32
	IsActive        bool
}

// NewRelationship creates an active relationship established on the given
// turn.
func NewRelationship(from, to EntityID, relType RelationshipType, currentTurn uint32) Relationship {
	return Relationship{
		FromEntity:      from,
		ToEntity:        to,
		Type:            relType,
		EstablishedTurn: currentTurn,
		IsActive:        true,
	}
}

// Involves reports whether the entity is either side of the relationship.
func (r Relationship) Involves(id EntityID) bool {
	return r.FromEntity == id || r.ToEntity == id
}

// Other returns the entity on the opposite side of the relationship from
// id, if id participates in it at all.
func (r Relationship) Other(id EntityID) (EntityID, bool) {
	switch id {
	case r.FromEntity:
		return r.ToEntity, true
	case r.ToEntity:
		return r.FromEntity, true
	default:
		return EntityID{}, false
	}
}
