package memory

import (
	"fmt"
	"sort"
	"strings"
)

const (
	maxContextFacts         = 30
	maxContextConsequences  = 20
	importanceDecayPerTurn  = 0.02
	consequenceDecayPerTurn = 0.01
)

// Store is the session's accumulated narrative memory: entities, the facts
// established about them, the relationships between them, and the
// consequences still waiting to land. The DM agent consults it to build
// grounded context and to avoid contradicting itself turn over turn.
type Store struct {
	entities      map[EntityID]*Entity
	nameIndex     map[string]EntityID
	facts         []StoryFact
	relationships []Relationship
	consequences  []Consequence
	currentTurn   uint32
}

// NewStore returns an empty story memory at turn zero.
func NewStore() *Store {
	return &Store{
		entities:  map[EntityID]*Entity{},
		nameIndex: map[string]EntityID{},
	}
}

// CurrentTurn returns the store's internal turn counter.
func (s *Store) CurrentTurn() uint32 { return s.currentTurn }

// AdvanceTurn increments the turn counter and decays importance across
// entities, facts, and consequences — stable facts decay at half rate,
// and consequences past their expiry turn flip to Expired.
func (s *Store) AdvanceTurn() {
	s.currentTurn++

	for _, entity := range s.entities {
		entity.DecayImportance(importanceDecayPerTurn)
	}

	for i := range s.facts {
		rate := float32(importanceDecayPerTurn)
		if s.facts[i].Category.IsStable() {
			rate *= 0.5
		}
		s.facts[i].DecayImportance(rate)
	}

	for i := range s.consequences {
		s.consequences[i].CheckExpiry(s.currentTurn)
		if s.consequences[i].Status.IsActive() {
			s.consequences[i].DecayImportance(consequenceDecayPerTurn)
		}
	}
}

// --- Entity management ---

// AddEntity indexes an already-constructed entity by its name and
// aliases, then stores it.
func (s *Store) AddEntity(entity Entity) EntityID {
	id := entity.ID
	s.nameIndex[strings.ToLower(entity.Name)] = id
	for _, alias := range entity.Aliases {
		s.nameIndex[strings.ToLower(alias)] = id
	}
	s.entities[id] = &entity
	return id
}

// CreateEntity builds and adds a new entity of the given type and name.
func (s *Store) CreateEntity(entityType EntityType, name string) EntityID {
	return s.AddEntity(NewEntity(entityType, name, s.currentTurn))
}

// GetEntity returns the entity with the given id, if tracked.
func (s *Store) GetEntity(id EntityID) (*Entity, bool) {
	e, ok := s.entities[id]
	return e, ok
}

// FindEntityByName looks up an entity by exact, case-insensitive name or
// alias match.
func (s *Store) FindEntityByName(name string) (*Entity, bool) {
	id, ok := s.nameIndex[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return s.GetEntity(id)
}

// FindEntityID returns the id indexed under name, if any.
func (s *Store) FindEntityID(name string) (EntityID, bool) {
	id, ok := s.nameIndex[strings.ToLower(name)]
	return id, ok
}

// FindEntitiesPartial returns every entity whose name or alias contains
// query as a case-insensitive substring.
func (s *Store) FindEntitiesPartial(query string) []*Entity {
	var out []*Entity
	for _, e := range s.entities {
		if e.MatchesPartial(query) {
			out = append(out, e)
		}
	}
	return out
}

// GetOrCreateEntity returns the existing entity by name, touching it, or
// creates a new one of the given type.
func (s *Store) GetOrCreateEntity(entityType EntityType, name string) EntityID {
	if id, ok := s.FindEntityID(name); ok {
		s.TouchEntity(id)
		return id
	}
	return s.CreateEntity(entityType, name)
}

// TouchEntity refreshes an entity's last-seen turn and importance.
func (s *Store) TouchEntity(id EntityID) {
	if e, ok := s.entities[id]; ok {
		e.Touch(s.currentTurn)
	}
}

// EntitiesOfType returns every tracked entity of the given type.
func (s *Store) EntitiesOfType(entityType EntityType) []*Entity {
	var out []*Entity
	for _, e := range s.entities {
		if e.Type == entityType {
			out = append(out, e)
		}
	}
	return out
}

// AllEntitiesByImportance returns every entity, most important first.
func (s *Store) AllEntitiesByImportance() []*Entity {
	out := make([]*Entity, 0, len(s.entities))
	for _, e := range s.entities {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Importance > out[j].Importance })
	return out
}

// --- Fact management ---

// AddFact touches the fact's subject and every mentioned entity, then
// records it.
func (s *Store) AddFact(fact StoryFact) {
	s.TouchEntity(fact.Subject)
	for _, id := range fact.MentionedEntities {
		s.TouchEntity(id)
	}
	s.facts = append(s.facts, fact)
}

// RecordFact builds and adds a fact about subjectID.
func (s *Store) RecordFact(subjectID EntityID, content string, category FactCategory, source FactSource) {
	s.AddFact(NewStoryFact(subjectID, content, category, source, s.currentTurn))
}

// RecordFactWithMentions builds and adds a fact that also mentions other
// entities.
func (s *Store) RecordFactWithMentions(subjectID EntityID, content string, category FactCategory, source FactSource, mentioned []EntityID) {
	fact := NewStoryFact(subjectID, content, category, source, s.currentTurn)
	for _, id := range mentioned {
		fact = fact.WithMentioned(id)
	}
	s.AddFact(fact)
}

// RecordFactFull builds and adds a fact with mentions and an explicit
// importance override.
func (s *Store) RecordFactFull(subjectID EntityID, content string, category FactCategory, source FactSource, mentioned []EntityID, importance float32) {
	fact := NewStoryFact(subjectID, content, category, source, s.currentTurn).WithImportance(importance)
	for _, id := range mentioned {
		fact = fact.WithMentioned(id)
	}
	s.AddFact(fact)
}

// FactsAbout returns every current fact involving the entity.
func (s *Store) FactsAbout(entityID EntityID) []StoryFact {
	var out []StoryFact
	for _, f := range s.facts {
		if f.Involves(entityID) && f.IsCurrent {
			out = append(out, f)
		}
	}
	return out
}

// FactsByCategory returns every current fact of the given category.
func (s *Store) FactsByCategory(category FactCategory) []StoryFact {
	var out []StoryFact
	for _, f := range s.facts {
		if f.Category == category && f.IsCurrent {
			out = append(out, f)
		}
	}
	return out
}

// RecentFacts returns current facts established within the last
// withinTurns turns.
func (s *Store) RecentFacts(withinTurns uint32) []StoryFact {
	minTurn := uint32(0)
	if s.currentTurn > withinTurns {
		minTurn = s.currentTurn - withinTurns
	}
	var out []StoryFact
	for _, f := range s.facts {
		if f.EstablishedTurn >= minTurn && f.IsCurrent {
			out = append(out, f)
		}
	}
	return out
}

// --- Relationship management ---

// AddRelationship records a relationship.
func (s *Store) AddRelationship(rel Relationship) {
	s.relationships = append(s.relationships, rel)
}

// CreateRelationship builds and records a relationship between two
// entities.
func (s *Store) CreateRelationship(fromID, toID EntityID, relType RelationshipType) {
	s.AddRelationship(NewRelationship(fromID, toID, relType, s.currentTurn))
}

// RelationshipsOf returns every active relationship involving the entity.
func (s *Store) RelationshipsOf(entityID EntityID) []Relationship {
	var out []Relationship
	for _, r := range s.relationships {
		if r.Involves(entityID) && r.IsActive {
			out = append(out, r)
		}
	}
	return out
}

// FindRelationship returns the active relationship directed from fromID to
// toID, if any.
func (s *Store) FindRelationship(fromID, toID EntityID) (Relationship, bool) {
	for _, r := range s.relationships {
		if r.FromEntity == fromID && r.ToEntity == toID && r.IsActive {
			return r, true
		}
	}
	return Relationship{}, false
}

// --- Consequence management ---

// AddConsequence records a consequence.
func (s *Store) AddConsequence(c Consequence) ConsequenceID {
	s.consequences = append(s.consequences, c)
	return c.ID
}

// CreateConsequence builds and records a pending consequence with no
// expiry.
func (s *Store) CreateConsequence(trigger, effect string, severity ConsequenceSeverity) ConsequenceID {
	return s.AddConsequence(NewConsequence(trigger, effect, severity, s.currentTurn))
}

// CreateConsequenceWithExpiry builds and records a consequence that
// expires after expiresInTurns turns if never triggered.
func (s *Store) CreateConsequenceWithExpiry(trigger, effect string, severity ConsequenceSeverity, expiresInTurns uint32) ConsequenceID {
	c := NewConsequence(trigger, effect, severity, s.currentTurn).WithExpiry(s.currentTurn + expiresInTurns)
	return s.AddConsequence(c)
}

// GetConsequence returns the consequence with the given id.
func (s *Store) GetConsequence(id ConsequenceID) (*Consequence, bool) {
	for i := range s.consequences {
		if s.consequences[i].ID == id {
			return &s.consequences[i], true
		}
	}
	return nil, false
}

// PendingConsequences returns every still-active consequence.
func (s *Store) PendingConsequences() []*Consequence {
	var out []*Consequence
	for i := range s.consequences {
		if s.consequences[i].Status.IsActive() {
			out = append(out, &s.consequences[i])
		}
	}
	return out
}

// PendingConsequencesByImportance returns pending consequences, most
// important first.
func (s *Store) PendingConsequencesByImportance() []*Consequence {
	out := s.PendingConsequences()
	sort.Slice(out, func(i, j int) bool { return out[i].Importance > out[j].Importance })
	return out
}

// ConsequencesInvolving returns active consequences whose subject is the
// given entity.
func (s *Store) ConsequencesInvolving(entityID EntityID) []*Consequence {
	var out []*Consequence
	for i := range s.consequences {
		if s.consequences[i].Status.IsActive() && s.consequences[i].Involves(entityID) {
			out = append(out, &s.consequences[i])
		}
	}
	return out
}

// TriggerConsequence marks a consequence as having fired.
func (s *Store) TriggerConsequence(id ConsequenceID) bool {
	c, ok := s.GetConsequence(id)
	if !ok {
		return false
	}
	c.Trigger()
	return true
}

// ResolveConsequence marks a consequence as handled without triggering.
func (s *Store) ResolveConsequence(id ConsequenceID) bool {
	c, ok := s.GetConsequence(id)
	if !ok {
		return false
	}
	c.Resolve()
	return true
}

// ConsequenceCount returns the total number of tracked consequences, of
// any status.
func (s *Store) ConsequenceCount() int { return len(s.consequences) }

// PendingConsequenceCount returns the number of still-active consequences.
func (s *Store) PendingConsequenceCount() int {
	count := 0
	for i := range s.consequences {
		if s.consequences[i].Status.IsActive() {
			count++
		}
	}
	return count
}

// BuildConsequencesForRelevance renders pending consequences, most
// important first, for inclusion in an agent's relevance check.
func (s *Store) BuildConsequencesForRelevance() string {
	pending := s.PendingConsequencesByImportance()
	if len(pending) == 0 {
		return ""
	}

	var b strings.Builder
	for i, c := range pending {
		if i >= maxContextConsequences {
			break
		}
		fmt.Fprintf(&b, "%d. [%s] TRIGGER: %s -> EFFECT: %s\n", i+1, c.ID, c.TriggerDescription, c.ConsequenceDescription)
	}
	return b.String()
}

// --- Context building ---

// ExtractMentionedEntities finds every tracked entity whose name or alias
// appears in text at a word boundary — "Thor" matches "I ask Thor" but not
// "I ask Thorin", and multi-word names match as whole phrases.
func (s *Store) ExtractMentionedEntities(text string) []EntityID {
	lower := strings.ToLower(text)
	var found []EntityID
	seen := map[EntityID]bool{}

	for name, id := range s.nameIndex {
		if containsWord(lower, name) && !seen[id] {
			found = append(found, id)
			seen[id] = true
		}
	}
	return found
}

// containsWord reports whether word appears in text bounded by the start
// or end of the string, or a non-alphanumeric byte on either side.
func containsWord(text, word string) bool {
	if word == "" {
		return false
	}

	textLen, wordLen := len(text), len(word)
	if wordLen > textLen {
		return false
	}

	for i := 0; i+wordLen <= textLen; i++ {
		if text[i:i+wordLen] != word {
			continue
		}
		leftOK := i == 0 || !isAlphanumeric(text[i-1])
		rightOK := i+wordLen == textLen || !isAlphanumeric(text[i+wordLen])
		if leftOK && rightOK {
			return true
		}
	}
	return false
}

func isAlphanumeric(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// BuildContextForInput extracts entities mentioned in input and renders
// relevant context for them.
func (s *Store) BuildContextForInput(input string) string {
	return s.BuildRelevantContext(s.ExtractMentionedEntities(input))
}

type scoredFact struct {
	fact  StoryFact
	score float32
}

// BuildRelevantContext renders a markdown context block for the given
// entities: their top facts (by importance, with a recency bonus for
// facts established in the last 10 turns) and their top three
// relationships.
func (s *Store) BuildRelevantContext(entityIDs []EntityID) string {
	if len(entityIDs) == 0 {
		return ""
	}

	var relevant []scoredFact
	seenFact := map[FactID]bool{}

	for _, entityID := range entityIDs {
		for _, f := range s.facts {
			if !f.Involves(entityID) || !f.IsCurrent || seenFact[f.ID] {
				continue
			}
			recencyBonus := float32(0)
			if f.EstablishedTurn+10 >= s.currentTurn {
				recencyBonus = 0.3
			}
			relevant = append(relevant, scoredFact{fact: f, score: f.Importance + recencyBonus})
			seenFact[f.ID] = true
		}
	}

	sort.Slice(relevant, func(i, j int) bool { return relevant[i].score > relevant[j].score })

	if len(relevant) > maxContextFacts {
		relevant = relevant[:maxContextFacts]
	}
	if len(relevant) == 0 {
		return ""
	}

	byEntity := map[EntityID][]StoryFact{}
	var order []EntityID
	for _, sf := range relevant {
		if _, ok := byEntity[sf.fact.Subject]; !ok {
			order = append(order, sf.fact.Subject)
		}
		byEntity[sf.fact.Subject] = append(byEntity[sf.fact.Subject], sf.fact)
	}

	var b strings.Builder
	b.WriteString("## Relevant Story Context\n\n")

	for _, entityID := range order {
		entity, ok := s.entities[entityID]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "### %s (%s)\n", entity.Name, entity.Type.Name())

		for _, f := range byEntity[entityID] {
			fmt.Fprintf(&b, "- %s\n", f.Content)
		}

		rels := s.RelationshipsOf(entityID)
		for i, rel := range rels {
			if i >= 3 {
				break
			}
			otherID, ok := rel.Other(entityID)
			if !ok {
				continue
			}
			other, ok := s.entities[otherID]
			if !ok {
				continue
			}
			if rel.Description != "" {
				fmt.Fprintf(&b, "- %s %s (%s)\n", rel.Type.Name(), other.Name, rel.Description)
			} else {
				fmt.Fprintf(&b, "- %s %s\n", rel.Type.Name(), other.Name)
			}
		}

		b.WriteByte('\n')
	}

	return b.String()
}

// BuildSummary renders a markdown overview of key NPCs, notable locations,
// active quests, and recent events — used for session-start recaps.
func (s *Store) BuildSummary() string {
	var b strings.Builder

	npcs := s.EntitiesOfType(EntityNPC)
	if len(npcs) > 5 {
		npcs = npcs[:5]
	}
	if len(npcs) > 0 {
		b.WriteString("### Key NPCs\n")
		for _, npc := range npcs {
			writeNamedLine(&b, npc.Name, npc.Description)
		}
		b.WriteByte('\n')
	}

	locations := s.EntitiesOfType(EntityLocation)
	if len(locations) > 3 {
		locations = locations[:3]
	}
	if len(locations) > 0 {
		b.WriteString("### Notable Locations\n")
		for _, loc := range locations {
			writeNamedLine(&b, loc.Name, loc.Description)
		}
		b.WriteByte('\n')
	}

	var quests []*Entity
	for _, q := range s.EntitiesOfType(EntityQuest) {
		if q.Importance > 0.3 {
			quests = append(quests, q)
		}
	}
	if len(quests) > 0 {
		b.WriteString("### Active Quests\n")
		for _, q := range quests {
			writeNamedLine(&b, q.Name, q.Description)
		}
		b.WriteByte('\n')
	}

	recent := s.RecentFacts(5)
	var events []StoryFact
	for _, f := range recent {
		if f.Category == FactEvent {
			events = append(events, f)
			if len(events) == 5 {
				break
			}
		}
	}
	if len(events) > 0 {
		b.WriteString("### Recent Events\n")
		for _, f := range events {
			fmt.Fprintf(&b, "- %s\n", f.Content)
		}
		b.WriteByte('\n')
	}

	return b.String()
}

func writeNamedLine(b *strings.Builder, name, description string) {
	if description != "" {
		fmt.Fprintf(b, "- **%s**: %s\n", name, description)
	} else {
		fmt.Fprintf(b, "- **%s**\n", name)
	}
}

// --- Statistics ---

// EntityCount returns the total number of tracked entities.
func (s *Store) EntityCount() int { return len(s.entities) }

// FactCount returns the total number of recorded facts.
func (s *Store) FactCount() int { return len(s.facts) }

// RelationshipCount returns the total number of recorded relationships.
func (s *Store) RelationshipCount() int { return len(s.relationships) }
