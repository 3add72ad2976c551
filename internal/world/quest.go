package world

import "github.com/google/uuid"

// QuestStatus tracks a quest's lifecycle.
type QuestStatus int

const (
	QuestActive QuestStatus = iota
	QuestCompleted
	QuestFailed
	QuestAbandoned
)

// QuestObjective is one step of a quest.
type QuestObjective struct {
	Description string
	Completed   bool
	Optional    bool
}

// Quest is a tracked objective or story thread.
type Quest struct {
	ID          uuid.UUID
	Name        string
	Description string
	Status      QuestStatus
	Objectives  []QuestObjective
	Rewards     []string
	Giver       string
}

// NewQuest creates an active quest with no objectives yet.
func NewQuest(name, description string) Quest {
	return Quest{ID: uuid.New(), Name: name, Description: description, Status: QuestActive}
}

// IsComplete reports whether every objective (at least one must exist) is
// done.
func (q Quest) IsComplete() bool {
	if len(q.Objectives) == 0 {
		return false
	}
	for _, o := range q.Objectives {
		if !o.Completed {
			return false
		}
	}
	return true
}
