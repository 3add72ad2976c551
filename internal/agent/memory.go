package agent

import (
	"encoding/json"
	"strings"

	"github.com/dndai/dmcore/internal/llm"
)

// NoteCategory classifies a campaign-level note recorded directly via
// Agent.Remember, independent of the structured internal/memory.Store
// entity/fact graph that remember_fact tool calls populate.
type NoteCategory string

const (
	NoteSetting    NoteCategory = "setting"
	NoteRule       NoteCategory = "rule"
	NotePreference NoteCategory = "preference"
	NotePlot       NoteCategory = "plot"
)

// campaignNote is one recorded Remember call.
type campaignNote struct {
	Category NoteCategory
	Content  string
}

// conversationMemoryData is the exported snapshot of ConversationMemory's
// unexported fields, used only for persistence.
type conversationMemoryData struct {
	Messages []llm.Message  `json:"messages"`
	Notes    []campaignNote `json:"notes"`
}

// MarshalJSON snapshots the conversation for persistence (SPEC_FULL.md
// §6.3's save-file format embeds this as conversation_memory).
func (m *ConversationMemory) MarshalJSON() ([]byte, error) {
	return json.Marshal(conversationMemoryData{Messages: m.messages, Notes: m.notes})
}

// UnmarshalJSON restores a conversation from a snapshot.
func (m *ConversationMemory) UnmarshalJSON(data []byte) error {
	var d conversationMemoryData
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	m.messages = d.Messages
	m.notes = d.Notes
	return nil
}

// ConversationMemory tracks the raw LLM message history for one agent's
// tool-use loop, plus any campaign-level notes recorded outside of it. This
// is a distinct, simpler concern from internal/memory.Store's entity/fact
// graph: ConversationMemory is what gets replayed verbatim as context to
// the next LLM call, while Store is what gets queried by name or category.
type ConversationMemory struct {
	messages []llm.Message
	notes    []campaignNote
}

// NewConversationMemory starts an empty conversation.
func NewConversationMemory() *ConversationMemory {
	return &ConversationMemory{}
}

// AddPlayerMessage appends the player's turn as a user-role message.
func (m *ConversationMemory) AddPlayerMessage(text string) {
	m.messages = append(m.messages, llm.Message{Role: llm.RoleUser, Content: []llm.ContentBlock{llm.Text{Text: text}}})
}

// AddDMMessage appends the DM's narrative as an assistant-role message.
func (m *ConversationMemory) AddDMMessage(text string) {
	m.messages = append(m.messages, llm.Message{Role: llm.RoleAssistant, Content: []llm.ContentBlock{llm.Text{Text: text}}})
}

// Messages returns a copy of the message history, safe for a caller to
// append tool-use iterations onto without mutating the stored history.
func (m *ConversationMemory) Messages() []llm.Message {
	out := make([]llm.Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// AddFact records a campaign-level note under category.
func (m *ConversationMemory) AddFact(category NoteCategory, fact string) {
	m.notes = append(m.notes, campaignNote{Category: category, Content: fact})
}

// BuildContext renders recorded notes as a short markdown block for
// inclusion in the system prompt; returns "" when there are none.
func (m *ConversationMemory) BuildContext() string {
	if len(m.notes) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("## Campaign Notes\n")
	for _, n := range m.notes {
		b.WriteString("- (")
		b.WriteString(string(n.Category))
		b.WriteString(") ")
		b.WriteString(n.Content)
		b.WriteString("\n")
	}
	return b.String()
}
