package llm

import "encoding/json"

// wireMessage is Message's JSON shape. Content needs explicit handling
// because ContentBlock is an interface — encoding/json can't infer which
// concrete type to allocate on Unmarshal without the tagged codec in
// content.go.
type wireMessage struct {
	Role    Role              `json:"role"`
	Content []json.RawMessage `json:"content"`
}

// MarshalJSON encodes each content block through MarshalContentBlock so the
// "type" discriminator survives a round trip through persistence.
func (m Message) MarshalJSON() ([]byte, error) {
	raw := make([]json.RawMessage, len(m.Content))
	for i, block := range m.Content {
		data, err := MarshalContentBlock(block)
		if err != nil {
			return nil, err
		}
		raw[i] = data
	}
	return json.Marshal(wireMessage{Role: m.Role, Content: raw})
}

// UnmarshalJSON decodes each content block through UnmarshalContentBlock.
func (m *Message) UnmarshalJSON(data []byte) error {
	var w wireMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	blocks := make([]ContentBlock, len(w.Content))
	for i, raw := range w.Content {
		block, err := UnmarshalContentBlock(raw)
		if err != nil {
			return err
		}
		blocks[i] = block
	}

	m.Role = w.Role
	m.Content = blocks
	return nil
}
