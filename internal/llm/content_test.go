package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentBlock_RoundTrip(t *testing.T) {
	cases := []ContentBlock{
		Text{Text: "The torch flickers."},
		ToolUse{ID: "toolu_1", Name: "roll_dice", Input: json.RawMessage(`{"notation":"1d20"}`)},
		ToolResult{ToolUseID: "toolu_1", Content: "rolled 17", IsError: false},
		Thinking{Text: "considering the ambush"},
	}

	for _, block := range cases {
		data, err := MarshalContentBlock(block)
		require.NoError(t, err)

		decoded, err := UnmarshalContentBlock(data)
		require.NoError(t, err)
		assert.Equal(t, block, decoded)
	}
}

func TestUnmarshalContentBlock_UnknownType(t *testing.T) {
	_, err := UnmarshalContentBlock([]byte(`{"type":"redaction"}`))
	assert.Error(t, err)
}

func TestUnmarshalContentBlock_AnthropicWireFormat(t *testing.T) {
	// Confirms decoding works directly against the Anthropic API's own
	// wire shape, not just output from MarshalContentBlock.
	raw := []byte(`{"type":"tool_use","id":"toolu_9","name":"apply_damage","input":{"amount":5}}`)

	block, err := UnmarshalContentBlock(raw)
	require.NoError(t, err)
	use := block.(ToolUse)
	assert.Equal(t, "toolu_9", use.ID)
	assert.Equal(t, "apply_damage", use.Name)
	assert.JSONEq(t, `{"amount":5}`, string(use.Input))
}
