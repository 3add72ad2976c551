package anthropic

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dndai/dmcore/internal/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) llm.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := New(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)
	return c
}

func TestComplete_DecodesTextAndToolUseBlocks(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, defaultAPIVersion, r.Header.Get("anthropic-version"))

		fmt.Fprint(w, `{
			"content": [
				{"type": "text", "text": "The goblin snarls."},
				{"type": "tool_use", "id": "toolu_1", "name": "roll_dice", "input": {"notation": "1d20"}}
			],
			"stop_reason": "tool_use",
			"usage": {"input_tokens": 100, "output_tokens": 20}
		}`)
	})

	resp, err := c.Complete(context.Background(), llm.Request{MaxTokens: 1024})
	require.NoError(t, err)
	assert.Equal(t, llm.StopToolUse, resp.StopReason)
	require.Len(t, resp.Content, 2)
	assert.Equal(t, llm.Text{Text: "The goblin snarls."}, resp.Content[0])
	use := resp.Content[1].(llm.ToolUse)
	assert.Equal(t, "roll_dice", use.Name)
	assert.Equal(t, 100, resp.InputTokens)
}

func TestComplete_PropagatesAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": {"type": "rate_limit_error", "message": "slow down"}}`)
	})

	_, err := c.Complete(context.Background(), llm.Request{MaxTokens: 1024})
	assert.Error(t, err)
}

func TestCompleteStream_AssemblesDeltasAndForwardsText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		events := []string{
			`{"type":"message_start","message":{"usage":{"input_tokens":50,"output_tokens":0}}}`,
			`{"type":"content_block_start","index":0,"content_block":{"type":"text"}}`,
			`{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Roll for "}}`,
			`{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"initiative."}}`,
			`{"type":"content_block_start","index":1,"content_block":{"type":"tool_use","id":"toolu_2","name":"roll_initiative"}}`,
			`{"type":"content_block_delta","index":1,"delta":{"type":"input_json_delta","partial_json":"{\"name\":"}}`,
			`{"type":"content_block_delta","index":1,"delta":{"type":"input_json_delta","partial_json":"\"Orc\"}"}}`,
			`{"type":"message_delta","delta":{"stop_reason":"tool_use"},"usage":{"output_tokens":12}}`,
		}
		bw := bufio.NewWriter(w)
		for _, data := range events {
			fmt.Fprintf(bw, "event: chunk\ndata: %s\n\n", data)
		}
		bw.Flush()
	})

	var deltas []string
	resp, err := c.CompleteStream(context.Background(), llm.Request{MaxTokens: 1024}, func(delta string) {
		deltas = append(deltas, delta)
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Roll for ", "initiative."}, deltas)
	assert.Equal(t, llm.StopToolUse, resp.StopReason)
	require.Len(t, resp.Content, 2)
	assert.Equal(t, llm.Text{Text: "Roll for initiative."}, resp.Content[0])

	use := resp.Content[1].(llm.ToolUse)
	assert.Equal(t, "roll_initiative", use.Name)
	var input map[string]any
	require.NoError(t, json.Unmarshal(use.Input, &input))
	assert.Equal(t, "Orc", input["name"])
	assert.Equal(t, 12, resp.OutputTokens)
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}
