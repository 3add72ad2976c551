// Package anthropic implements internal/llm.Client against the Anthropic
// Messages API (api.anthropic.com), the reference provider SPEC_FULL.md
// §6.1 names for the DM agent's tool-calling loop.
package anthropic

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dndai/dmcore/internal/errors"
	"github.com/dndai/dmcore/internal/llm"
)

const (
	defaultBaseURL    = "https://api.anthropic.com/v1/messages"
	defaultAPIVersion = "2023-06-01"
	defaultModel      = "claude-sonnet-4-20250514"
	defaultTimeout    = 120 * time.Second
)

// Config configures a Client.
type Config struct {
	// APIKey authenticates against the Anthropic API.
	APIKey string
	// BaseURL defaults to the production Messages API endpoint.
	BaseURL string
	// APIVersion is sent as the anthropic-version header.
	APIVersion string
	// DefaultModel is used for any Request that leaves Model empty.
	DefaultModel string
	// HTTPTimeout bounds each request, streaming ones included, when
	// HTTPClient is nil.
	HTTPTimeout time.Duration
	// HTTPClient overrides the client used to make requests (for tests).
	HTTPClient *http.Client
}

// Validate validates the Config and fills in defaults.
func (cfg *Config) Validate() error {
	if cfg.APIKey == "" {
		return errors.InvalidArgument("anthropic: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = defaultAPIVersion
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = defaultModel
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = defaultTimeout
	}
	return nil
}

type client struct {
	cfg        Config
	httpClient *http.Client
}

// New creates an llm.Client backed by the Anthropic Messages API.
func New(cfg Config) (llm.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	return &client{cfg: cfg, httpClient: httpClient}, nil
}

// wireMessage and wireContentBlock mirror the Anthropic API's request/
// response JSON shape directly — a thin wire format distinct from
// internal/llm's provider-neutral types, converted at the edges of this
// package only.
type wireMessage struct {
	Role    string            `json:"role"`
	Content []json.RawMessage `json:"content"`
}

type wireTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

type wireRequest struct {
	Model         string         `json:"model"`
	System        string         `json:"system,omitempty"`
	Messages      []wireMessage  `json:"messages"`
	MaxTokens     int            `json:"max_tokens"`
	Temperature   *float32       `json:"temperature,omitempty"`
	TopP          *float32       `json:"top_p,omitempty"`
	StopSequences []string       `json:"stop_sequences,omitempty"`
	Tools         []wireTool     `json:"tools,omitempty"`
	ToolChoice    map[string]any `json:"tool_choice,omitempty"`
	Stream        bool           `json:"stream,omitempty"`
}

type wireUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type wireResponse struct {
	Content    []json.RawMessage `json:"content"`
	StopReason string            `json:"stop_reason"`
	Usage      wireUsage         `json:"usage"`
	Error      *wireError        `json:"error"`
}

type wireError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func buildWireRequest(req llm.Request, defaultModel string, stream bool) (wireRequest, error) {
	model := req.Model
	if model == "" {
		model = defaultModel
	}

	messages := make([]wireMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		blocks := make([]json.RawMessage, 0, len(m.Content))
		for _, b := range m.Content {
			data, err := llm.MarshalContentBlock(b)
			if err != nil {
				return wireRequest{}, err
			}
			blocks = append(blocks, data)
		}
		messages = append(messages, wireMessage{Role: string(m.Role), Content: blocks})
	}

	tools := make([]wireTool, 0, len(req.Tools))
	for _, t := range req.Tools {
		tools = append(tools, wireTool{Name: t.Name, Description: t.Description, InputSchema: t.InputSchema})
	}

	var toolChoice map[string]any
	switch req.ToolChoice {
	case "":
	case "auto", "any", "none":
		toolChoice = map[string]any{"type": req.ToolChoice}
	default:
		toolChoice = map[string]any{"type": "tool", "name": req.ToolChoice}
	}

	return wireRequest{
		Model:         model,
		System:        req.System,
		Messages:      messages,
		MaxTokens:     req.MaxTokens,
		Temperature:   req.Temperature,
		TopP:          req.TopP,
		StopSequences: req.StopSequences,
		Tools:         tools,
		ToolChoice:    toolChoice,
		Stream:        stream,
	}, nil
}

func toStopReason(s string) llm.StopReason {
	switch s {
	case "end_turn":
		return llm.StopEndTurn
	case "max_tokens":
		return llm.StopMaxTokens
	case "tool_use":
		return llm.StopToolUse
	case "stop_sequence":
		return llm.StopStopSequence
	default:
		return llm.StopReason(s)
	}
}

func (c *client) newHTTPRequest(ctx context.Context, body []byte) (*http.Request, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build anthropic request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.cfg.APIKey)
	httpReq.Header.Set("anthropic-version", c.cfg.APIVersion)
	return httpReq, nil
}

// Complete implements llm.Client.
func (c *client) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	wireReq, err := buildWireRequest(req, c.cfg.DefaultModel, false)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(wireReq)
	if err != nil {
		return nil, errors.Wrap(err, "marshal anthropic request")
	}

	httpReq, err := c.newHTTPRequest(ctx, body)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrapf(err, "anthropic: request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read anthropic response")
	}

	var wireResp wireResponse
	if err := json.Unmarshal(respBody, &wireResp); err != nil {
		return nil, errors.Wrapf(err, "decode anthropic response (status %d)", resp.StatusCode)
	}
	if wireResp.Error != nil {
		return nil, errors.Unavailablef("anthropic: %s: %s", wireResp.Error.Type, wireResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Unavailablef("anthropic: unexpected status %d", resp.StatusCode)
	}

	return decodeWireResponse(wireResp)
}

func decodeWireResponse(wireResp wireResponse) (*llm.Response, error) {
	blocks := make([]llm.ContentBlock, 0, len(wireResp.Content))
	for _, raw := range wireResp.Content {
		block, err := llm.UnmarshalContentBlock(raw)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	return &llm.Response{
		StopReason:   toStopReason(wireResp.StopReason),
		Content:      blocks,
		InputTokens:  wireResp.Usage.InputTokens,
		OutputTokens: wireResp.Usage.OutputTokens,
	}, nil
}

// sseEvent is one parsed Server-Sent Event frame from the streaming API.
type sseEvent struct {
	event string
	data  string
}

// scanSSE reads text/event-stream frames off r, delivering one sseEvent per
// blank-line-terminated block. Anthropic's stream uses "event: <name>" and
// "data: <json>" lines; other SSE fields (id, retry, comments) are ignored,
// matching the subset this API actually emits.
func scanSSE(r io.Reader, onEvent func(sseEvent) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var current sseEvent
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if current.data != "" {
				if err := onEvent(current); err != nil {
					return err
				}
			}
			current = sseEvent{}
		case strings.HasPrefix(line, "event:"):
			current.event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			current.data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
	}
	return scanner.Err()
}

type streamEventEnvelope struct {
	Type  string `json:"type"`
	Delta struct {
		Type        string `json:"type"`
		Text        string `json:"text"`
		PartialJSON string `json:"partial_json"`
		StopReason  string `json:"stop_reason"`
	} `json:"delta"`
	ContentBlock json.RawMessage `json:"content_block"`
	Index        int             `json:"index"`
	Message      struct {
		Usage wireUsage `json:"usage"`
	} `json:"message"`
	Usage wireUsage `json:"usage"`
}

// CompleteStream implements llm.Client, assembling the streamed
// content_block_start/delta/stop events into the same ContentBlock slice a
// non-streaming Complete call would return, while forwarding narrative text
// deltas to onDelta as they arrive.
func (c *client) CompleteStream(ctx context.Context, req llm.Request, onDelta func(delta string)) (*llm.Response, error) {
	wireReq, err := buildWireRequest(req, c.cfg.DefaultModel, true)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(wireReq)
	if err != nil {
		return nil, errors.Wrap(err, "marshal anthropic stream request")
	}

	httpReq, err := c.newHTTPRequest(ctx, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrapf(err, "anthropic: stream request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, errors.Unavailablef("anthropic: stream status %d: %s", resp.StatusCode, string(respBody))
	}

	type pendingBlock struct {
		kind string
		text strings.Builder
		json strings.Builder
		id   string
		name string
	}
	blocks := map[int]*pendingBlock{}
	var order []int
	stopReason := llm.StopEndTurn
	var usage wireUsage

	err = scanSSE(resp.Body, func(ev sseEvent) error {
		var env streamEventEnvelope
		if unmarshalErr := json.Unmarshal([]byte(ev.data), &env); unmarshalErr != nil {
			return errors.Wrap(unmarshalErr, "decode anthropic stream event")
		}

		switch env.Type {
		case "message_start":
			usage = env.Message.Usage
		case "content_block_start":
			var header struct {
				Type string `json:"type"`
				ID   string `json:"id"`
				Name string `json:"name"`
			}
			if unmarshalErr := json.Unmarshal(env.ContentBlock, &header); unmarshalErr != nil {
				return errors.Wrap(unmarshalErr, "decode content_block_start")
			}
			blocks[env.Index] = &pendingBlock{kind: header.Type, id: header.ID, name: header.Name}
			order = append(order, env.Index)
		case "content_block_delta":
			b := blocks[env.Index]
			if b == nil {
				return errors.Internalf("anthropic: delta for unknown block index %d", env.Index)
			}
			switch env.Delta.Type {
			case "text_delta":
				b.text.WriteString(env.Delta.Text)
				if onDelta != nil {
					onDelta(env.Delta.Text)
				}
			case "input_json_delta":
				b.json.WriteString(env.Delta.PartialJSON)
			case "thinking_delta":
				b.text.WriteString(env.Delta.Text)
			}
		case "message_delta":
			if env.Delta.StopReason != "" {
				stopReason = toStopReason(env.Delta.StopReason)
			}
			usage.OutputTokens = env.Usage.OutputTokens
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	content := make([]llm.ContentBlock, 0, len(order))
	for _, idx := range order {
		b := blocks[idx]
		switch b.kind {
		case "text":
			content = append(content, llm.Text{Text: b.text.String()})
		case "tool_use":
			input := json.RawMessage(b.json.String())
			if len(input) == 0 {
				input = json.RawMessage("{}")
			}
			content = append(content, llm.ToolUse{ID: b.id, Name: b.name, Input: input})
		case "thinking":
			content = append(content, llm.Thinking{Text: b.text.String()})
		default:
			slog.Warn("anthropic: unrecognized stream block kind", "kind", b.kind)
		}
	}

	return &llm.Response{
		StopReason:   stopReason,
		Content:      content,
		InputTokens:  usage.InputTokens,
		OutputTokens: usage.OutputTokens,
	}, nil
}
