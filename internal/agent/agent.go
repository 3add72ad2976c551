// Package agent implements the DM Agent: the tool-use loop that turns one
// player input into a narrated response by repeatedly calling an llm.Client,
// dispatching any tool calls it makes through internal/rules and
// internal/tools, and applying the resulting effects to a world.GameWorld.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/dndai/dmcore/internal/dice"
	"github.com/dndai/dmcore/internal/llm"
	"github.com/dndai/dmcore/internal/memory"
	"github.com/dndai/dmcore/internal/rules"
	"github.com/dndai/dmcore/internal/tools"
	"github.com/dndai/dmcore/internal/world"
)

// Response is what one player turn produces: the assembled narrative, plus
// everything that happened along the way for a caller that wants to inspect
// or log it.
type Response struct {
	Narrative   string
	Intents     []rules.Intent
	Effects     []rules.Effect
	Resolutions []rules.Resolution
}

// Agent is the Dungeon Master: an LLM client, a rules engine, and the two
// memory stores a session accumulates (raw conversation history and
// structured story facts).
type Agent struct {
	client      llm.Client
	rules       *rules.Engine
	config      Config
	memory      *ConversationMemory
	storyMemory *memory.Store
}

// New builds an Agent. roller seeds the rules engine's dice rolls.
func New(client llm.Client, roller dice.Roller, config Config) *Agent {
	return &Agent{
		client:      client,
		rules:       rules.NewEngine(roller),
		config:      config,
		memory:      NewConversationMemory(),
		storyMemory: memory.NewStore(),
	}
}

// Memory exposes the raw conversation history store.
func (a *Agent) Memory() *ConversationMemory { return a.memory }

// StoryMemory exposes the structured entity/fact store.
func (a *Agent) StoryMemory() *memory.Store { return a.storyMemory }

// Restore replaces the agent's story memory and conversation history —
// used only when resuming a saved session, where both stores are
// deserialized independently of New's fresh ones.
func (a *Agent) Restore(storyMemory *memory.Store, conversation *ConversationMemory) {
	a.storyMemory = storyMemory
	a.memory = conversation
}

// Remember records a campaign-level note directly, bypassing the LLM —
// useful for session setup (house rules, table preferences) that should
// never drop out of context.
func (a *Agent) Remember(category NoteCategory, fact string) {
	a.memory.AddFact(category, fact)
}

// ProcessInput runs one player turn to completion: it drives the tool-use
// loop against the LLM, resolving and applying every tool call the model
// makes, until the model stops calling tools or the iteration guard trips.
func (a *Agent) ProcessInput(ctx context.Context, playerInput string, w *world.GameWorld) (*Response, error) {
	return a.run(ctx, playerInput, w, nil)
}

// ProcessInputStreaming is ProcessInput, but forwards narrative text deltas
// to onDelta as they arrive. Tool calls never appear as deltas — they
// surface only once a model turn completes, same as ProcessInput.
func (a *Agent) ProcessInputStreaming(ctx context.Context, playerInput string, w *world.GameWorld, onDelta func(string)) (*Response, error) {
	return a.run(ctx, playerInput, w, onDelta)
}

func (a *Agent) run(ctx context.Context, playerInput string, w *world.GameWorld, onDelta func(string)) (*Response, error) {
	w.AddNarrative(playerInput, world.PlayerAction)
	a.memory.AddPlayerMessage(playerInput)
	a.storyMemory.AdvanceTurn()

	system := a.buildSystemPrompt(w, playerInput)
	messages := a.memory.Messages()
	toolDefs := toolDefinitions()

	var narrative strings.Builder
	var allIntents []rules.Intent
	var allEffects []rules.Effect
	var allResolutions []rules.Resolution

	for iteration := 0; iteration < maxToolUseIterations; iteration++ {
		req := llm.Request{
			Model:     a.config.Model,
			System:    system,
			Messages:  messages,
			MaxTokens: a.config.MaxTokens,
			Tools:     toolDefs,
		}
		if req.MaxTokens == 0 {
			req.MaxTokens = defaultMaxTokens
		}
		if a.config.Temperature != nil {
			req.Temperature = a.config.Temperature
		}

		var resp *llm.Response
		var err error
		if onDelta != nil {
			resp, err = a.client.CompleteStream(ctx, req, onDelta)
		} else {
			resp, err = a.client.Complete(ctx, req)
		}
		if err != nil {
			return nil, fmt.Errorf("dm agent: llm completion: %w", err)
		}

		var toolUses []llm.ToolUse
		for _, block := range resp.Content {
			switch b := block.(type) {
			case llm.Text:
				narrative.WriteString(b.Text)
			case llm.ToolUse:
				toolUses = append(toolUses, b)
			}
		}

		if resp.StopReason != llm.StopToolUse || len(toolUses) == 0 {
			break
		}

		messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: resp.Content})

		var toolResults []llm.ContentBlock
		for _, use := range toolUses {
			intent, ok := tools.ParseToolCall(use.Name, use.Input, w)
			if !ok {
				toolResults = append(toolResults, llm.ToolResult{
					ToolUseID: use.ID,
					Content:   fmt.Sprintf("Unknown tool: %s", use.Name),
					IsError:   true,
				})
				continue
			}

			resolution := a.rules.Resolve(w, intent)
			if err := rules.Apply(w, resolution.Effects); err != nil {
				toolResults = append(toolResults, llm.ToolResult{
					ToolUseID: use.ID,
					Content:   fmt.Sprintf("Could not apply effects: %s", err),
					IsError:   true,
				})
				continue
			}

			for _, effect := range resolution.Effects {
				if fr, ok := effect.(rules.FactRemembered); ok {
					a.storeFact(fr)
				}
			}

			allIntents = append(allIntents, intent)
			allEffects = append(allEffects, resolution.Effects...)
			allResolutions = append(allResolutions, resolution)

			toolResults = append(toolResults, llm.ToolResult{
				ToolUseID: use.ID,
				Content:   resolution.Narrative,
			})
		}

		messages = append(messages, llm.Message{Role: llm.RoleUser, Content: toolResults})
	}

	final := narrative.String()
	w.AddNarrative(final, world.DmNarration)
	a.memory.AddDMMessage(final)

	return &Response{
		Narrative:   final,
		Intents:     allIntents,
		Effects:     allEffects,
		Resolutions: allResolutions,
	}, nil
}

// storeFact routes a FactRemembered effect into story memory, mirroring
// agent.rs's store_fact: get-or-create the subject entity, resolve each
// related-entity name against existing entities (skipping names that don't
// match rather than creating new ones), and record the fact against the
// subject with those mentions attached.
func (a *Agent) storeFact(fr rules.FactRemembered) {
	subjectType := parseEntityType(fr.SubjectType)
	category := parseFactCategory(fr.Category)

	subjectID := a.storyMemory.GetOrCreateEntity(subjectType, fr.SubjectName)

	var mentioned []memory.EntityID
	for _, name := range fr.RelatedEntities {
		if id, ok := a.storyMemory.FindEntityID(name); ok {
			mentioned = append(mentioned, id)
		}
	}

	a.storyMemory.RecordFactFull(subjectID, fr.Fact, category, memory.SourceDMNarration, mentioned, fr.Importance)
}

func parseEntityType(s string) memory.EntityType {
	switch strings.ToLower(s) {
	case "npc":
		return memory.EntityNPC
	case "location":
		return memory.EntityLocation
	case "quest":
		return memory.EntityQuest
	case "item":
		return memory.EntityItem
	case "organization":
		return memory.EntityOrganization
	case "event":
		return memory.EntityEvent
	case "creature":
		return memory.EntityCreature
	default:
		return memory.EntityNPC
	}
}

func parseFactCategory(s string) memory.FactCategory {
	switch strings.ToLower(s) {
	case "appearance":
		return memory.FactAppearance
	case "personality":
		return memory.FactPersonality
	case "event":
		return memory.FactEvent
	case "relationship":
		return memory.FactRelationship
	case "backstory":
		return memory.FactBackstory
	case "motivation":
		return memory.FactMotivation
	case "capability":
		return memory.FactCapability
	case "location":
		return memory.FactLocation
	case "possession":
		return memory.FactPossession
	case "status":
		return memory.FactStatus
	case "secret":
		return memory.FactSecret
	default:
		return memory.FactEvent
	}
}

func toolDefinitions() []llm.ToolDefinition {
	all := tools.All()
	defs := make([]llm.ToolDefinition, len(all))
	for i, t := range all {
		defs[i] = llm.ToolDefinition{Name: t.Name, Description: t.Description, InputSchema: t.InputSchema}
	}
	return defs
}

// buildSystemPrompt assembles the full system prompt for one LLM call,
// following agent.rs's build_system_prompt section order exactly: base
// prompt, story memory guidance, background hooks, combat triggers, combat
// turn management, encounter pacing, rest rules, skill checks, class
// features, optional custom instructions, campaign header, player
// character sheet, current situation, combat status (in combat only), and
// finally memory context for both stores.
func (a *Agent) buildSystemPrompt(w *world.GameWorld, playerInput string) string {
	var b strings.Builder

	sections := []string{
		basePrompt,
		storyMemoryPrompt,
		backgroundHooksPrompt,
		combatTriggersPrompt,
		combatTurnsPrompt,
		encounterPacingPrompt,
		restRulesPrompt,
		skillChecksPrompt,
		classFeaturesPrompt,
	}
	for _, s := range sections {
		b.WriteString(s)
		b.WriteString("\n\n")
	}

	if a.config.CustomSystemPrompt != "" {
		b.WriteString("## Additional Instructions\n")
		b.WriteString(a.config.CustomSystemPrompt)
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "## Current Campaign: %s\n\n", w.CampaignName)

	pc := w.PlayerCharacter
	b.WriteString("## Player Character\n")
	fmt.Fprintf(&b, "**Name:** %s\n", pc.Name)
	b.WriteString("**Class:** ")
	b.WriteString(classChain(pc))
	b.WriteString("\n")
	fmt.Fprintf(&b, "**Race:** %s\n", pc.Race.Name)
	fmt.Fprintf(&b, "**Background:** %s\n", pc.Background)
	fmt.Fprintf(&b, "**HP:** %d/%d\n", pc.HitPoints.Current, pc.HitPoints.Maximum)
	fmt.Fprintf(&b, "**AC:** %d\n", pc.CurrentAC())
	fmt.Fprintf(&b, "STR %d DEX %d CON %d INT %d WIS %d CHA %d\n\n",
		pc.AbilityScores.Strength, pc.AbilityScores.Dexterity, pc.AbilityScores.Constitution,
		pc.AbilityScores.Intelligence, pc.AbilityScores.Wisdom, pc.AbilityScores.Charisma)

	b.WriteString("## Current Situation\n")
	fmt.Fprintf(&b, "**Location:** %s\n", w.CurrentLocation.Name)
	daynight := "day"
	if !w.GameTime.IsDaytime() {
		daynight = "night"
	}
	fmt.Fprintf(&b, "**Time:** %s (%s)\n", w.GameTime.TimeOfDay(), daynight)
	fmt.Fprintf(&b, "**Mode:** %s\n\n", w.Mode)

	if w.Mode == world.Combat && w.Combat != nil {
		b.WriteString(combatNarrationPrompt)
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "### Combat Status - Round %d\n", w.Combat.Round)
		if current := w.Combat.Current(); current != nil {
			fmt.Fprintf(&b, "**Current turn:** %s\n", current.Name)
		}
		b.WriteString("**Initiative Order:**\n")
		for i, c := range w.Combat.Combatants {
			marker := " "
			if i == w.Combat.TurnIndex {
				marker = ">"
			}
			fmt.Fprintf(&b, "%s %d. %s (init %d) - %s\n", marker, i+1, c.Name, c.Initiative, describeHPStatus(c.CurrentHP, c.MaxHP))
		}
		b.WriteString("\n")
	}

	if len(pc.Conditions) > 0 {
		b.WriteString("Active conditions:\n")
		for _, cond := range pc.Conditions {
			fmt.Fprintf(&b, "- %s (from %s)\n", cond.Condition, cond.Source)
		}
		b.WriteString("\n")
	}

	if mc := a.memory.BuildContext(); mc != "" {
		b.WriteString(mc)
		b.WriteString("\n")
	}

	if sc := a.storyMemory.BuildContextForInput(playerInput); sc != "" {
		b.WriteString(sc)
	}

	return b.String()
}

// classChain renders a multiclassed character's classes as "Fighter
// 3/Rogue 2", matching agent.rs's "/".join over each class entry.
func classChain(pc world.Character) string {
	parts := make([]string, len(pc.Classes))
	for i, cl := range pc.Classes {
		parts[i] = fmt.Sprintf("%s %d", cl.Class, cl.Level)
	}
	return strings.Join(parts, "/")
}

// describeHPStatus gives a narration-friendly label for a combatant's HP
// fraction. Distinct from any narration helper in internal/rules — this one
// is what the agent prompt shows the model, not what a Resolution narrates.
func describeHPStatus(current, max int) string {
	if current <= 0 {
		return "down"
	}
	if current == max {
		return "uninjured"
	}
	ratio := float64(current) / float64(max)
	switch {
	case ratio > 0.75:
		return "lightly wounded"
	case ratio > 0.5:
		return "bloodied"
	case ratio > 0.25:
		return "badly wounded"
	default:
		return "near death"
	}
}
