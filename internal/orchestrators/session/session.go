// Package session implements the session orchestrator: the long-lived
// object a caller holds for one campaign, wrapping internal/agent's DM
// Agent with re-entrancy protection, save/load, and the narrow accessor
// surface a UI or CLI needs without reaching into world.GameWorld directly.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dndai/dmcore/internal/agent"
	"github.com/dndai/dmcore/internal/dice"
	"github.com/dndai/dmcore/internal/errors"
	"github.com/dndai/dmcore/internal/llm"
	"github.com/dndai/dmcore/internal/world"
)

// Config configures a new Session.
type Config struct {
	// Client is the LLM transport the DM Agent calls.
	Client llm.Client
	// Roller seeds the rules engine's dice rolls.
	Roller dice.Roller
	// CampaignName names the session.
	CampaignName string
	// StartingLocation overrides world.New's default starting location
	// name when non-empty.
	StartingLocation string
	// Agent configures the DM Agent's LLM call parameters.
	Agent agent.Config
}

// Validate checks that every required dependency is set.
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Client == nil {
		vb.RequiredField("Client")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.CampaignName == "" {
		vb.RequiredField("CampaignName")
	}

	return vb.Build()
}

// PlayerActionResponse is what one player turn returns to the caller —
// narrower than agent.Response, surfacing only what a UI needs to render
// and decide whether the player may act again.
type PlayerActionResponse struct {
	Narrative    string
	Effects      []string
	InCombat     bool
	IsPlayerTurn bool
}

// Session is one campaign's live state: a world, a DM Agent, and the
// in-flight guard that rejects overlapping player actions.
type Session struct {
	world *world.GameWorld
	agent *agent.Agent

	mu       sync.Mutex
	inFlight bool
}

// NewWithCharacter starts a brand-new session for a freshly-built
// character, matching headless.rs's HeadlessGame::new /
// GameSession::new_with_character.
func NewWithCharacter(cfg Config, character world.Character) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid session config")
	}

	w := world.New(cfg.CampaignName, character)
	if cfg.StartingLocation != "" {
		w.CurrentLocation.Name = cfg.StartingLocation
		w.KnownLocations[w.CurrentLocation.ID] = w.CurrentLocation
	}

	return &Session{
		world: w,
		agent: agent.New(cfg.Client, cfg.Roller, cfg.Agent),
	}, nil
}

// SessionID returns the world's unique session identifier.
func (s *Session) SessionID() string { return s.world.SessionID.String() }

// PlayerAction runs one player turn and applies its effects to the
// session's world. It rejects overlapping calls rather than queuing them
// (spec.md's concurrency model: single-threaded cooperative per session).
func (s *Session) PlayerAction(ctx context.Context, input string) (*PlayerActionResponse, error) {
	return s.playerAction(ctx, input, nil)
}

// PlayerActionStreaming is PlayerAction, but forwards narrative text
// deltas to onDelta as they arrive.
func (s *Session) PlayerActionStreaming(ctx context.Context, input string, onDelta func(string)) (*PlayerActionResponse, error) {
	return s.playerAction(ctx, input, onDelta)
}

func (s *Session) playerAction(ctx context.Context, input string, onDelta func(string)) (*PlayerActionResponse, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, errors.FailedPreconditionf("session %s: action already in flight", s.world.SessionID)
	}
	s.inFlight = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	var resp *agent.Response
	var err error
	if onDelta != nil {
		resp, err = s.agent.ProcessInputStreaming(ctx, input, s.world, onDelta)
	} else {
		resp, err = s.agent.ProcessInput(ctx, input, s.world)
	}
	if err != nil {
		return nil, err
	}

	effects := make([]string, len(resp.Resolutions))
	for i, r := range resp.Resolutions {
		effects[i] = r.Narrative
	}

	return &PlayerActionResponse{
		Narrative:    resp.Narrative,
		Effects:      effects,
		InCombat:     s.InCombat(),
		IsPlayerTurn: s.isPlayerTurn(),
	}, nil
}

// World exposes the session's world state for read access (save, UI
// rendering, scripted inspection).
func (s *Session) World() *world.GameWorld { return s.world }

// Agent exposes the underlying DM Agent for advanced use (direct story
// memory queries, custom prompt injection via Remember).
func (s *Session) Agent() *agent.Agent { return s.agent }

// HPStatus returns the player character's current and maximum HP.
func (s *Session) HPStatus() (current, maximum int) {
	hp := s.world.PlayerCharacter.HitPoints
	return hp.Current, hp.Maximum
}

// InCombat reports whether the session's world is in combat mode.
func (s *Session) InCombat() bool {
	return s.world.Mode == world.Combat && s.world.Combat != nil
}

// isPlayerTurn reports whether the player may currently act: always true
// outside combat, and true in combat only when the current initiative
// entry is the player.
func (s *Session) isPlayerTurn() bool {
	if !s.InCombat() {
		return true
	}
	current := s.world.Combat.Current()
	return current != nil && current.IsPlayer
}

// PlayerName returns the player character's name.
func (s *Session) PlayerName() string { return s.world.PlayerCharacter.Name }

// PlayerClass renders the player character's class chain
// ("Fighter 3/Rogue 2"), empty if no class has been assigned yet.
func (s *Session) PlayerClass() string {
	pc := s.world.PlayerCharacter
	if len(pc.Classes) == 0 {
		return ""
	}
	parts := make([]string, len(pc.Classes))
	for i, cl := range pc.Classes {
		parts[i] = fmt.Sprintf("%s %d", cl.Class, cl.Level)
	}
	return strings.Join(parts, "/")
}

// PlayerBackground returns the player character's background.
func (s *Session) PlayerBackground() string { return s.world.PlayerCharacter.Background }

// CurrentLocation returns the name of the player's current location.
func (s *Session) CurrentLocation() string { return s.world.CurrentLocation.Name }
