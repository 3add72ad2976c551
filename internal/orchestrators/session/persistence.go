package session

import (
	"context"
	"encoding/json"
	"os"

	"github.com/dndai/dmcore/internal/agent"
	"github.com/dndai/dmcore/internal/errors"
	"github.com/dndai/dmcore/internal/memory"
	sessionrepo "github.com/dndai/dmcore/internal/repositories/session"
	"github.com/dndai/dmcore/internal/world"
)

// currentSaveVersion is bumped whenever saveFile's shape changes in a way
// that breaks older saves.
const currentSaveVersion = 1

// saveFile is the on-disk shape of a saved session (SPEC_FULL.md §6.3):
// session_id, campaign_name, world, story_memory, conversation_memory,
// version. session_id and campaign_name duplicate fields already present
// on World, but are promoted to top level to match the documented format.
type saveFile struct {
	Version            int                       `json:"version"`
	SessionID          string                    `json:"session_id"`
	CampaignName       string                    `json:"campaign_name"`
	World              *world.GameWorld          `json:"world"`
	StoryMemory        *memory.Store             `json:"story_memory"`
	ConversationMemory *agent.ConversationMemory `json:"conversation_memory"`
}

func (s *Session) marshal() ([]byte, error) {
	data, err := json.MarshalIndent(saveFile{
		Version:            currentSaveVersion,
		SessionID:          s.SessionID(),
		CampaignName:       s.world.CampaignName,
		World:              s.world,
		StoryMemory:        s.agent.StoryMemory(),
		ConversationMemory: s.agent.Memory(),
	}, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal session")
	}
	return data, nil
}

func fromSaveFile(data []byte, cfg Config) (*Session, error) {
	var sf saveFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, errors.Wrap(err, "unmarshal session file")
	}
	if sf.Version != currentSaveVersion {
		return nil, errors.InvalidArgumentf("session file has unsupported version %d", sf.Version)
	}

	a := agent.New(cfg.Client, cfg.Roller, cfg.Agent)
	a.Restore(sf.StoryMemory, sf.ConversationMemory)

	return &Session{
		world: sf.World,
		agent: a,
	}, nil
}

// Save writes the session to path as JSON, overwriting any existing file.
// Exclusive-write (no concurrent writer to the same path) is the caller's
// responsibility, same as spec.md's save-file policy describes.
func (s *Session) Save(path string) error {
	data, err := s.marshal()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "write session file")
	}
	return nil
}

// Load reads a session previously written by Save. cfg supplies the LLM
// client and dice roller, which are never persisted.
func Load(path string, cfg Config) (*Session, error) {
	if cfg.Client == nil || cfg.Roller == nil {
		return nil, errors.InvalidArgumentf("session load: Client and Roller are required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read session file")
	}

	return fromSaveFile(data, cfg)
}

// SaveToRepository writes the session to a Redis-backed repository instead
// of a local file, for a server deployment where sessions live behind a
// shared store (SPEC_FULL.md §11's Redis repository alternative).
func (s *Session) SaveToRepository(ctx context.Context, repo sessionrepo.Repository) error {
	data, err := s.marshal()
	if err != nil {
		return err
	}
	return repo.Save(ctx, s.SessionID(), s.PlayerName(), sessionrepo.Document(data))
}

// LoadFromRepository is Load, reading from a Redis-backed repository by
// session ID instead of a file path.
func LoadFromRepository(ctx context.Context, repo sessionrepo.Repository, sessionID string, cfg Config) (*Session, error) {
	if cfg.Client == nil || cfg.Roller == nil {
		return nil, errors.InvalidArgumentf("session load: Client and Roller are required")
	}

	doc, err := repo.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return fromSaveFile(doc, cfg)
}
