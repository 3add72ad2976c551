package session

import (
	"context"

	redislib "github.com/redis/go-redis/v9"

	"github.com/dndai/dmcore/internal/errors"
	redisclient "github.com/dndai/dmcore/internal/redis"
)

const (
	sessionKeyPrefix      = "session:"
	playerIndexKeyPrefix  = "session:player:"
	errSessionIDEmptyMsg  = "session ID cannot be empty"
	errPlayerNameEmptyMsg = "player name cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
}

// Config configures a Redis-backed Repository.
type Config struct {
	Client redisclient.Client
}

// Validate checks that every required dependency is set.
func (cfg *Config) Validate() error {
	if cfg == nil || cfg.Client == nil {
		return errors.InvalidArgument("client is required")
	}
	return nil
}

// NewRedis creates a Redis-backed Repository.
func NewRedis(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &redisRepository{client: cfg.Client}, nil
}

func (r *redisRepository) Save(ctx context.Context, sessionID, playerName string, doc Document) error {
	if sessionID == "" {
		return errors.InvalidArgument(errSessionIDEmptyMsg)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+sessionID, []byte(doc), 0)
	if playerName != "" {
		pipe.SAdd(ctx, playerIndexKeyPrefix+playerName, sessionID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrapf(err, "failed to save session %s", sessionID)
	}
	return nil
}

func (r *redisRepository) Load(ctx context.Context, sessionID string) (Document, error) {
	if sessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmptyMsg)
	}

	result, err := r.client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err != nil {
		if err == redislib.Nil {
			return nil, errors.NotFoundf("session %s not found", sessionID)
		}
		return nil, errors.Wrapf(err, "failed to load session %s", sessionID)
	}
	return Document(result), nil
}

func (r *redisRepository) Delete(ctx context.Context, sessionID, playerName string) error {
	if sessionID == "" {
		return errors.InvalidArgument(errSessionIDEmptyMsg)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionKeyPrefix+sessionID)
	if playerName != "" {
		pipe.SRem(ctx, playerIndexKeyPrefix+playerName, sessionID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrapf(err, "failed to delete session %s", sessionID)
	}
	return nil
}

func (r *redisRepository) ListByPlayer(ctx context.Context, playerName string) ([]string, error) {
	if playerName == "" {
		return nil, errors.InvalidArgument(errPlayerNameEmptyMsg)
	}

	ids, err := r.client.SMembers(ctx, playerIndexKeyPrefix+playerName).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list sessions for player %s", playerName)
	}
	return ids, nil
}
