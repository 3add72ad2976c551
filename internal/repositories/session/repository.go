// Package session provides a Redis-backed alternative to
// internal/orchestrators/session's file-path Save/Load contract, for a
// server deployment where sessions live behind a shared Redis instance
// instead of a local filesystem.
package session

import "context"

//go:generate mockgen -destination=mock/mock_repository.go -package=sessionmock github.com/dndai/dmcore/internal/repositories/session Repository

// Document is the same JSON document internal/orchestrators/session.Save
// writes to a file, persisted here as a Redis value instead.
type Document []byte

// Repository persists session documents and indexes them by player name,
// mirroring internal/repositories/character's key-prefix/index-set pattern.
type Repository interface {
	// Save stores doc under sessionID, overwriting any existing document,
	// and indexes it under playerName.
	Save(ctx context.Context, sessionID, playerName string, doc Document) error

	// Load retrieves the document previously stored under sessionID.
	// Returns errors.NotFound if no document exists for that ID.
	Load(ctx context.Context, sessionID string) (Document, error)

	// Delete removes the document and its player index entry.
	Delete(ctx context.Context, sessionID, playerName string) error

	// ListByPlayer returns the session IDs indexed under playerName.
	ListByPlayer(ctx context.Context, playerName string) ([]string, error)
}
