// Package store provides the recipe dataset sources and the in-memory
// cache that backs generated suggestion batches.
package store

import (
	"context"

	"github.com/pageza/mealprepai/backend/internal/model"
)

// Recipe source modes, selected via RECIPE_SOURCE.
const (
	ModeFile = "file"
	ModeS3   = "s3"
	ModeDB   = "db"
	ModeAI   = "ai"
)

// Source loads the recipe dataset. Implementations read a fresh snapshot on
// every call; nothing is cached between requests, so dataset edits show up
// without a restart.
type Source interface {
	Load(ctx context.Context) ([]model.Recipe, error)
}
