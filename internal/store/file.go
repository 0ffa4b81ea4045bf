package store

import (
	"context"
	"fmt"
	"os"

	"github.com/pageza/mealprepai/backend/internal/model"
)

// FileSource serves the bundled JSON dataset from disk.
type FileSource struct {
	path string
}

// NewFileSource creates a source reading from the given dataset path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load reads and normalizes the dataset file.
func (s *FileSource) Load(_ context.Context) ([]model.Recipe, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe dataset: %w", err)
	}
	return DecodeRecipes(data)
}
