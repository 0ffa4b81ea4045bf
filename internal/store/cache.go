package store

import (
	"sync"

	"github.com/pageza/mealprepai/backend/internal/model"
)

// SuggestionCache holds the most recent generated suggestion batch so that
// follow-up detail requests can resolve an id without another generation
// call. Ids increase monotonically for the life of the process and are never
// reused, even across resets; an id issued before a Reset can therefore
// never resolve to a different recipe afterwards.
type SuggestionCache struct {
	mu      sync.RWMutex
	entries map[int]model.Recipe
	nextID  int
}

// NewSuggestionCache returns an empty cache. The first Put issues id 1.
func NewSuggestionCache() *SuggestionCache {
	return &SuggestionCache{entries: make(map[int]model.Recipe)}
}

// Reset drops every cached recipe. The id counter keeps its value, so ids
// from the dropped batch stay invalid forever.
func (c *SuggestionCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[int]model.Recipe)
}

// Put stores a recipe under the next sequential id and returns that id. The
// stored copy carries the assigned id regardless of what the input had.
func (c *SuggestionCache) Put(recipe model.Recipe) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	recipe.ID = c.nextID
	c.entries[recipe.ID] = recipe
	return recipe.ID
}

// Get looks up a recipe by id. Unknown ids and ids issued before the last
// Reset both miss.
func (c *SuggestionCache) Get(id int) (model.Recipe, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	recipe, ok := c.entries[id]
	return recipe, ok
}

// Len reports the size of the current batch.
func (c *SuggestionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
