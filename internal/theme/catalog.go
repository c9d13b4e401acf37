// internal/theme/catalog.go
//
// Process-wide cache of the loaded themes, with stats for /debug/themes.

package theme

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Catalog holds the themes fetched at startup.
//
// A successful load is kept for the life of the process. A failed load is
// remembered but not cached: the next Themes call tries the source again,
// which is what lets a player retry after a network or parse error.
type Catalog struct {
	src     Source
	timeout time.Duration

	mu     sync.Mutex
	themes []Theme
	loaded bool
	err    error
}

// NewCatalog builds a catalog over src. Nothing is fetched until Load or Themes.
func NewCatalog(src Source, timeout time.Duration) *Catalog {
	return &Catalog{src: src, timeout: timeout}
}

// Load fetches themes now and reports the outcome.
func (c *Catalog) Load(ctx context.Context) error {
	_, err := c.Themes(ctx)
	return err
}

// Themes returns the loaded themes, loading (or retrying) when needed.
func (c *Catalog) Themes(ctx context.Context) ([]Theme, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.themes, nil
	}
	themes, err := Load(ctx, c.src, c.timeout)
	if err != nil {
		c.err = err
		log.Warn().Err(err).Str("source", c.src.String()).Msg("theme load failed")
		return nil, err
	}
	c.themes, c.loaded, c.err = themes, true, nil
	return themes, nil
}

// LastError returns the most recent load failure, if any.
func (c *Catalog) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Stats reports (themes, words) for diagnostics.
func (c *Catalog) Stats() (themeCount int, wordCount int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.themes {
		wordCount += len(t.Words)
	}
	return len(c.themes), wordCount
}
