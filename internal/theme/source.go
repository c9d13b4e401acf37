// internal/theme/source.go
//
// Theme sources and loading.
//
// Source selection (FromEnv) mirrors how word lists used to be configured:
//  1. THEMES_URL set  → fetch JSON over HTTP.
//  2. THEMES_FILE set → read JSON from disk.
//  3. neither         → embedded default themes.
//
// Load bounds every fetch with a timeout so a slow source cannot leave the
// game stuck in its loading state.
package theme

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/twistle/assets"
)

// DefaultLoadTimeout bounds a theme fetch when no timeout is configured.
const DefaultLoadTimeout = 10 * time.Second

// maxThemeBytes caps the size of a theme document.
const maxThemeBytes = 4 << 20

// Source fetches raw theme data.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	String() string
}

// Embedded serves the themes compiled into the binary.
type Embedded struct{}

func (Embedded) Fetch(ctx context.Context) ([]byte, error) { return assets.DefaultThemes() }
func (Embedded) String() string                            { return "embedded" }

// File reads themes from a JSON file.
type File struct{ Path string }

func (f File) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(f.Path)
}

func (f File) String() string { return "file:" + f.Path }

// URL fetches themes with a GET request.
type URL struct {
	Address string
	Client  *http.Client
}

func (u URL) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.Address, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	client := u.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", u.Address, res.StatusCode)
	}
	return io.ReadAll(io.LimitReader(res.Body, maxThemeBytes))
}

func (u URL) String() string { return "url:" + u.Address }

// FromEnv picks a source from THEMES_URL / THEMES_FILE, falling back to the
// embedded defaults.
func FromEnv() Source {
	if v := os.Getenv("THEMES_URL"); v != "" {
		return URL{Address: v}
	}
	if v := os.Getenv("THEMES_FILE"); v != "" {
		return File{Path: v}
	}
	return Embedded{}
}

// Load fetches and parses themes from src within timeout.
// Fetch failures (including the timeout) are wrapped with ErrLoad;
// bad documents with ErrMalformed.
func Load(ctx context.Context, src Source, timeout time.Duration) ([]Theme, error) {
	if timeout <= 0 {
		timeout = DefaultLoadTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		data []byte
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		b, err := src.Fetch(ctx)
		ch <- result{b, err}
	}()

	var data []byte
	select {
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoad, src, r.err)
		}
		data = r.data
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s: %v", ErrLoad, src, ctx.Err())
	}

	themes, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	log.Debug().Str("source", src.String()).Int("themes", len(themes)).Msg("themes loaded")
	return themes, nil
}
