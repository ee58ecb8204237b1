// ABOUTME: Decision trace lookup behind a Loader interface
// ABOUTME: Directory-backed, in-memory and caching implementations

package decision

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/nainya/journeylens/pkg/journey"
)

// Loader resolves a decision identifier to its trace. Implementations return
// errors wrapping journey.ErrNotFound or journey.ErrLoad.
type Loader interface {
	Load(ctx context.Context, id string) (*journey.DecisionTrace, error)
}

// LoaderFunc adapts a function to Loader
type LoaderFunc func(ctx context.Context, id string) (*journey.DecisionTrace, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, id string) (*journey.DecisionTrace, error) {
	return f(ctx, id)
}

var validID = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// DirStore reads one JSON document per decision from a directory
type DirStore struct {
	dir string
}

// NewDirStore creates a store over dir.
func NewDirStore(dir string) *DirStore {
	return &DirStore{dir: dir}
}

// Load reads <dir>/<id>.json. The file must hold the trace named id.
func (s *DirStore) Load(ctx context.Context, id string) (*journey.DecisionTrace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validID.MatchString(id) || strings.Contains(id, "..") {
		return nil, fmt.Errorf("%w: decision %q", journey.ErrNotFound, id)
	}

	f, err := os.Open(filepath.Join(s.dir, id+".json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: decision %q", journey.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: decision %q: %v", journey.ErrLoad, id, err)
	}
	defer f.Close()

	trace, err := journey.DecodeDecisionTrace(f)
	if err != nil {
		return nil, fmt.Errorf("decision %q: %w", id, err)
	}
	if trace.DecisionID != id {
		return nil, fmt.Errorf("%w: decision %q: file holds %q", journey.ErrLoad, id, trace.DecisionID)
	}
	return trace, nil
}

// MapStore serves traces from memory
type MapStore map[string]journey.DecisionTrace

// Load returns a copy of the stored trace.
func (m MapStore) Load(ctx context.Context, id string) (*journey.DecisionTrace, error) {
	trace, ok := m[id]
	if !ok {
		return nil, fmt.Errorf("%w: decision %q", journey.ErrNotFound, id)
	}
	trace.Rationale = append([]string(nil), trace.Rationale...)
	return &trace, nil
}

// CachedLoader remembers successful loads of the wrapped Loader. Failures are
// not cached so a fixed data file is picked up on the next request.
type CachedLoader struct {
	next Loader

	mu     sync.RWMutex
	traces map[string]*journey.DecisionTrace
}

// NewCachedLoader wraps next.
func NewCachedLoader(next Loader) *CachedLoader {
	return &CachedLoader{next: next, traces: make(map[string]*journey.DecisionTrace)}
}

// Load returns the cached trace or loads it.
func (c *CachedLoader) Load(ctx context.Context, id string) (*journey.DecisionTrace, error) {
	c.mu.RLock()
	trace, ok := c.traces[id]
	c.mu.RUnlock()
	if ok {
		return trace, nil
	}

	trace, err := c.next.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.traces[id] = trace
	c.mu.Unlock()
	return trace, nil
}

// Resolve extracts the decision tag from text and loads its trace.
func Resolve(ctx context.Context, loader Loader, text string) (*journey.DecisionTrace, error) {
	id, ok := ExtractID(text)
	if !ok {
		return nil, fmt.Errorf("%w: no decision tag in message", journey.ErrNotFound)
	}
	return loader.Load(ctx, id)
}
