// Package scene provides a global registry of frame sources.
// Scenes stand in for the engine: each tick they produce one Bitmap that the
// frontends push through the pixel bridge. Scenes register themselves in
// init() functions so the platform can discover them by id.
package scene

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/druid-frontend/internal/render"
)

// Scene is a deterministic source of frames.
type Scene interface {
	// ID returns a unique identifier used on the command line and in storage.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset prepares the scene for frames of the configured size.
	Reset(cfg render.RuntimeConfig)

	// Step advances the scene by one tick.
	Step()

	// Frame returns the bitmap for the current tick.
	// The caller must not keep it past the next Step.
	Frame() *render.Bitmap
}

// Info contains metadata about a registered scene.
type Info struct {
	ID    string
	Title string
}

// Factory creates a new instance of a scene.
type Factory func() Scene

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a scene factory to the registry.
// Panics if a scene with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("scene: %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns all registered scenes sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(factories))
	for id := range factories {
		result = append(result, Info{ID: id, Title: titles[id]})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a scene by its ID.
func Create(id string) (Scene, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("scene: unknown scene %q", id)
	}

	return f(), nil
}

// Exists checks if a scene with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}

// Next returns the id that follows id in List order, wrapping around.
// A negative step walks backwards.
func Next(id string, step int) string {
	list := List()
	if len(list) == 0 {
		return id
	}

	idx := 0
	for i, info := range list {
		if info.ID == id {
			idx = i
			break
		}
	}
	idx = ((idx+step)%len(list) + len(list)) % len(list)
	return list[idx].ID
}
