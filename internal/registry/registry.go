// Package registry provides a global registry for team logic factories.
// Built-in logics register themselves in init() functions, allowing the
// CLI to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/chicken-war/internal/logic"
)

// ErrUnknownLogic is returned by Create for unregistered names.
var ErrUnknownLogic = errors.New("registry: unknown logic")

// Describer is implemented by logics that provide a one-line description.
type Describer interface {
	Description() string
}

// LogicInfo contains metadata about a registered logic.
type LogicInfo struct {
	Name        string
	Description string
}

// Factory is a function that creates a new logic instance. Every team
// gets its own instance, so logics may keep per-team state.
type Factory func() logic.Logic

var (
	factories    = make(map[string]Factory)
	descriptions = make(map[string]string)
	mu           sync.RWMutex
)

// Register adds a logic factory to the registry.
// Typically called from a logic package's init() function.
// Panics if a logic with the same name is already registered.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("registry: logic %q already registered", name))
	}

	factories[name] = f

	// Get description by creating a temporary instance
	if d, ok := f().(Describer); ok {
		descriptions[name] = d.Description()
	}
}

// List returns information about all registered logics, sorted by name.
func List() []LogicInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]LogicInfo, 0, len(factories))
	for name := range factories {
		result = append(result, LogicInfo{
			Name:        name,
			Description: descriptions[name],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Create instantiates a new logic by name.
func Create(name string) (logic.Logic, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownLogic, name)
	}

	return f(), nil
}

// Exists checks if a logic with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[name]
	return ok
}
