package drivers

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

type Factory func() Driver

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register adds a driver factory under a provider name. Called from
// driver package init; duplicate or empty registrations are programmer
// errors.
func Register(name string, f Factory) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if n == "" {
		panic("drivers: empty name in Register")
	}
	if f == nil {
		panic("drivers: nil factory in Register for " + n)
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[n]; exists {
		panic("drivers: duplicate registration for " + n)
	}
	registry[n] = f
}

// ByName returns a new driver for a provider name.
func ByName(name string) (Driver, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	registryMu.RLock()
	f, ok := registry[n]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown provider %q (available: %v)", name, AvailableNames())
	}
	return f(), nil
}

// AvailableNames lists registered provider names, sorted.
func AvailableNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
