package core

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry   = make(map[string]TableDefinition)
	registryMu sync.RWMutex
)

// Register adds a table definition to the registry.
// Panics if a table with the same name is already registered.
func Register(def TableDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	name := def.Name()
	if name == "" {
		panic("table definition without a name")
	}
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("table already registered: %s", name))
	}

	registry[name] = def
}

// Get returns a table definition by name.
// Returns false if not found.
func Get(name string) (TableDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[name]
	return def, ok
}

// All returns all registered table definitions in creation order.
func All() []TableDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]TableDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Order != result[j].Order {
			return result[i].Order < result[j].Order
		}
		return result[i].Name() < result[j].Name()
	})

	return result
}

// ImportableNames returns the names of tables that accept imports,
// sorted alphabetically.
func ImportableNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	var names []string
	for name, def := range registry {
		if def.Importable() {
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return names
}

// TableCount returns the number of registered tables.
func TableCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}
