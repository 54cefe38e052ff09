package menu

import "sync"

var (
	instancesMu sync.Mutex
	instances   = map[string]*Menu{}
)

// Instance returns the process-wide menu registered under key, calling build
// the first time the key is seen.
func Instance(key string, build func() *Menu) *Menu {
	instancesMu.Lock()
	defer instancesMu.Unlock()

	if m, ok := instances[key]; ok {
		return m
	}
	m := build()
	instances[key] = m
	return m
}

// ResetInstances forgets every menu created through Instance
func ResetInstances() {
	instancesMu.Lock()
	defer instancesMu.Unlock()
	instances = map[string]*Menu{}
}
