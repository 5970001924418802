// SPDX-License-Identifier: EPL-2.0

package device

import (
	"slices"
	"sync"

	"github.com/pkg/errors"
)

var factories = struct {
	mu sync.RWMutex
	m  map[string]Factory
}{m: map[string]Factory{}}

func init() {
	Register("null", func(Config) Opener { return NullOpener })
}

// Register makes a backend available by name. Backend packages call it from
// init. Registering the same name twice panics.
func Register(name string, f Factory) {
	factories.mu.Lock()
	defer factories.mu.Unlock()

	if _, ok := factories.m[name]; ok {
		panic("device: Register called twice for backend " + name)
	}
	factories.m[name] = f
}

func Lookup(name string) (Factory, error) {
	factories.mu.RLock()
	defer factories.mu.RUnlock()

	f, ok := factories.m[name]
	if !ok {
		return nil, errors.Wrap(ErrUnknownBackend, name)
	}
	return f, nil
}

// Backends lists registered backend names in sorted order.
func Backends() []string {
	factories.mu.RLock()
	defer factories.mu.RUnlock()

	names := make([]string, 0, len(factories.m))
	for name := range factories.m {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}
