package serial

import (
	"sync"

	"github.com/kasuga-db/kasuga/internal/errors"
)

// The registry maps a stable class id to a constructor returning a
// defaulted instance, which then restores itself from the archive.
var (
	registryMu sync.RWMutex
	registry   = map[int32]func() Externalizable{}
)

// Register installs a constructor for id. Registering the same id twice
// panics; ids are assigned centrally and never reused.
func Register(id int32, ctor func() Externalizable) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[id]; dup {
		panic("serial: duplicate class id registration")
	}
	registry[id] = ctor
}

// Instance constructs a defaulted object for id.
func Instance(id int32) (Externalizable, error) {
	registryMu.RLock()
	ctor, ok := registry[id]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.Newf(errors.Unexpected, "unknown class id %d", id)
	}
	return ctor(), nil
}
