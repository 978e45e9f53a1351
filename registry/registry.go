// Package registry gives callers named, at-most-once-constructed Router and
// EventBus instances so unrelated parts of a program can share one by name
// instead of threading a pointer through every layer. A Registry is a plain
// value type for callers that want an explicit instance (most useful in
// tests, where a fresh Registry avoids cross-test leakage); Default is the
// process-wide convenience registry most production code reaches for.
package registry

import (
	"sync"

	"github.com/v4ll3l1/Nimbus/eventbus"
	"github.com/v4ll3l1/Nimbus/router"
)

const defaultName = "default"

// Registry holds at most one Router and one EventBus per name. The zero
// value is ready to use.
type Registry struct {
	mu         sync.Mutex
	routers    map[string]*router.Router
	eventBuses map[string]*eventbus.Bus
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		routers:    make(map[string]*router.Router),
		eventBuses: make(map[string]*eventbus.Bus),
	}
}

// SetupRouter constructs and registers a Router under name, replacing any
// previous instance registered under the same name. Options are applied the
// same way router.New applies them.
func (reg *Registry) SetupRouter(name string, opts ...router.Option) *router.Router {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.routers == nil {
		reg.routers = make(map[string]*router.Router)
	}
	r := router.New(name, opts...)
	reg.routers[name] = r
	return r
}

// GetRouter returns the Router registered under name, constructing one with
// no options and registering it the first time name is requested so callers
// never need an explicit Setup call for the common case.
func (reg *Registry) GetRouter(name string) *router.Router {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.routers == nil {
		reg.routers = make(map[string]*router.Router)
	}
	if r, ok := reg.routers[name]; ok {
		return r
	}
	r := router.New(name)
	reg.routers[name] = r
	return r
}

// SetupEventBus constructs and registers an EventBus under name, replacing
// any previous instance registered under the same name.
func (reg *Registry) SetupEventBus(name string, opts ...eventbus.Option) *eventbus.Bus {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.eventBuses == nil {
		reg.eventBuses = make(map[string]*eventbus.Bus)
	}
	b := eventbus.New(name, opts...)
	reg.eventBuses[name] = b
	return b
}

// GetEventBus returns the EventBus registered under name, constructing one
// with no options the first time name is requested.
func (reg *Registry) GetEventBus(name string) *eventbus.Bus {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.eventBuses == nil {
		reg.eventBuses = make(map[string]*eventbus.Bus)
	}
	if b, ok := reg.eventBuses[name]; ok {
		return b
	}
	b := eventbus.New(name)
	reg.eventBuses[name] = b
	return b
}

var def = NewRegistry()

// Default returns the process-wide Registry most callers share.
func Default() *Registry { return def }

// SetupRouter constructs a Router under name in the default Registry.
func SetupRouter(name string, opts ...router.Option) *router.Router {
	return def.SetupRouter(name, opts...)
}

// GetRouter returns the named Router from the default Registry, defaulting
// name to "default" when empty.
func GetRouter(name string) *router.Router {
	if name == "" {
		name = defaultName
	}
	return def.GetRouter(name)
}

// SetupEventBus constructs an EventBus under name in the default Registry.
func SetupEventBus(name string, opts ...eventbus.Option) *eventbus.Bus {
	return def.SetupEventBus(name, opts...)
}

// GetEventBus returns the named EventBus from the default Registry,
// defaulting name to "default" when empty.
func GetEventBus(name string) *eventbus.Bus {
	if name == "" {
		name = defaultName
	}
	return def.GetEventBus(name)
}
