package eigen

import (
	"fmt"
	"sort"
	"sync"
)

// IteratorFactory is an interface for creating Iterator instances.
// It allows for flexible iterator instantiation and registration, enabling
// dependency injection and easier testing.
type IteratorFactory interface {
	// Create creates a new Iterator instance by name.
	// Returns an error if the iterator type is not registered.
	Create(name string) (Iterator, error)

	// Get returns a cached Iterator instance by name, creating it on first
	// use. Returns an error if the iterator type is not registered.
	Get(name string) (Iterator, error)

	// List returns a sorted list of registered iterator names.
	List() []string

	// Register adds a new iterator type to the factory.
	Register(name string, creator func() coreIterator) error
}

// DefaultFactory is the default implementation of IteratorFactory.
// It maintains a thread-safe registry of iterator creators and caches
// Iterator instances for reuse; the iterators themselves are stateless, so
// sharing an instance across goroutines is safe.
type DefaultFactory struct {
	mu        sync.RWMutex
	creators  map[string]func() coreIterator
	iterators map[string]Iterator
}

// NewDefaultFactory creates a new DefaultFactory with the standard iteration
// algorithms pre-registered.
//
// Pre-registered iterators:
//   - "power": PowerIteration (dominant eigenpair, linear rate |λ₂/λ₁|)
//   - "inverse": InverseIteration (eigenvalue nearest a fixed shift)
//   - "dynamic": DynamicShiftIteration (per-step shift update, quadratic)
//
// Returns:
//   - *DefaultFactory: A new factory with default iterators registered.
func NewDefaultFactory() *DefaultFactory {
	f := &DefaultFactory{
		creators:  make(map[string]func() coreIterator),
		iterators: make(map[string]Iterator),
	}

	_ = f.Register("power", func() coreIterator { return &PowerIteration{} })
	_ = f.Register("inverse", func() coreIterator { return &InverseIteration{} })
	_ = f.Register("dynamic", func() coreIterator { return &DynamicShiftIteration{} })

	return f
}

// Register adds a new iterator type to the factory.
// The creator function is called lazily when the iterator is first requested.
// If an iterator with the same name already exists, it is replaced.
//
// Parameters:
//   - name: The unique identifier for the iterator type.
//   - creator: A function that creates a new coreIterator instance.
func (f *DefaultFactory) Register(name string, creator func() coreIterator) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.creators[name] = creator
	// Drop any cached instance so it is recreated with the new creator.
	delete(f.iterators, name)
	return nil
}

// Create creates a new Iterator instance by name.
// Unlike Get(), this always creates a fresh instance without caching.
//
// Parameters:
//   - name: The name of the iterator type to create.
//
// Returns:
//   - Iterator: A new Iterator instance.
//   - error: An error if the iterator type is not registered.
func (f *DefaultFactory) Create(name string) (Iterator, error) {
	f.mu.RLock()
	creator, ok := f.creators[name]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown iterator: %s", name)
	}
	return NewIterator(creator()), nil
}

// Get returns a cached Iterator instance by name, creating and caching it on
// first use.
//
// Parameters:
//   - name: The name of the iterator type to retrieve.
//
// Returns:
//   - Iterator: The cached Iterator instance.
//   - error: An error if the iterator type is not registered.
func (f *DefaultFactory) Get(name string) (Iterator, error) {
	f.mu.RLock()
	it, ok := f.iterators[name]
	f.mu.RUnlock()
	if ok {
		return it, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if it, ok := f.iterators[name]; ok {
		return it, nil
	}
	creator, ok := f.creators[name]
	if !ok {
		return nil, fmt.Errorf("unknown iterator: %s", name)
	}
	it = NewIterator(creator())
	f.iterators[name] = it
	return it, nil
}

// List returns a sorted list of registered iterator names.
func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.creators))
	for name := range f.creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var (
	globalFactory     *DefaultFactory
	globalFactoryOnce sync.Once
)

// GlobalFactory returns the process-wide iterator factory, creating it on
// first use.
func GlobalFactory() *DefaultFactory {
	globalFactoryOnce.Do(func() {
		globalFactory = NewDefaultFactory()
	})
	return globalFactory
}
