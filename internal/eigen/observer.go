// Package eigen provides implementations of eigenvalue iteration algorithms.
// This file contains the Observer pattern implementation for estimate
// streaming.
package eigen

import (
	"sync"
)

// IterationObserver defines the interface for observing estimate events.
// Implementations receive a notification for every eigenvalue estimate an
// iteration records, enabling decoupled handling of convergence diagnostics
// for UI, logging and metrics.
type IterationObserver interface {
	// Update is called when an iteration records a new estimate.
	//
	// Parameters:
	//   - iterIndex: The iterator instance identifier (for concurrent runs).
	//   - iteration: The 1-based iteration index.
	//   - estimate: The eigenvalue estimate recorded at that iteration.
	Update(iterIndex int, iteration int, estimate float64)
}

// IterationSubject manages observer registration and notification for
// estimate events. It implements the Subject part of the Observer pattern,
// allowing multiple observers to be notified of estimates without tight
// coupling between the iterator and its consumers.
//
// IterationSubject is safe for concurrent use.
type IterationSubject struct {
	observers []IterationObserver
	mu        sync.RWMutex
}

// NewIterationSubject creates a new subject for managing estimate observers.
//
// Returns:
//   - *IterationSubject: A new, empty subject ready to accept observers.
func NewIterationSubject() *IterationSubject {
	return &IterationSubject{
		observers: make([]IterationObserver, 0),
	}
}

// Register adds an observer to receive estimate updates.
// Observers are notified in the order they are registered.
//
// Parameters:
//   - observer: The observer to add. If nil, this call is a no-op.
func (s *IterationSubject) Register(observer IterationObserver) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

// Unregister removes a previously registered observer. Observers not found
// are ignored.
//
// Parameters:
//   - observer: The observer to remove.
func (s *IterationSubject) Unregister(observer IterationObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.observers {
		if o == observer {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// Notify delivers an estimate to every registered observer.
//
// Parameters:
//   - iterIndex: The iterator instance identifier.
//   - iteration: The 1-based iteration index.
//   - estimate: The recorded eigenvalue estimate.
func (s *IterationSubject) Notify(iterIndex int, iteration int, estimate float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.observers {
		o.Update(iterIndex, iteration, estimate)
	}
}

// Count returns the number of registered observers.
func (s *IterationSubject) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}
