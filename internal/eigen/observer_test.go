package eigen

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

type recordingObserver struct {
	mu      sync.Mutex
	updates []EstimateUpdate
}

func (r *recordingObserver) Update(iterIndex int, iteration int, estimate float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, EstimateUpdate{IteratorIndex: iterIndex, Iteration: iteration, Estimate: estimate})
}

func TestIterationSubjectNotify(t *testing.T) {
	t.Parallel()
	s := NewIterationSubject()
	a := &recordingObserver{}
	b := &recordingObserver{}
	s.Register(a)
	s.Register(b)

	s.Notify(0, 1, 2.5)
	s.Notify(0, 2, 2.25)

	for _, obs := range []*recordingObserver{a, b} {
		if len(obs.updates) != 2 {
			t.Fatalf("observer saw %d updates, want 2", len(obs.updates))
		}
		if obs.updates[1].Estimate != 2.25 {
			t.Errorf("second update estimate = %v, want 2.25", obs.updates[1].Estimate)
		}
	}
}

func TestIterationSubjectUnregister(t *testing.T) {
	t.Parallel()
	s := NewIterationSubject()
	a := &recordingObserver{}
	b := &recordingObserver{}
	s.Register(a)
	s.Register(b)
	s.Unregister(a)

	if s.Count() != 1 {
		t.Fatalf("Count = %d after unregister, want 1", s.Count())
	}
	s.Notify(0, 1, 3.0)
	if len(a.updates) != 0 {
		t.Errorf("unregistered observer received %d updates, want 0", len(a.updates))
	}
	if len(b.updates) != 1 {
		t.Errorf("remaining observer received %d updates, want 1", len(b.updates))
	}
}

func TestChannelObserverNonBlocking(t *testing.T) {
	t.Parallel()
	ch := make(chan EstimateUpdate, 1)
	o := NewChannelObserver(ch)

	o.Update(3, 1, 1.5)
	// The buffer is full now; further updates must be dropped, never block.
	o.Update(3, 2, 1.25)

	got := <-ch
	if got.IteratorIndex != 3 || got.Iteration != 1 || got.Estimate != 1.5 {
		t.Errorf("received %+v, want the first update", got)
	}
	select {
	case extra := <-ch:
		t.Errorf("unexpected buffered update %+v", extra)
	default:
	}
}

func TestLoggingObserverThrottles(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	o := NewLoggingObserver(logger, 10)

	for k := 1; k <= 25; k++ {
		o.Update(0, k, 1.0/float64(k))
	}

	lines := strings.Count(buf.String(), "\n")
	// The first iteration always logs, then iterations 11 and 21.
	if lines != 3 {
		t.Errorf("logged %d lines for 25 iterations with every=10, want 3", lines)
	}
	if !strings.Contains(buf.String(), "estimate") {
		t.Error("log output missing the estimate field")
	}
}

func TestIterationSubjectConcurrentNotify(t *testing.T) {
	t.Parallel()
	s := NewIterationSubject()
	obs := &recordingObserver{}
	s.Register(obs)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for k := 1; k <= 50; k++ {
				s.Notify(g, k, float64(k))
			}
		}(g)
	}
	wg.Wait()

	if len(obs.updates) != 200 {
		t.Errorf("observer saw %d updates, want 200", len(obs.updates))
	}
}
