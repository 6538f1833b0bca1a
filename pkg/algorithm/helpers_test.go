package algorithm

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bft-labs/mantle/pkg/artifact"
)

// stubHooks is a configurable Hooks implementation. Every hook call is
// appended to trail when it is set.
type stubHooks struct {
	name     string
	version  int
	category string

	setUp    func(a *Algorithm) error
	run      func(ctx context.Context, a *Algorithm) error
	tearDown func(a *Algorithm) error

	setUpCalls    int
	runCalls      int
	tearDownCalls int
	trail         *[]string
}

func (h *stubHooks) Name() string     { return h.name }
func (h *stubHooks) Version() int     { return h.version }
func (h *stubHooks) Category() string { return h.category }

func (h *stubHooks) record(phase string) {
	if h.trail != nil {
		*h.trail = append(*h.trail, h.name+":"+phase)
	}
}

func (h *stubHooks) SetUp(a *Algorithm) error {
	h.setUpCalls++
	h.record("setup")
	if h.setUp != nil {
		return h.setUp(a)
	}
	return nil
}

func (h *stubHooks) Run(ctx context.Context, a *Algorithm) error {
	h.runCalls++
	h.record("run")
	if h.run != nil {
		return h.run(ctx, a)
	}
	return nil
}

func (h *stubHooks) TearDown(a *Algorithm) error {
	h.tearDownCalls++
	h.record("teardown")
	if h.tearDown != nil {
		return h.tearDown(a)
	}
	return nil
}

// stubFactory creates algorithms from registered constructors.
type stubFactory struct {
	ctors   map[string]func() Hooks
	created []*Algorithm
}

func newStubFactory() *stubFactory {
	return &stubFactory{ctors: make(map[string]func() Hooks)}
}

func (f *stubFactory) add(name string, ctor func() Hooks) {
	f.ctors[name] = ctor
}

func (f *stubFactory) Create(name string, version int) (*Algorithm, error) {
	ctor, ok := f.ctors[name]
	if !ok {
		return nil, fmt.Errorf("algorithm %q is not registered", name)
	}
	a := New(ctor(), WithFactory(f))
	f.created = append(f.created, a)
	return a, nil
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []StateChangeEvent
}

func (e *recordingEmitter) OnStateChange(event StateChangeEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

func (e *recordingEmitter) transitions(name string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []string
	for _, ev := range e.events {
		if ev.Algorithm == name {
			out = append(out, ev.Previous.String()+"->"+ev.Current.String())
		}
	}
	return out
}

type recordingObserver struct {
	events []ExecutionEvent
}

func (o *recordingObserver) OnExecute(event ExecutionEvent) {
	o.events = append(o.events, event)
}

func (o *recordingObserver) outcomes() []Outcome {
	out := make([]Outcome, 0, len(o.events))
	for _, ev := range o.events {
		out = append(out, ev.Outcome)
	}
	return out
}

// failingStore accepts reads from an embedded memory store and fails every
// write.
type failingStore struct {
	*artifact.MemoryStore
}

var errStoreDown = errors.New("store is down")

func (s failingStore) AddOrReplace(context.Context, string, *artifact.Workspace) error {
	return errStoreDown
}

func (s failingStore) Add(context.Context, string, *artifact.Workspace) error {
	return errStoreDown
}
