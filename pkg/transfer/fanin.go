package transfer

import (
	"context"
	"slices"
	"sync"

	"github.com/devaccess/devaccess-go/pkg/version"
)

// Entry is one notification delivered by a FanIn: the element that became
// ready and the version of the value it received.
type Entry struct {
	Source  ID
	Version version.Number
}

// FanIn combines the read queues of several push-type elements into one
// queue of notifications.
//
// Values queued on an element before it was attached form the backlog. Seal
// orders the backlog by version, oldest first; backlog entries of one element
// keep their order. Everything pushed after attaching is delivered in arrival
// order after the backlog.
type FanIn struct {
	mu         sync.Mutex
	seed       []Entry
	live       []Entry
	sealed     bool
	interrupts int
	attached   []Notifier

	signal chan struct{}
}

// NewFanIn returns an empty FanIn.
func NewFanIn() *FanIn {
	return &FanIn{signal: make(chan struct{}, 1)}
}

// Attach routes the notifications of n to f, reporting them as coming from id.
func (f *FanIn) Attach(id ID, n Notifier) error {
	f.mu.Lock()
	sealed := f.sealed
	f.mu.Unlock()
	if sealed {
		return ConfigError("fan-in already sealed")
	}
	if err := n.attach(f, id); err != nil {
		return err
	}
	f.mu.Lock()
	f.attached = append(f.attached, n)
	f.mu.Unlock()
	return nil
}

// Seal orders the backlog and rejects further Attach calls.
func (f *FanIn) Seal() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.sealed {
		return
	}
	f.sealed = true
	slices.SortStableFunc(f.seed, func(a, b Entry) int {
		return a.Version.Compare(b.Version)
	})
}

// Detach disconnects every attached queue. Pending notifications are dropped.
func (f *FanIn) Detach() {
	f.mu.Lock()
	attached := f.attached
	f.attached = nil
	f.mu.Unlock()

	for _, n := range attached {
		n.detach(f)
	}

	f.mu.Lock()
	f.seed = nil
	f.live = nil
	f.mu.Unlock()
}

// Pop returns the next notification, blocking until there is one, ctx is done
// or Interrupt is called.
func (f *FanIn) Pop(ctx context.Context) (Entry, error) {
	for {
		e, ok, err := f.TryPop()
		if err != nil || ok {
			return e, err
		}
		select {
		case <-f.signal:
		case <-ctx.Done():
			return Entry{}, ctx.Err()
		}
	}
}

// TryPop returns the next notification if there is one. A pending interrupt
// is reported as ErrInterrupted.
func (f *FanIn) TryPop() (Entry, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.interrupts > 0 {
		f.interrupts--
		return Entry{}, false, ErrInterrupted
	}
	if len(f.seed) > 0 {
		e := f.seed[0]
		f.seed = f.seed[1:]
		return e, true, nil
	}
	if len(f.live) > 0 {
		e := f.live[0]
		f.live = f.live[1:]
		return e, true, nil
	}
	return Entry{}, false, nil
}

// Interrupt makes one pending or future Pop return ErrInterrupted.
func (f *FanIn) Interrupt() {
	f.mu.Lock()
	f.interrupts++
	f.mu.Unlock()
	f.wake()
}

// Len returns the number of pending notifications.
func (f *FanIn) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.seed) + len(f.live)
}

// seedEntries is called by a queue under its own lock while attaching.
func (f *FanIn) seedEntries(backlog []Entry) {
	if len(backlog) == 0 {
		return
	}
	f.mu.Lock()
	f.seed = append(f.seed, backlog...)
	f.mu.Unlock()
	f.wake()
}

// push is called by a queue under its own lock for every new value.
func (f *FanIn) push(e Entry) {
	f.mu.Lock()
	f.live = append(f.live, e)
	f.mu.Unlock()
	f.wake()
}

// replaceLast is called by a queue under its own lock when it overwrites its
// newest value. The newest pending notification of id takes version v.
func (f *FanIn) replaceLast(id ID, v version.Number) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := len(f.live) - 1; i >= 0; i-- {
		if f.live[i].Source == id {
			f.live[i].Version = v
			return
		}
	}
	for i := len(f.seed) - 1; i >= 0; i-- {
		if f.seed[i].Source == id {
			f.seed[i].Version = v
			return
		}
	}
}

func (f *FanIn) wake() {
	select {
	case f.signal <- struct{}{}:
	default:
	}
}
