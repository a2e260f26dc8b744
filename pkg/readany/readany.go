package readany

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/devaccess/devaccess-go/pkg/trace"
	"github.com/devaccess/devaccess-go/pkg/transfer"
	"github.com/devaccess/devaccess-go/pkg/version"
)

// ErrAccepted is returned when a notification is accepted twice.
var ErrAccepted = fmt.Errorf("%w: notification already accepted", transfer.ErrProtocolViolation)

// State is the lifecycle state of a Group.
type State uint8

const (
	StateBuilding State = iota
	StateFinalised
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateBuilding:
		return "building"
	case StateFinalised:
		return "finalised"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Option configures a Group.
type Option func(*Group)

// WithLogger sets the logger for structural debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Group) { g.logger = logger }
}

// WithTrace sets the trace logger receiving one event per completed wait.
func WithTrace(logger trace.Logger) Option {
	return func(g *Group) { g.trace = trace.NewRecorder(logger, trace.ComponentReadAny) }
}

type member struct {
	handle transfer.Handle
	elem   transfer.Element
	future *transfer.Future
}

func (m *member) push() bool { return m.elem.AccessMode().IsPush() }

// Group multiplexes waits over push-type accessors.
type Group struct {
	state   State
	members []*member
	byID    map[transfer.ID]*member

	fanIn       *transfer.FanIn
	blockTarget transfer.Element

	logger *slog.Logger
	trace  *trace.Recorder
}

// New returns an empty group in the building state.
func New(opts ...Option) *Group {
	g := &Group{
		byID:  make(map[transfer.ID]*member),
		fanIn: transfer.NewFanIn(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewFinalised adds handles to a new group and finalises it.
func NewFinalised(handles []transfer.Handle, opts ...Option) (*Group, error) {
	g := New(opts...)
	for _, h := range handles {
		if err := g.Add(h); err != nil {
			return nil, err
		}
	}
	if err := g.Finalise(); err != nil {
		return nil, err
	}
	return g, nil
}

// State returns the lifecycle state.
func (g *Group) State() State { return g.state }

// Len returns the number of members.
func (g *Group) Len() int { return len(g.members) }

// IDs returns the member IDs in the order they were added.
func (g *Group) IDs() []transfer.ID {
	out := make([]transfer.ID, 0, len(g.members))
	for _, m := range g.members {
		out = append(out, m.elem.ID())
	}
	return out
}

// Contains reports whether id is a member.
func (g *Group) Contains(id transfer.ID) bool {
	_, ok := g.byID[id]
	return ok
}

// Add adds a readable accessor. It fails after Finalise.
func (g *Group) Add(h transfer.Handle) error {
	if g.state != StateBuilding {
		return transfer.ConfigError("add to a %s read-any group", g.state)
	}
	e := h.TransferElement()
	switch {
	case e == nil:
		return transfer.ConfigError("add placeholder accessor")
	case !e.IsReadable():
		return transfer.ConfigError("add non-readable element %q", e.Name())
	case e.TransferCore().InGroup():
		return transfer.ConfigError("add element %q that belongs to a transfer group", e.Name())
	case g.Contains(e.ID()):
		return transfer.ConfigError("element %q added twice", e.Name())
	}

	m := &member{handle: h, elem: e}
	g.members = append(g.members, m)
	g.byID[e.ID()] = m
	g.debugLog("readany: added element", "name", e.Name(), "id", e.ID(), "push", m.push())
	return nil
}

// Finalise starts a read on every push-type member and combines their
// notifications. It fails without push-type members or when called twice.
func (g *Group) Finalise() error {
	if g.state != StateBuilding {
		return transfer.ConfigError("finalise a %s read-any group", g.state)
	}

	var started []*member
	abort := func(err error) error {
		g.fanIn.Detach()
		for _, m := range started {
			_ = m.future.Cancel()
			m.future = nil
		}
		return err
	}

	for _, m := range g.members {
		if !m.push() {
			continue
		}
		q := m.elem.ReadQueue()
		if q == nil {
			return abort(transfer.ConfigError("push-type element %q has no read queue", m.elem.Name()))
		}
		f, err := transfer.ReadAsync(m.elem)
		if err != nil {
			return abort(err)
		}
		m.future = f
		started = append(started, m)
		if err := g.fanIn.Attach(m.elem.ID(), q); err != nil {
			return abort(err)
		}
		if g.blockTarget == nil {
			g.blockTarget = m.elem
		}
	}
	if len(started) == 0 {
		return transfer.ConfigError("read-any group without push-type elements")
	}

	g.fanIn.Seal()
	g.state = StateFinalised
	g.debugLog("readany: finalised", "members", len(g.members), "push", len(started))
	g.trace.Record(trace.Event{Category: trace.CategoryConfig, Op: "finalise", Elements: len(started)}, nil)
	return nil
}

// Notification is a dequeued update of one push-type member. The member's
// buffer is only updated by Accept.
type Notification struct {
	g        *Group
	m        *member
	version  version.Number
	start    time.Time
	accepted bool
}

// ID returns the ID of the member that received a value.
func (n *Notification) ID() transfer.ID { return n.m.elem.ID() }

// Version returns the version number of the received value. After a
// successful Accept it is the version the member's buffer holds.
func (n *Notification) Version() version.Number { return n.version }

// Handle returns the member's accessor.
func (n *Notification) Handle() transfer.Handle { return n.m.handle }

// Accept completes the pending read of the member, restarts it and
// refreshes the poll-type members. It reports whether the member received
// new data.
func (n *Notification) Accept() (bool, error) {
	if n.accepted {
		return false, ErrAccepted
	}
	n.accepted = true
	g := n.g

	ok, err := n.m.future.HasNewData()
	if n.m.future.Done() {
		f, aerr := transfer.ReadAsync(n.m.elem)
		if aerr == nil {
			n.m.future = f
		} else if err == nil {
			err = aerr
		}
	}
	if ok {
		n.version = n.m.elem.VersionNumber()
	}
	if err == nil {
		err = g.ProcessPolled()
	}

	value, _ := n.version.Value()
	g.trace.Record(trace.Event{
		Category:    trace.CategoryTransfer,
		Op:          "waitAny",
		ElementID:   uint64(n.ID()),
		ElementName: n.m.elem.Name(),
		Version:     value,
		Duration:    time.Since(n.start),
	}, err)
	return ok, err
}

func (g *Group) checkFinalised(op string) error {
	if g.state != StateFinalised {
		return transfer.ConfigError("%s on a %s read-any group", op, g.state)
	}
	return nil
}

// WaitAnyNotification blocks until any push-type member received a value
// and returns the notification without updating the member's buffer.
func (g *Group) WaitAnyNotification(ctx context.Context) (*Notification, error) {
	if err := g.checkFinalised("wait"); err != nil {
		return nil, err
	}
	start := time.Now()
	transfer.NotifyAboutToBlock(g.blockTarget)
	entry, err := g.fanIn.Pop(ctx)
	if err != nil {
		return nil, err
	}
	return g.notification(entry, start), nil
}

// NotificationNonBlocking returns the next pending notification, or nil if
// there is none.
func (g *Group) NotificationNonBlocking() (*Notification, error) {
	if err := g.checkFinalised("wait"); err != nil {
		return nil, err
	}
	entry, ok, err := g.fanIn.TryPop()
	if err != nil || !ok {
		return nil, err
	}
	return g.notification(entry, time.Now()), nil
}

func (g *Group) notification(entry transfer.Entry, start time.Time) *Notification {
	return &Notification{g: g, m: g.byID[entry.Source], version: entry.Version, start: start}
}

// WaitAny blocks until any push-type member received a value, updates its
// buffer and returns its ID. Poll-type members are refreshed with ReadLatest.
func (g *Group) WaitAny(ctx context.Context) (transfer.ID, error) {
	for {
		n, err := g.WaitAnyNotification(ctx)
		if err != nil {
			return 0, err
		}
		ok, err := n.Accept()
		if err != nil {
			return n.ID(), err
		}
		if ok {
			return n.ID(), nil
		}
	}
}

// WaitAnyNonBlocking is WaitAny without blocking. It reports false if no
// member has a pending value.
func (g *Group) WaitAnyNonBlocking() (transfer.ID, bool, error) {
	for {
		n, err := g.NotificationNonBlocking()
		if err != nil || n == nil {
			return 0, false, err
		}
		ok, err := n.Accept()
		if err != nil {
			return n.ID(), false, err
		}
		if ok {
			return n.ID(), true, nil
		}
	}
}

// WaitUntil calls WaitAny until member id received a value. Updates of other
// members are processed on the way.
func (g *Group) WaitUntil(ctx context.Context, id transfer.ID) error {
	m, ok := g.byID[id]
	if !ok {
		return transfer.ConfigError("wait for element %s that is not a member", id)
	}
	if !m.push() {
		return transfer.ConfigError("wait for poll-type element %q", m.elem.Name())
	}
	for {
		got, err := g.WaitAny(ctx)
		if err != nil {
			return err
		}
		if got == id {
			return nil
		}
	}
}

// WaitUntilHandle is WaitUntil for the member bound to h.
func (g *Group) WaitUntilHandle(ctx context.Context, h transfer.Handle) error {
	e := h.TransferElement()
	if e == nil {
		return transfer.ConfigError("wait for placeholder accessor")
	}
	return g.WaitUntil(ctx, e.ID())
}

// ProcessPolled reads the newest value of every poll-type member.
func (g *Group) ProcessPolled() error {
	var errs []error
	for _, m := range g.members {
		if m.push() {
			continue
		}
		if _, err := transfer.ReadLatest(m.elem); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Interrupt makes one pending or future wait return transfer.ErrInterrupted.
// It is safe to call from any goroutine.
func (g *Group) Interrupt() {
	g.fanIn.Interrupt()
}

// Close cancels the pending reads and releases the members, which can be
// used directly afterwards. Values still queued stay on the members.
func (g *Group) Close() error {
	if g.state == StateClosed {
		return nil
	}
	g.fanIn.Detach()
	var errs []error
	for _, m := range g.members {
		if m.future != nil {
			errs = append(errs, m.future.Cancel())
			m.future = nil
		}
	}
	g.state = StateClosed
	return errors.Join(errs...)
}

func (g *Group) debugLog(msg string, args ...any) {
	if g.logger != nil {
		g.logger.Debug(msg, args...)
	}
}
