package group

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/devaccess/devaccess-go/pkg/trace"
	"github.com/devaccess/devaccess-go/pkg/transfer"
	"github.com/devaccess/devaccess-go/pkg/version"
)

// Group errors.
var (
	ErrAlreadyGrouped = fmt.Errorf("%w: element already belongs to a transfer group", transfer.ErrConfiguration)
	ErrReadOnly       = fmt.Errorf("%w: transfer group is read-only", transfer.ErrConfiguration)
	ErrPlaceholder    = fmt.Errorf("%w: accessor is not initialised", transfer.ErrConfiguration)
)

// Option configures a Group.
type Option func(*Group)

// WithLogger sets the logger for structural debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Group) { g.logger = logger }
}

// WithTrace sets the trace logger receiving one event per transfer.
func WithTrace(logger trace.Logger) Option {
	return func(g *Group) { g.trace = trace.NewRecorder(logger, trace.ComponentGroup) }
}

// Group is a set of accessors transferred together.
type Group struct {
	handles []transfer.Handle

	highLevel      []transfer.Element
	lowLevel       []transfer.Element
	copyDecorators []transfer.Element
	readOnly       bool
	writeOnly      bool

	logger *slog.Logger
	trace  *trace.Recorder
}

// New returns an empty group.
func New(opts ...Option) *Group {
	g := &Group{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Add adds an accessor to the group and merges duplicate elements.
//
// It fails with ErrAlreadyGrouped if the accessor's element belongs to a
// group, and with a protocol violation if a read future is outstanding on it.
func (g *Group) Add(h transfer.Handle) error {
	e := h.TransferElement()
	if e == nil {
		return ErrPlaceholder
	}
	if e.TransferCore().InGroup() {
		err := fmt.Errorf("%w: %q", ErrAlreadyGrouped, e.Name())
		g.record(trace.Event{Category: trace.CategoryConfig, Op: "add", ElementID: uint64(e.ID()), ElementName: e.Name()}, err)
		return err
	}
	if e.TransferCore().HasActiveFuture() {
		return transfer.ProtocolError(e, "add", "a read future is outstanding")
	}

	e.TransferCore().SetInGroup(true)
	g.handles = append(g.handles, h)
	g.debugLog("group: added element", "name", e.Name(), "id", e.ID())
	g.record(trace.Event{Category: trace.CategoryConfig, Op: "add", ElementID: uint64(e.ID()), ElementName: e.Name()}, nil)

	g.merge()
	g.rebuild()
	return nil
}

// merge offers every element known to the group to every member until no
// member changes any more. Each replacement swaps an element for one with a
// smaller ID, so the loop terminates.
func (g *Group) merge() {
	for changed := true; changed; {
		changed = false
		for _, candidate := range g.allElements() {
			for _, h := range g.handles {
				before := h.TransferElement()
				if !h.ReplaceTransferElement(candidate) {
					continue
				}
				changed = true
				g.debugLog("group: merged element",
					"name", candidate.Name(), "into", before.ID(), "survivor", candidate.ID())
				g.record(trace.Event{
					Category:    trace.CategoryConfig,
					Op:          "dedup",
					ElementID:   uint64(candidate.ID()),
					ElementName: candidate.Name(),
				}, nil)
			}
		}
	}
}

// allElements returns the members and all their internal elements, each once.
func (g *Group) allElements() []transfer.Element {
	var out []transfer.Element
	seen := make(map[transfer.ID]bool)
	add := func(e transfer.Element) {
		if e == nil || seen[e.ID()] {
			return
		}
		seen[e.ID()] = true
		out = append(out, e)
	}
	for _, h := range g.handles {
		e := h.TransferElement()
		add(e)
		for _, inner := range e.InternalElements() {
			add(inner)
		}
	}
	return out
}

func (g *Group) rebuild() {
	g.highLevel = g.highLevel[:0]
	g.lowLevel = g.lowLevel[:0]
	g.copyDecorators = g.copyDecorators[:0]
	g.readOnly = false
	g.writeOnly = false

	lowSeen := make(map[transfer.ID]bool)
	cdSeen := make(map[transfer.ID]bool)
	for _, h := range g.handles {
		e := h.TransferElement()
		e.TransferCore().SetInGroup(true)
		g.highLevel = append(g.highLevel, e)
		if e.IsReadOnly() {
			g.readOnly = true
		}
		if !e.IsReadable() {
			g.writeOnly = true
		}

		for _, leaf := range e.HardwareAccessingElements() {
			if !lowSeen[leaf.ID()] {
				lowSeen[leaf.ID()] = true
				g.lowLevel = append(g.lowLevel, leaf)
			}
		}
		for _, inner := range append([]transfer.Element{e}, e.InternalElements()...) {
			if _, ok := inner.(transfer.CopyDecorating); ok && !cdSeen[inner.ID()] {
				cdSeen[inner.ID()] = true
				g.copyDecorators = append(g.copyDecorators, inner)
			}
		}
	}
}

// Read reads all members with one physical transfer per register.
func (g *Group) Read(ctx context.Context) error {
	if g.writeOnly {
		for _, e := range g.highLevel {
			if !e.IsReadable() {
				return transfer.ProtocolError(e, "read", "transfer group has a write-only member")
			}
		}
	}
	start := time.Now()

	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	for _, e := range g.highLevel {
		keep(transfer.PreRead(e, transfer.TypeRead))
	}
	if firstErr == nil {
		for _, e := range g.lowLevel {
			if err := transfer.ReadTransfer(ctx, e); err != nil {
				keep(err)
				break
			}
		}
	}

	hasNewData := firstErr == nil
	for _, e := range g.copyDecorators {
		keep(transfer.PostRead(e, transfer.TypeRead, hasNewData))
	}
	for _, e := range g.highLevel {
		keep(transfer.PostRead(e, transfer.TypeRead, hasNewData))
	}

	g.record(trace.Event{
		Category: trace.CategoryTransfer,
		Op:       "read",
		Elements: len(g.lowLevel),
		Version:  g.newestVersion(),
		Duration: time.Since(start),
	}, firstErr)
	return firstErr
}

// Write writes all members with a new version number and reports whether
// any element lost data.
func (g *Group) Write() (bool, error) {
	return g.WriteWithVersion(version.Next())
}

// WriteWithVersion writes all members tagged with v. A read-only group fails
// with ErrReadOnly before any transfer.
func (g *Group) WriteWithVersion(v version.Number) (bool, error) {
	if g.readOnly {
		g.record(trace.Event{Category: trace.CategoryTransfer, Op: "write"}, ErrReadOnly)
		return false, ErrReadOnly
	}
	if !v.IsValid() {
		return false, fmt.Errorf("%w: write with invalid version number", transfer.ErrProtocolViolation)
	}
	start := time.Now()

	var (
		firstErr error
		dataLost bool
	)
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	for _, e := range g.highLevel {
		keep(transfer.PreWrite(e, transfer.TypeWrite, v))
	}
	if firstErr == nil {
		for _, e := range g.lowLevel {
			lost, err := transfer.WriteTransfer(e, v)
			dataLost = dataLost || lost
			if err != nil {
				keep(err)
				break
			}
		}
	}
	for _, e := range g.highLevel {
		keep(transfer.PostWrite(e, transfer.TypeWrite, v))
	}

	value, _ := v.Value()
	g.record(trace.Event{
		Category: trace.CategoryTransfer,
		Op:       "write",
		Elements: len(g.lowLevel),
		Version:  value,
		DataLost: dataLost,
		Duration: time.Since(start),
	}, firstErr)
	return dataLost, firstErr
}

// IsReadOnly reports whether the group has a read-only member.
func (g *Group) IsReadOnly() bool { return g.readOnly }

// Len returns the number of members.
func (g *Group) Len() int { return len(g.handles) }

// HighLevelElements returns the element of every member.
func (g *Group) HighLevelElements() []transfer.Element {
	return append([]transfer.Element(nil), g.highLevel...)
}

// LowLevelElements returns the distinct hardware-accessing elements.
func (g *Group) LowLevelElements() []transfer.Element {
	return append([]transfer.Element(nil), g.lowLevel...)
}

// CopyDecorators returns the copy decorators in the member chains.
func (g *Group) CopyDecorators() []transfer.Element {
	return append([]transfer.Element(nil), g.copyDecorators...)
}

func (g *Group) newestVersion() uint64 {
	var newest version.Number
	for _, e := range g.highLevel {
		if v := e.VersionNumber(); v.After(newest) || !newest.IsValid() {
			newest = v
		}
	}
	value, _ := newest.Value()
	return value
}

func (g *Group) record(event trace.Event, err error) {
	g.trace.Record(event, err)
}

func (g *Group) debugLog(msg string, args ...any) {
	if g.logger != nil {
		g.logger.Debug(msg, args...)
	}
}
