package consistency

import (
	"log/slog"

	"github.com/devaccess/devaccess-go/pkg/trace"
	"github.com/devaccess/devaccess-go/pkg/transfer"
	"github.com/devaccess/devaccess-go/pkg/version"
)

// MatchingMode selects when an update counts as consistent.
type MatchingMode uint8

const (
	// MatchExact requires every member to hold the same version number.
	MatchExact MatchingMode = iota
	// MatchNone reports every update of a member as consistent.
	MatchNone
)

// String returns the mode name.
func (m MatchingMode) String() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchNone:
		return "none"
	default:
		return "unknown"
	}
}

// Option configures a Group.
type Option func(*Group)

// WithMatchingMode sets the matching mode. The default is MatchExact.
func WithMatchingMode(mode MatchingMode) Option {
	return func(g *Group) { g.mode = mode }
}

// WithLogger sets the logger for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Group) { g.logger = logger }
}

// WithTrace sets the trace logger receiving one event per update.
func WithTrace(logger trace.Logger) Option {
	return func(g *Group) { g.trace = trace.NewRecorder(logger, trace.ComponentConsistency) }
}

// Group tracks the versions of its members.
type Group struct {
	mode    MatchingMode
	members map[transfer.ID]transfer.Handle
	order   []transfer.ID

	target    version.Number
	collected map[transfer.ID]struct{}
	reported  bool
	last      []transfer.ID

	logger *slog.Logger
	trace  *trace.Recorder
}

// New returns an empty group.
func New(opts ...Option) *Group {
	g := &Group{
		members:   make(map[transfer.ID]transfer.Handle),
		collected: make(map[transfer.ID]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Add adds a readable push-type accessor.
func (g *Group) Add(h transfer.Handle) error {
	e := h.TransferElement()
	switch {
	case e == nil:
		return transfer.ConfigError("add placeholder accessor")
	case !e.IsReadable():
		return transfer.ConfigError("add non-readable element %q", e.Name())
	case !e.AccessMode().IsPush():
		return transfer.ConfigError("add poll-type element %q", e.Name())
	}
	if _, ok := g.members[e.ID()]; ok {
		return transfer.ConfigError("element %q added twice", e.Name())
	}
	g.members[e.ID()] = h
	g.order = append(g.order, e.ID())
	g.debugLog("consistency: added element", "name", e.Name(), "id", e.ID())
	return nil
}

// Update processes a new value of member id and reports whether all members
// now hold the same version number. Unknown IDs are ignored.
//
// A member whose version number is not valid has never been read and is
// ignored as well.
func (g *Group) Update(id transfer.ID) bool {
	h, ok := g.members[id]
	if !ok {
		return false
	}
	e := h.TransferElement()
	v := e.VersionNumber()

	if g.mode == MatchNone {
		g.last = []transfer.ID{id}
		g.record(e, v, true)
		return true
	}
	if !v.IsValid() {
		return false
	}

	if !v.Equal(g.target) {
		if len(g.collected) > 0 && !g.reported {
			g.debugLog("consistency: dropped incomplete generation",
				"version", g.target, "collected", len(g.collected), "members", len(g.members))
		}
		g.target = v
		clear(g.collected)
		g.reported = false
	}
	g.collected[id] = struct{}{}

	consistent := false
	if len(g.collected) == len(g.members) && !g.reported {
		g.last = g.inOrder(g.collected)
		g.reported = true
		consistent = true
	}
	g.record(e, v, consistent)
	return consistent
}

func (g *Group) inOrder(set map[transfer.ID]struct{}) []transfer.ID {
	out := make([]transfer.ID, 0, len(set))
	for _, id := range g.order {
		if _, ok := set[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// LastConsistentSet returns the members of the last complete generation in
// the order they were added, or nil before the first one.
func (g *Group) LastConsistentSet() []transfer.ID {
	return append([]transfer.ID(nil), g.last...)
}

// Collected returns the members holding the target version.
func (g *Group) Collected() []transfer.ID {
	return g.inOrder(g.collected)
}

// TargetVersion returns the version number being collected.
func (g *Group) TargetVersion() version.Number { return g.target }

// MatchingMode returns the matching mode.
func (g *Group) MatchingMode() MatchingMode { return g.mode }

// Contains reports whether id is a member.
func (g *Group) Contains(id transfer.ID) bool {
	_, ok := g.members[id]
	return ok
}

// Len returns the number of members.
func (g *Group) Len() int { return len(g.members) }

func (g *Group) record(e transfer.Element, v version.Number, consistent bool) {
	if !g.trace.Enabled() {
		return
	}
	value, _ := v.Value()
	g.trace.Record(trace.Event{
		Category:    trace.CategoryTransfer,
		Op:          "update",
		ElementID:   uint64(e.ID()),
		ElementName: e.Name(),
		Version:     value,
		Elements:    len(g.collected),
		Consistent:  consistent,
	}, nil)
}

func (g *Group) debugLog(msg string, args ...any) {
	if g.logger != nil {
		g.logger.Debug(msg, args...)
	}
}
