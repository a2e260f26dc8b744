package transfer

import (
	"github.com/devaccess/devaccess-go/pkg/version"
)

// Core holds the identity and protocol state shared by every element.
// Backends embed it by value and initialise it with NewCore.
type Core struct {
	id   ID
	name string
	mode AccessMode

	inGroup         bool
	future          *Future
	readInProgress  bool
	writeInProgress bool
	lastRead        version.Number
}

// NewCore returns a Core with a fresh ID.
func NewCore(name string, mode AccessMode) Core {
	return Core{
		id:   NewID(),
		name: name,
		mode: mode,
	}
}

// TransferCore returns c. It lets embedding types satisfy Element.
func (c *Core) TransferCore() *Core { return c }

// ID returns the element ID.
func (c *Core) ID() ID { return c.id }

// Name returns the register name the element was opened for.
func (c *Core) Name() string { return c.name }

// AccessMode returns the access mode flags.
func (c *Core) AccessMode() AccessMode { return c.mode }

// InGroup reports whether the element belongs to a transfer group.
func (c *Core) InGroup() bool { return c.inGroup }

// SetInGroup marks the element as (not) belonging to a transfer group.
// Only group implementations call it.
func (c *Core) SetInGroup(grouped bool) { c.inGroup = grouped }

// HasActiveFuture reports whether a Future returned by ReadAsync is outstanding.
func (c *Core) HasActiveFuture() bool { return c.future != nil }

// checkVersion enforces that push-type elements deliver valid versions and
// that no element goes back in time between completed reads.
func (c *Core) checkVersion(e Element) error {
	v := e.VersionNumber()
	if !v.IsValid() {
		if c.mode.IsPush() {
			return violation(e, "postRead", "push-type element delivered an invalid version number")
		}
		return nil
	}
	if v.Before(c.lastRead) {
		return violation(e, "postRead", "version number "+v.String()+" is older than "+c.lastRead.String())
	}
	c.lastRead = v
	return nil
}
