package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/devaccess/devaccess-go/pkg/accessor"
	"github.com/devaccess/devaccess-go/pkg/consistency"
	"github.com/devaccess/devaccess-go/pkg/dummy"
	"github.com/devaccess/devaccess-go/pkg/group"
	"github.com/devaccess/devaccess-go/pkg/readany"
	"github.com/devaccess/devaccess-go/pkg/trace"
	"github.com/devaccess/devaccess-go/pkg/transfer"
)

// Stats counts what the monitor processed.
type Stats struct {
	Updates        int
	ConsistentSets int
	Writes         int
}

// Monitor waits for updates of the watched registers, detects consistent
// sets and writes their mean to the control registers.
type Monitor struct {
	dev      *dummy.Device
	watched  []accessor.Untyped
	byID     map[transfer.ID]accessor.Untyped
	status   []accessor.Untyped
	controls []accessor.Untyped

	readAny  *readany.Group
	sets     *consistency.Group
	controlG *group.Group

	maxSets int
	logger  *slog.Logger
	stats   Stats
}

// NewMonitor opens the accessors on dev and builds the groups.
func NewMonitor(dev *dummy.Device, cfg *Config, logger *slog.Logger, tl trace.Logger) (*Monitor, error) {
	mode, err := cfg.matchingMode()
	if err != nil {
		return nil, err
	}
	m := &Monitor{
		dev:     dev,
		byID:    make(map[transfer.ID]accessor.Untyped),
		maxSets: cfg.Sets,
		logger:  logger,
		readAny: readany.New(readany.WithLogger(logger), readany.WithTrace(tl)),
		sets: consistency.New(
			consistency.WithMatchingMode(mode),
			consistency.WithLogger(logger),
			consistency.WithTrace(tl),
		),
		controlG: group.New(group.WithLogger(logger), group.WithTrace(tl)),
	}

	watch := cfg.Watch
	if len(watch) == 0 {
		watch = pushRegisters(dev)
	}
	if len(watch) == 0 {
		return nil, fmt.Errorf("device %q has no push registers to watch", dev.Name())
	}

	for _, name := range watch {
		a, err := openRegister(dev, name, transfer.WaitForNewData)
		if err != nil {
			return nil, err
		}
		m.watched = append(m.watched, a)
		m.byID[a.TransferElement().ID()] = a
		if err := m.sets.Add(a); err != nil {
			return nil, err
		}
		if err := m.readAny.Add(a); err != nil {
			return nil, err
		}
	}
	for _, name := range cfg.Status {
		a, err := openRegister(dev, name, 0)
		if err != nil {
			return nil, err
		}
		m.status = append(m.status, a)
		if err := m.readAny.Add(a); err != nil {
			return nil, err
		}
	}
	for _, name := range cfg.Controls {
		a, err := openRegister(dev, name, 0)
		if err != nil {
			return nil, err
		}
		m.controls = append(m.controls, a)
		if err := m.controlG.Add(a); err != nil {
			return nil, err
		}
	}
	if len(m.controls) > 0 && m.controlG.IsReadOnly() {
		return nil, fmt.Errorf("control registers must be writeable: %w", group.ErrReadOnly)
	}

	if err := dev.ActivateAsyncRead(); err != nil {
		return nil, err
	}
	if err := m.readAny.Finalise(); err != nil {
		return nil, err
	}
	return m, nil
}

func pushRegisters(dev *dummy.Device) []string {
	var names []string
	for _, r := range dev.Registers() {
		if r.Push && r.Access.Readable() {
			names = append(names, r.Name)
		}
	}
	return names
}

func openRegister(dev *dummy.Device, name string, mode transfer.AccessMode) (accessor.Untyped, error) {
	var info dummy.RegisterInfo
	found := false
	for _, r := range dev.Registers() {
		if r.Name == name {
			info, found = r, true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", dummy.ErrUnknownRegister, name)
	}
	return dummy.OpenUntyped(dev, name, mode, info.Kind())
}

// Run processes updates until ctx is done, the configured number of sets is
// reached or a transfer fails.
func (m *Monitor) Run(ctx context.Context) error {
	defer m.readAny.Close()

	for m.maxSets == 0 || m.stats.ConsistentSets < m.maxSets {
		id, err := m.readAny.WaitAny(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, transfer.ErrInterrupted) {
				return nil
			}
			return fmt.Errorf("wait: %w", err)
		}
		m.stats.Updates++
		a := m.byID[id]
		m.logger.Debug("update", "register", a.TransferElement().Name(), "version", a.TransferElement().VersionNumber(), "value", a.AnyValue())

		if !m.sets.Update(id) {
			continue
		}
		m.stats.ConsistentSets++
		if err := m.onConsistent(); err != nil {
			return err
		}
	}
	return nil
}

// Interrupt makes a blocked Run return.
func (m *Monitor) Interrupt() { m.readAny.Interrupt() }

func (m *Monitor) onConsistent() error {
	var sum float64
	attrs := make([]any, 0, 2*len(m.watched)+2)
	attrs = append(attrs, "version", m.sets.TargetVersion())
	for _, id := range m.sets.LastConsistentSet() {
		a := m.byID[id]
		f, err := a.AnyValue().Float()
		if err != nil {
			return fmt.Errorf("register %q: %w", a.TransferElement().Name(), err)
		}
		sum += f
		attrs = append(attrs, a.TransferElement().Name(), f)
	}
	for _, s := range m.status {
		attrs = append(attrs, s.TransferElement().Name(), s.AnyValue())
	}
	m.logger.Info("consistent set", attrs...)

	if len(m.controls) == 0 {
		return nil
	}
	mean := sum / float64(len(m.sets.LastConsistentSet()))
	for _, c := range m.controls {
		if err := c.SetAnyValue(accessor.FloatValue(mean)); err != nil {
			return fmt.Errorf("register %q: %w", c.TransferElement().Name(), err)
		}
	}
	if _, err := m.controlG.Write(); err != nil {
		return fmt.Errorf("write controls: %w", err)
	}
	m.stats.Writes++
	return nil
}

// Stats returns the counters. Call it after Run returned.
func (m *Monitor) Stats() Stats { return m.stats }
