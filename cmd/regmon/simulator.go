package main

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/devaccess/devaccess-go/pkg/dummy"
	"github.com/devaccess/devaccess-go/pkg/version"
)

// simulator drives the push registers of a dummy device. Every cycle writes
// a new waveform sample to each register and triggers them with one shared
// version number.
type simulator struct {
	dev       *dummy.Device
	registers []string
	interval  time.Duration
	dropEvery int
	logger    *slog.Logger

	cycles int
}

func newSimulator(dev *dummy.Device, registers []string, cfg *Config, logger *slog.Logger) *simulator {
	return &simulator{
		dev:       dev,
		registers: registers,
		interval:  cfg.Interval,
		dropEvery: cfg.DropEvery,
		logger:    logger,
	}
}

func (s *simulator) run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.cycle(); err != nil {
				if errors.Is(err, dummy.ErrDeviceClosed) {
					return nil
				}
				return err
			}
		}
	}
}

func (s *simulator) cycle() error {
	s.cycles++
	v := version.Next()
	last := len(s.registers)
	if s.dropEvery > 0 && s.cycles%s.dropEvery == 0 && last > 1 {
		last--
		s.logger.Debug("sim: dropping register", "register", s.registers[last], "version", v)
	}
	for i, name := range s.registers[:last] {
		words, err := s.dev.Words(name)
		if err != nil {
			return err
		}
		phase := float64(s.cycles)/10 + float64(i)
		for j := range words {
			words[j] = int32(math.Round(1000 * math.Sin(phase+float64(j))))
		}
		if err := s.dev.SetWords(name, words...); err != nil {
			return err
		}
		if _, err := s.dev.TriggerWithVersion(name, v); err != nil {
			return err
		}
	}
	return nil
}
