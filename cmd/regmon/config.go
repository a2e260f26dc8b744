package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/devaccess/devaccess-go/pkg/consistency"
)

// Config holds the monitor settings. Values come from flags, REGMON_*
// environment variables and an optional YAML config file, in that order of
// precedence.
type Config struct {
	// Map is the register map of the simulated device.
	Map string `mapstructure:"map"`
	// Watch lists the push registers to monitor. Empty selects every
	// readable push register of the map.
	Watch []string `mapstructure:"watch"`
	// Status lists poll registers refreshed with every update.
	Status []string `mapstructure:"status"`
	// Controls lists writeable registers that receive the mean of each
	// consistent set.
	Controls []string `mapstructure:"controls"`
	// Matching is the consistency matching mode: exact or none.
	Matching string `mapstructure:"matching"`

	// Interval between simulated trigger cycles. Zero disables the simulator.
	Interval time.Duration `mapstructure:"interval"`
	// DropEvery skips the last watched register in every n-th cycle.
	DropEvery int `mapstructure:"drop_every"`
	// QueueLength is the per-accessor queue length of the device.
	QueueLength int `mapstructure:"queue_length"`

	// Duration stops the monitor after this time. Zero runs until interrupted.
	Duration time.Duration `mapstructure:"duration"`
	// Sets stops the monitor after this many consistent sets.
	Sets int `mapstructure:"sets"`

	Trace       string `mapstructure:"trace"`
	MetricsAddr string `mapstructure:"metrics_addr"`
	LogLevel    string `mapstructure:"log_level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("matching", "exact")
	v.SetDefault("interval", time.Second)
	v.SetDefault("queue_length", 3)
	v.SetDefault("log_level", "info")
}

func addFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "YAML config file")
	flags.String("map", "", "register map file")
	flags.StringSlice("watch", nil, "push registers to monitor (default all)")
	flags.StringSlice("status", nil, "poll registers refreshed with every update")
	flags.StringSlice("controls", nil, "registers receiving the mean of each consistent set")
	flags.String("matching", "exact", "consistency matching: exact, none")
	flags.Duration("interval", time.Second, "simulator trigger interval, 0 disables the simulator")
	flags.Int("drop-every", 0, "skip one register in every n-th simulated cycle")
	flags.Int("queue-length", 3, "per-accessor queue length")
	flags.Duration("duration", 0, "stop after this time")
	flags.Int("sets", 0, "stop after this many consistent sets")
	flags.String("trace", "", "append trace events to this file")
	flags.String("metrics-addr", "", "serve Prometheus metrics on this address")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
}

// loadConfig resolves the configuration from flags, environment and the
// config file named by the --config flag.
func loadConfig(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("REGMON")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			bindErr = errors.Join(bindErr, err)
		}
	})
	if bindErr != nil {
		return nil, bindErr
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Map == "" {
		return errors.New("no register map given")
	}
	if _, err := c.matchingMode(); err != nil {
		return err
	}
	if _, err := c.level(); err != nil {
		return err
	}
	switch {
	case c.Interval < 0:
		return fmt.Errorf("interval must not be negative, got %s", c.Interval)
	case c.Duration < 0:
		return fmt.Errorf("duration must not be negative, got %s", c.Duration)
	case c.DropEvery < 0:
		return fmt.Errorf("drop-every must not be negative, got %d", c.DropEvery)
	case c.QueueLength < 1:
		return fmt.Errorf("queue-length must be at least 1, got %d", c.QueueLength)
	case c.Sets < 0:
		return fmt.Errorf("sets must not be negative, got %d", c.Sets)
	}
	return nil
}

func (c *Config) matchingMode() (consistency.MatchingMode, error) {
	switch strings.ToLower(c.Matching) {
	case "", "exact":
		return consistency.MatchExact, nil
	case "none":
		return consistency.MatchNone, nil
	default:
		return 0, fmt.Errorf("invalid matching mode %q (must be exact or none)", c.Matching)
	}
}

func (c *Config) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return l, nil
}
