package main

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devaccess/devaccess-go/pkg/consistency"
)

func parseFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("regmon", pflag.ContinueOnError)
	addFlags(flags)
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(parseFlags(t, "--map", "testdata/board.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "testdata/board.yaml", cfg.Map)
	assert.Empty(t, cfg.Watch)
	assert.Equal(t, time.Second, cfg.Interval)
	assert.Equal(t, 3, cfg.QueueLength)
	assert.Equal(t, "info", cfg.LogLevel)

	mode, err := cfg.matchingMode()
	require.NoError(t, err)
	assert.Equal(t, consistency.MatchExact, mode)
}

func TestLoadConfigFile(t *testing.T) {
	cfg, err := loadConfig(parseFlags(t, "--config", "testdata/regmon.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"adc/ch0", "adc/ch1"}, cfg.Watch)
	assert.Equal(t, []string{"adc/trigger_count"}, cfg.Status)
	assert.Equal(t, []string{"ctrl/setpoint"}, cfg.Controls)
	assert.Equal(t, 20*time.Millisecond, cfg.Interval)
	assert.Equal(t, 3, cfg.DropEvery)
	assert.Equal(t, 5, cfg.Sets)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	cfg, err := loadConfig(parseFlags(t,
		"--config", "testdata/regmon.yaml",
		"--sets", "9",
		"--watch", "adc/ch1",
		"--matching", "none",
	))
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.Sets)
	assert.Equal(t, []string{"adc/ch1"}, cfg.Watch)
	mode, err := cfg.matchingMode()
	require.NoError(t, err)
	assert.Equal(t, consistency.MatchNone, mode)
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("REGMON_MAP", "testdata/board.yaml")
	t.Setenv("REGMON_DROP_EVERY", "4")

	cfg, err := loadConfig(parseFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "testdata/board.yaml", cfg.Map)
	assert.Equal(t, 4, cfg.DropEvery)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no map", nil, "no register map"},
		{"matching", []string{"--map", "m.yaml", "--matching", "fuzzy"}, "invalid matching mode"},
		{"log level", []string{"--map", "m.yaml", "--log-level", "loud"}, "invalid log level"},
		{"interval", []string{"--map", "m.yaml", "--interval", "-1s"}, "interval"},
		{"queue length", []string{"--map", "m.yaml", "--queue-length", "0"}, "queue-length"},
		{"sets", []string{"--map", "m.yaml", "--sets", "-2"}, "sets"},
		{"missing file", []string{"--config", "testdata/missing.yaml"}, "read config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(parseFlags(t, tt.args...))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
