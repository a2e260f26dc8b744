package dummy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devaccess/devaccess-go/pkg/accessor"
	"github.com/devaccess/devaccess-go/pkg/dummy"
)

func TestParseMap(t *testing.T) {
	m, err := dummy.ParseMap([]byte(testMap))
	require.NoError(t, err)

	assert.Equal(t, "test-board", m.Device)
	require.Len(t, m.Registers, 5)

	ch0, err := m.Register("adc/ch0")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x100), ch0.Address)
	assert.Equal(t, 1, ch0.Words)
	assert.Equal(t, dummy.AccessReadOnly, ch0.Access)
	assert.True(t, ch0.Push)
	assert.Equal(t, accessor.KindFloat64, ch0.Kind())

	sp, err := m.Register("ctrl/setpoint")
	require.NoError(t, err)
	assert.Equal(t, 4, sp.Words)
	assert.Equal(t, dummy.AccessReadWrite, sp.Access)
	assert.Equal(t, accessor.KindInt16, sp.Kind())

	ch1, _ := m.Register("adc/ch1")
	assert.Equal(t, accessor.KindInt32, ch1.Kind())

	_, err = m.Register("missing")
	assert.ErrorIs(t, err, dummy.ErrUnknownRegister)
}

func TestParseMapErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"syntax", "registers: [name: x"},
		{"no name", "registers:\n  - address: 1\n"},
		{"duplicate", "registers:\n  - name: a\n  - name: a\n"},
		{"access", "registers:\n  - name: a\n    access: rx\n"},
		{"words", "registers:\n  - name: a\n    words: -1\n"},
		{"fractional bits", "registers:\n  - name: a\n    fractional_bits: 40\n"},
		{"type", "registers:\n  - name: a\n    type: complex\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dummy.ParseMap([]byte(tt.yaml))
			assert.ErrorIs(t, err, dummy.ErrInvalidMap)
		})
	}
}

func TestLoadMap(t *testing.T) {
	m, err := dummy.LoadMap("testdata/board.yaml")
	require.NoError(t, err)
	assert.Equal(t, "demo-board", m.Device)
	assert.Len(t, m.Registers, 5)

	_, err = dummy.LoadMap("testdata/missing.yaml")
	assert.Error(t, err)
}
