package transfer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devaccess/devaccess-go/pkg/transfer"
	"github.com/devaccess/devaccess-go/pkg/transfer/transfertest"
	"github.com/devaccess/devaccess-go/pkg/version"
)

func TestCopyDecoratorCopiesTargetBuffer(t *testing.T) {
	reg := transfertest.NewRegister("shared", 2)
	reg.Set(1, 2)
	target := transfertest.NewPoll(reg)
	cd := transfer.NewCopyDecorator[int64](target, 0)

	require.NoError(t, transfer.Read(context.Background(), cd))
	assert.Equal(t, []int64{1, 2}, cd.Buffer())
	assert.Equal(t, target.VersionNumber(), cd.VersionNumber())

	// The private buffer is independent from the target buffer.
	cd.Buffer()[0] = 100
	assert.Equal(t, int64(1), target.Buffer()[0])
}

func TestCopyDecoratorIsReadOnly(t *testing.T) {
	target := transfertest.NewPoll(transfertest.NewRegister("shared", 1))
	cd := transfer.NewCopyDecorator[int64](target, 0)

	assert.True(t, cd.IsReadOnly())
	assert.False(t, cd.IsWriteable())
	_, err := transfer.Write(cd, version.Next())
	assert.ErrorIs(t, err, transfer.ErrProtocolViolation)
	assert.Equal(t, target, cd.Target())
	assert.Equal(t, []transfer.Element{target}, cd.HardwareAccessingElements())
}

func TestCopyDecoratorTakesGivenID(t *testing.T) {
	reg := transfertest.NewRegister("shared", 1)
	target := transfertest.NewPoll(reg)
	replaced := transfertest.NewPoll(reg)

	cd := transfer.NewCopyDecorator[int64](target, replaced.ID())
	assert.Equal(t, replaced.ID(), cd.ID())

	fresh := transfer.NewCopyDecorator[int64](target, 0)
	assert.True(t, fresh.ID().IsValid())
	assert.NotEqual(t, target.ID(), fresh.ID())
}

func TestShouldReplace(t *testing.T) {
	reg := transfertest.NewRegister("r", 1)
	older := transfertest.NewPoll(reg)
	newer := transfertest.NewPoll(reg)
	other := transfertest.NewPoll(transfertest.NewRegister("other", 1))
	push := transfertest.NewPush(reg)

	tests := []struct {
		name               string
		current, candidate transfer.Element
		want               bool
	}{
		{"older replaces newer", newer, older, true},
		{"newer does not replace older", older, newer, false},
		{"self", older, older, false},
		{"different register", newer, other, false},
		{"different access mode", push, older, false},
		{"copy decorator never replaces", newer, transfer.NewCopyDecorator[int64](older, 0), false},
		{"nil candidate", newer, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, transfer.ShouldReplace(tt.current, tt.candidate))
		})
	}
}
