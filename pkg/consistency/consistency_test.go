package consistency_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devaccess/devaccess-go/pkg/consistency"
	"github.com/devaccess/devaccess-go/pkg/transfer"
	"github.com/devaccess/devaccess-go/pkg/transfer/transfertest"
	"github.com/devaccess/devaccess-go/pkg/version"
)

func push(name string) *transfertest.Element {
	return transfertest.NewPush(transfertest.NewRegister(name, 1))
}

// deliver pushes a value tagged with v and reads it into the buffer.
func deliver(t *testing.T, e *transfertest.Element, v version.Number) {
	t.Helper()
	e.PushVersion(v, 1)
	require.NoError(t, transfer.Read(context.Background(), e))
}

func newGroup(t *testing.T, elems ...*transfertest.Element) *consistency.Group {
	t.Helper()
	g := consistency.New()
	for _, e := range elems {
		require.NoError(t, g.Add(transfertest.Bind(e)))
	}
	return g
}

func TestTwoMembersReachSameVersion(t *testing.T) {
	a, b := push("a"), push("b")
	g := newGroup(t, a, b)

	v1 := version.Next()
	deliver(t, a, v1)
	deliver(t, b, v1)

	assert.False(t, g.Update(a.ID()))
	assert.Equal(t, []transfer.ID{a.ID()}, g.Collected())
	assert.True(t, g.Update(b.ID()))
	assert.Equal(t, []transfer.ID{a.ID(), b.ID()}, g.LastConsistentSet())
	assert.Equal(t, v1, g.TargetVersion())
}

func TestNewerGenerationSupersedesIncompleteOne(t *testing.T) {
	a, b, c := push("a"), push("b"), push("c")
	g := newGroup(t, a, b, c)

	v1 := version.Next()
	v2 := version.Next()
	deliver(t, c, v2)
	deliver(t, a, v1)
	deliver(t, b, v1)

	assert.False(t, g.Update(c.ID()))
	assert.Equal(t, v2, g.TargetVersion())
	assert.Equal(t, []transfer.ID{c.ID()}, g.Collected())

	assert.False(t, g.Update(a.ID()))
	assert.Equal(t, v1, g.TargetVersion())
	assert.Equal(t, []transfer.ID{a.ID()}, g.Collected())

	// c never reaches v1, so the v1 generation stays incomplete, and c's v2
	// generation was dropped.
	assert.False(t, g.Update(b.ID()))
	assert.Equal(t, []transfer.ID{a.ID(), b.ID()}, g.Collected())
	assert.Nil(t, g.LastConsistentSet())

	v3 := version.Next()
	for _, e := range []*transfertest.Element{a, b, c} {
		deliver(t, e, v3)
	}
	assert.False(t, g.Update(b.ID()))
	assert.False(t, g.Update(c.ID()))
	assert.True(t, g.Update(a.ID()))
	assert.Equal(t, []transfer.ID{a.ID(), b.ID(), c.ID()}, g.LastConsistentSet())
}

func TestGenerationReportedOnce(t *testing.T) {
	a, b := push("a"), push("b")
	g := newGroup(t, a, b)

	v := version.Next()
	deliver(t, a, v)
	deliver(t, b, v)

	assert.False(t, g.Update(a.ID()))
	assert.True(t, g.Update(b.ID()))
	assert.False(t, g.Update(b.ID()))
	assert.False(t, g.Update(a.ID()))
}

func TestUnknownAndUnreadMembers(t *testing.T) {
	a, b := push("a"), push("b")
	g := newGroup(t, a, b)

	assert.False(t, g.Update(transfer.ID(0)))
	assert.False(t, g.Update(push("other").ID()))
	assert.False(t, g.Update(a.ID()), "member without a valid version")
	assert.Empty(t, g.Collected())
	assert.True(t, g.Contains(a.ID()))
	assert.Equal(t, 2, g.Len())
}

func TestMatchNone(t *testing.T) {
	a, b := push("a"), push("b")
	g := consistency.New(consistency.WithMatchingMode(consistency.MatchNone))
	require.NoError(t, g.Add(transfertest.Bind(a)))
	require.NoError(t, g.Add(transfertest.Bind(b)))

	deliver(t, a, version.Next())
	assert.True(t, g.Update(a.ID()))
	assert.Equal(t, []transfer.ID{a.ID()}, g.LastConsistentSet())
	assert.Equal(t, "none", g.MatchingMode().String())
}

func TestAddValidation(t *testing.T) {
	a := push("a")
	g := newGroup(t, a)

	tests := []struct {
		name string
		e    transfer.Element
	}{
		{"poll-type", transfertest.NewPoll(transfertest.NewRegister("p", 1))},
		{"write-only", transfertest.NewPush(transfertest.NewRegister("w", 1), transfertest.WriteOnly())},
		{"duplicate", a},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, g.Add(transfertest.Bind(tt.e)), transfer.ErrConfiguration)
		})
	}
	assert.Equal(t, 1, g.Len())
}
