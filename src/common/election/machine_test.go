package election_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viluon/ring-election/src/common/election"
	"github.com/viluon/ring-election/src/common/models/enum"
	"github.com/viluon/ring-election/src/common/protocol"
)

// TestInitialize checks that a node opens the contest with a phase-1 probe
// headed right.
func TestInitialize(t *testing.T) {
	m := election.NewMachine(7)

	outs := m.Initialize()

	require.Len(t, outs, 1)
	assert.Equal(t, enum.Right, outs[0].Direction)
	probe, ok := outs[0].Message.(protocol.Probe)
	require.True(t, ok)
	assert.Equal(t, protocol.Probe{SenderID: 7, Phase: 1, Direction: enum.Right}, probe)

	state := m.State()
	assert.Equal(t, enum.Candidate, state.Status)
	assert.Equal(t, uint64(1), state.Phase)
}

// TestProbeFromSmallerSender checks that a stronger candidate kills the
// incoming probe and opens its next phase in the opposite direction.
func TestProbeFromSmallerSender(t *testing.T) {
	m := election.NewMachine(30)
	m.Initialize()

	outs, err := m.HandleProbe(protocol.Probe{SenderID: 10, Phase: 1, Direction: enum.Right})

	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.Equal(t, enum.Left, outs[0].Direction)
	probe, ok := outs[0].Message.(protocol.Probe)
	require.True(t, ok)
	assert.Equal(t, protocol.Probe{SenderID: 30, Phase: 2, Direction: enum.Left}, probe)
	assert.Equal(t, enum.Candidate, m.State().Status)
	assert.Equal(t, uint64(2), m.State().Phase)
}

// TestProbeDirectionAlternates feeds a candidate a weaker probe per round
// and checks the parity rule: odd phases head right, even phases left.
func TestProbeDirectionAlternates(t *testing.T) {
	m := election.NewMachine(100)
	outs := m.Initialize()
	assert.Equal(t, enum.Right, outs[0].Direction)

	expected := []enum.Direction{enum.Left, enum.Right, enum.Left, enum.Right}
	for i, want := range expected {
		outs, err := m.HandleProbe(protocol.Probe{SenderID: 1, Phase: 1, Direction: enum.Right})
		require.NoError(t, err)
		require.Len(t, outs, 1)
		assert.Equalf(t, want, outs[0].Direction, "phase %d", i+2)
	}
}

// TestProbeFromLargerSender checks that a weaker candidate is defeated and
// forwards the winning probe unmodified.
func TestProbeFromLargerSender(t *testing.T) {
	m := election.NewMachine(10)
	m.Initialize()

	incoming := protocol.Probe{SenderID: 20, Phase: 1, Direction: enum.Right}
	outs, err := m.HandleProbe(incoming)

	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.Equal(t, enum.Right, outs[0].Direction)
	assert.Equal(t, incoming, outs[0].Message)

	state := m.State()
	assert.Equal(t, enum.Defeated, state.Status)
	assert.False(t, state.LeaderKnown)
	assert.False(t, state.Resolved())
}

// TestOwnProbeElectsLeader checks the full-traversal condition: a probe
// returning to its originator makes it the leader and starts the Notify in
// the direction the probe was traveling.
func TestOwnProbeElectsLeader(t *testing.T) {
	m := election.NewMachine(30)
	m.Initialize()

	outs, err := m.HandleProbe(protocol.Probe{SenderID: 30, Phase: 1, Direction: enum.Left})

	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.Equal(t, enum.Left, outs[0].Direction)
	notify, ok := outs[0].Message.(protocol.Notify)
	require.True(t, ok)
	assert.Equal(t, protocol.Notify{LeaderID: 30, Direction: enum.Left}, notify)

	state := m.State()
	assert.Equal(t, enum.Leader, state.Status)
	assert.True(t, state.Resolved())
}

// TestDefeatedAndLeaderRelayProbes checks that resolved nodes are pure
// relays for probe traffic.
func TestDefeatedAndLeaderRelayProbes(t *testing.T) {
	defeated := election.NewMachine(10)
	defeated.Initialize()
	_, err := defeated.HandleProbe(protocol.Probe{SenderID: 50, Phase: 1, Direction: enum.Right})
	require.NoError(t, err)

	leader := election.NewMachine(50)
	leader.Initialize()
	_, err = leader.HandleProbe(protocol.Probe{SenderID: 50, Phase: 1, Direction: enum.Right})
	require.NoError(t, err)

	incoming := protocol.Probe{SenderID: 20, Phase: 3, Direction: enum.Left}
	for _, m := range []*election.Machine{defeated, leader} {
		before := m.State()
		outs, err := m.HandleProbe(incoming)
		require.NoError(t, err)
		require.Len(t, outs, 1)
		assert.Equal(t, enum.Left, outs[0].Direction)
		assert.Equal(t, incoming, outs[0].Message)
		assert.Equal(t, before, m.State())
	}
}

// TestNotifyRecordsLeaderOnce checks that a defeated node records the
// winner exactly once, forwards the first Notify, and swallows duplicates.
func TestNotifyRecordsLeaderOnce(t *testing.T) {
	m := election.NewMachine(10)
	m.Initialize()
	_, err := m.HandleProbe(protocol.Probe{SenderID: 30, Phase: 1, Direction: enum.Right})
	require.NoError(t, err)

	incoming := protocol.Notify{LeaderID: 30, Direction: enum.Right}
	outs, err := m.HandleNotify(incoming)
	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.Equal(t, enum.Right, outs[0].Direction)
	assert.Equal(t, incoming, outs[0].Message)

	state := m.State()
	assert.Equal(t, enum.Defeated, state.Status)
	assert.True(t, state.LeaderKnown)
	assert.Equal(t, uint64(30), state.LeaderID)
	assert.True(t, state.Resolved())

	// Redelivery must not change state and must not re-forward.
	outs, err = m.HandleNotify(incoming)
	require.NoError(t, err)
	assert.Empty(t, outs)
	assert.Equal(t, state, m.State())
}

// TestConflictingNotifyFails checks that a second Notify naming a different
// leader is an invariant violation, not a silent overwrite.
func TestConflictingNotifyFails(t *testing.T) {
	m := election.NewMachine(10)
	m.Initialize()
	_, err := m.HandleProbe(protocol.Probe{SenderID: 30, Phase: 1, Direction: enum.Right})
	require.NoError(t, err)
	_, err = m.HandleNotify(protocol.Notify{LeaderID: 30, Direction: enum.Right})
	require.NoError(t, err)

	_, err = m.HandleNotify(protocol.Notify{LeaderID: 40, Direction: enum.Right})
	assert.ErrorIs(t, err, election.ErrLeaderConflict)
}

// TestLeaderAbsorbsOwnNotify checks that the announcement stops circulating
// once it returns to the leader.
func TestLeaderAbsorbsOwnNotify(t *testing.T) {
	m := election.NewMachine(30)
	m.Initialize()
	_, err := m.HandleProbe(protocol.Probe{SenderID: 30, Phase: 1, Direction: enum.Right})
	require.NoError(t, err)

	outs, err := m.HandleNotify(protocol.Notify{LeaderID: 30, Direction: enum.Right})
	require.NoError(t, err)
	assert.Empty(t, outs)
	assert.Equal(t, enum.Leader, m.State().Status)

	// A Notify for anyone else means two leaders were elected.
	_, err = m.HandleNotify(protocol.Notify{LeaderID: 99, Direction: enum.Right})
	assert.ErrorIs(t, err, election.ErrLeaderConflict)
}

// TestNotifyAsCandidateIsViolation checks the loud-failure path for the
// ordering guarantee being broken.
func TestNotifyAsCandidateIsViolation(t *testing.T) {
	m := election.NewMachine(10)
	m.Initialize()

	_, err := m.HandleNotify(protocol.Notify{LeaderID: 30, Direction: enum.Right})
	assert.ErrorIs(t, err, election.ErrNotifyAsCandidate)
}

// TestThreeNodeScenario drives the documented A-B-C run step by step:
// right-neighbor order A(10) -> B(30) -> C(20) -> A.
func TestThreeNodeScenario(t *testing.T) {
	a := election.NewMachine(10)
	b := election.NewMachine(30)
	c := election.NewMachine(20)

	// Phase 1: everyone probes right.
	aOuts := a.Initialize()
	bOuts := b.Initialize()
	cOuts := c.Initialize()
	aProbe := aOuts[0].Message.(protocol.Probe)
	bProbe := bOuts[0].Message.(protocol.Probe)
	cProbe := cOuts[0].Message.(protocol.Probe)

	// B receives A's probe: 30 > 10, B advances to phase 2 headed left.
	outs, err := b.HandleProbe(aProbe)
	require.NoError(t, err)
	bPhase2 := outs[0].Message.(protocol.Probe)
	assert.Equal(t, protocol.Probe{SenderID: 30, Phase: 2, Direction: enum.Left}, bPhase2)

	// C receives B's probe: 20 < 30, C is defeated and forwards it.
	outs, err = c.HandleProbe(bProbe)
	require.NoError(t, err)
	assert.Equal(t, bProbe, outs[0].Message)
	assert.Equal(t, enum.Defeated, c.State().Status)

	// A receives C's probe: 10 < 20, A is defeated and forwards it.
	outs, err = a.HandleProbe(cProbe)
	require.NoError(t, err)
	assert.Equal(t, cProbe, outs[0].Message)
	assert.Equal(t, enum.Defeated, a.State().Status)

	// B's phase-2 probe travels left through A and C, both relaying.
	outs, err = a.HandleProbe(bPhase2)
	require.NoError(t, err)
	assert.Equal(t, bPhase2, outs[0].Message)
	outs, err = c.HandleProbe(bPhase2)
	require.NoError(t, err)
	assert.Equal(t, bPhase2, outs[0].Message)

	// ...and returns to B: full traversal, B leads and notifies left.
	outs, err = b.HandleProbe(bPhase2)
	require.NoError(t, err)
	notify := outs[0].Message.(protocol.Notify)
	assert.Equal(t, protocol.Notify{LeaderID: 30, Direction: enum.Left}, notify)
	assert.Equal(t, enum.Leader, b.State().Status)

	// The announcement circles left: A records, C records, B absorbs.
	outs, err = a.HandleNotify(notify)
	require.NoError(t, err)
	assert.Equal(t, notify, outs[0].Message)
	outs, err = c.HandleNotify(notify)
	require.NoError(t, err)
	assert.Equal(t, notify, outs[0].Message)
	outs, err = b.HandleNotify(notify)
	require.NoError(t, err)
	assert.Empty(t, outs)

	assert.Equal(t, enum.Leader, b.State().Status)
	for _, m := range []*election.Machine{a, c} {
		state := m.State()
		assert.Equal(t, enum.Defeated, state.Status)
		require.True(t, state.LeaderKnown)
		assert.Equal(t, uint64(30), state.LeaderID)
	}
}
