package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viluon/ring-election/src/common/models/enum"
	"github.com/viluon/ring-election/src/common/protocol"
)

func TestProbeRoundTrip(t *testing.T) {
	probe := protocol.Probe{SenderID: 12, Phase: 3, Direction: enum.Left}

	data, err := protocol.Marshal(probe)
	require.NoError(t, err)

	msg, err := protocol.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, probe, msg)
	assert.Equal(t, enum.Probe, msg.Kind())
	assert.Equal(t, enum.Left, msg.Heading())
}

func TestNotifyRoundTrip(t *testing.T) {
	notify := protocol.Notify{LeaderID: 99, Direction: enum.Right}

	data, err := protocol.Marshal(notify)
	require.NoError(t, err)

	msg, err := protocol.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, notify, msg)
	assert.Equal(t, enum.Notify, msg.Kind())
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	_, err := protocol.Unmarshal([]byte("not json"))
	assert.Error(t, err)

	_, err = protocol.Unmarshal([]byte(`{"kind":"ballot"}`))
	assert.Error(t, err)

	// Tag and payload must agree.
	_, err = protocol.Unmarshal([]byte(`{"kind":"probe"}`))
	assert.Error(t, err)
}
