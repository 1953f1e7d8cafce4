package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/viluon/ring-election/src/common/models/enum"
)

// envelope is the on-the-wire shape: a kind tag plus the payload for that kind.
type envelope struct {
	Kind   enum.MessageKind `json:"kind"`
	Probe  *Probe           `json:"probe,omitempty"`
	Notify *Notify          `json:"notify,omitempty"`
}

// Marshal serializes a message for a ring link.
func Marshal(msg Message) ([]byte, error) {
	env := envelope{Kind: msg.Kind()}
	switch m := msg.(type) {
	case Probe:
		env.Probe = &m
	case Notify:
		env.Notify = &m
	default:
		return nil, fmt.Errorf("unknown message type %T", msg)
	}
	return json.Marshal(env)
}

// Unmarshal deserializes a message received from a ring link.
func Unmarshal(data []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal envelope: %w", err)
	}

	switch env.Kind {
	case enum.Probe:
		if env.Probe == nil {
			return nil, fmt.Errorf("envelope tagged %q has no probe payload", env.Kind)
		}
		return *env.Probe, nil
	case enum.Notify:
		if env.Notify == nil {
			return nil, fmt.Errorf("envelope tagged %q has no notify payload", env.Kind)
		}
		return *env.Notify, nil
	default:
		return nil, fmt.Errorf("unknown message kind %q", env.Kind)
	}
}
