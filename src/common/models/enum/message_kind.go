package enum

// MessageKind tags the wire messages exchanged between ring neighbors.
type MessageKind string

const (
	Probe  MessageKind = "probe"
	Notify MessageKind = "notify"
)
