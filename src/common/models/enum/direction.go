package enum

// Direction is one of the two traversal orientations of the ring.
type Direction int32

const (
	Left Direction = iota
	Right
)

func (d Direction) String() string {
	if d == Left {
		return "left"
	}
	return "right"
}
