package mesh

import "fmt"

// Motion is the action a character performs to traverse an edge.
type Motion uint8

const (
	Left Motion = iota
	Right
	Jump
	JumpRight
	JumpLeft
	Fall
	// Stop also marks the absence of an edge.
	Stop

	numMotions
)

var motionNames = [numMotions]string{
	Left:      "left",
	Right:     "right",
	Jump:      "jump",
	JumpRight: "jump_right",
	JumpLeft:  "jump_left",
	Fall:      "fall",
	Stop:      "stop",
}

// Valid reports whether m is one of the defined motions.
func (m Motion) Valid() bool {
	return m < numMotions
}

func (m Motion) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Motion(%d)", uint8(m))
	}
	return motionNames[m]
}

// ParseMotion returns the motion named s.
func ParseMotion(s string) (Motion, error) {
	for m, name := range motionNames {
		if name == s {
			return Motion(m), nil
		}
	}
	return Stop, fmt.Errorf("unknown motion %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Motion) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid motion %d", uint8(m))
	}
	return []byte(motionNames[m]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Motion) UnmarshalText(text []byte) error {
	parsed, err := ParseMotion(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
