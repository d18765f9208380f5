// Package junction models the waiting traffic at a single four-way intersection.
package junction

import (
	"fmt"
	"strconv"
	"strings"
)

// Lane identifies one approach to the intersection. The numeric value is the
// lane's index for display and for the default service order.
type Lane int

// Lane constants
const (
	Up Lane = iota
	Right
	Down
	Left
)

// NoLane marks the absence of a priority lane.
const NoLane Lane = -1

// NumLanes is the number of approaches at the intersection.
const NumLanes = 4

// Lanes lists every lane in index order.
var Lanes = [NumLanes]Lane{Up, Right, Down, Left}

var laneNames = [NumLanes]string{"UP", "RIGHT", "DOWN", "LEFT"}

// laneColours are the display colours used by renderers and charts.
var laneColours = [NumLanes]string{"blue", "orange", "green", "purple"}

// Valid reports whether l is one of the four lanes.
func (l Lane) Valid() bool {
	return l >= Up && l <= Left
}

// String returns the upper-case lane name, or "NONE" for NoLane.
func (l Lane) String() string {
	if !l.Valid() {
		return "NONE"
	}
	return laneNames[l]
}

// Colour returns the lane's display colour name.
func (l Lane) Colour() string {
	if !l.Valid() {
		return "gray"
	}
	return laneColours[l]
}

// GetValidLanesString returns a comma-separated list of lane names for error messages.
func GetValidLanesString() string {
	return strings.Join(laneNames[:], ", ")
}

// ParseLane parses a lane name (case-insensitive) or index "0".."3".
// An empty string parses as NoLane.
func ParseLane(s string) (Lane, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NoLane, nil
	}
	for i, name := range laneNames {
		if strings.EqualFold(s, name) {
			return Lane(i), nil
		}
	}
	if idx, err := strconv.Atoi(s); err == nil && Lane(idx).Valid() {
		return Lane(idx), nil
	}
	return NoLane, fmt.Errorf("invalid lane %q, must be one of: %s", s, GetValidLanesString())
}

// MarshalText encodes the lane by name.
func (l Lane) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText accepts anything ParseLane does, plus "NONE".
func (l *Lane) UnmarshalText(b []byte) error {
	if strings.EqualFold(string(b), "NONE") {
		*l = NoLane
		return nil
	}
	parsed, err := ParseLane(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
