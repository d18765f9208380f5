package junction

import (
	"fmt"
	"strings"
)

// State holds the number of vehicles waiting in each lane. It is a value
// type: assigning a State copies it, so each scheduling run owns its counts.
type State [NumLanes]int

// NewState builds a State from per-lane counts in lane order.
// Negative counts are clamped to zero.
func NewState(up, right, down, left int) State {
	var s State
	for i, c := range [NumLanes]int{up, right, down, left} {
		if c > 0 {
			s[i] = c
		}
	}
	return s
}

// Count returns the number of vehicles waiting in lane l.
func (s *State) Count(l Lane) int {
	if !l.Valid() {
		return 0
	}
	return s[l]
}

// Add increases lane l by n vehicles. Non-positive n is ignored.
func (s *State) Add(l Lane, n int) {
	if !l.Valid() || n <= 0 {
		return
	}
	s[l] += n
}

// Decrement releases one vehicle from lane l. It reports false and leaves the
// state unchanged when the lane is already empty or negative.
func (s *State) Decrement(l Lane) bool {
	if !l.Valid() || s[l] <= 0 {
		return false
	}
	s[l]--
	return true
}

// Total returns the number of vehicles waiting across all lanes.
func (s *State) Total() int {
	total := 0
	for _, c := range s {
		total += c
	}
	return total
}

// Empty reports whether every lane has drained.
func (s *State) Empty() bool {
	for _, c := range s {
		if c > 0 {
			return false
		}
	}
	return true
}

// MaxLane returns the lane holding the most vehicles. Ties go to the lowest
// lane index.
func (s *State) MaxLane() Lane {
	best := Up
	for _, l := range Lanes[1:] {
		if s[l] > s[best] {
			best = l
		}
	}
	return best
}

// String formats the state as "UP=5 RIGHT=2 DOWN=0 LEFT=3".
func (s State) String() string {
	parts := make([]string, 0, NumLanes)
	for _, l := range Lanes {
		parts = append(parts, fmt.Sprintf("%s=%d", l, s[l]))
	}
	return strings.Join(parts, " ")
}
