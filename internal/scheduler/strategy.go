package scheduler

import (
	"fmt"
	"strings"
)

// Strategy selects the order in which lanes are serviced.
type Strategy int

const (
	// Normal sweeps the lanes round-robin in fixed order.
	Normal Strategy = iota
	// Quantum always services the priority lane first, then the fullest lane.
	Quantum
)

// Strategies lists the strategies in the order a round runs them.
var Strategies = []Strategy{Normal, Quantum}

// String returns the lower-case strategy name.
func (s Strategy) String() string {
	switch s {
	case Normal:
		return "normal"
	case Quantum:
		return "quantum"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// Title returns the capitalised strategy name for display.
func (s Strategy) Title() string {
	switch s {
	case Normal:
		return "Normal"
	case Quantum:
		return "Quantum"
	default:
		return s.String()
	}
}

// ParseStrategy parses "normal" or "quantum" (case-insensitive).
func ParseStrategy(v string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "normal":
		return Normal, nil
	case "quantum":
		return Quantum, nil
	default:
		return Normal, fmt.Errorf("invalid strategy %q, must be one of: normal, quantum", v)
	}
}

// MarshalText encodes the strategy by its lower-case name.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(b []byte) error {
	parsed, err := ParseStrategy(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
