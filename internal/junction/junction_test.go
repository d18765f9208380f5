package junction

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLane(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expected  Lane
		expectErr bool
	}{
		{"upper_case", "UP", Up, false},
		{"lower_case", "right", Right, false},
		{"mixed_case_with_spaces", "  DoWn ", Down, false},
		{"index", "3", Left, false},
		{"empty_is_none", "", NoLane, false},
		{"out_of_range_index", "4", NoLane, true},
		{"unknown_name", "north", NoLane, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseLane(tc.input)
			if tc.expectErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), GetValidLanesString())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestLaneString(t *testing.T) {
	assert.Equal(t, "UP", Up.String())
	assert.Equal(t, "LEFT", Left.String())
	assert.Equal(t, "NONE", NoLane.String())
	assert.Equal(t, "orange", Right.Colour())
	assert.Equal(t, "gray", NoLane.Colour())
}

func TestStateDecrementNeverNegative(t *testing.T) {
	s := NewState(1, 0, 2, 0)

	assert.True(t, s.Decrement(Up))
	assert.False(t, s.Decrement(Up))
	assert.False(t, s.Decrement(Right))
	assert.False(t, s.Decrement(NoLane))
	assert.Equal(t, 0, s.Count(Up))
	assert.Equal(t, 2, s.Total())
}

func TestStateNegativeCountIsEmpty(t *testing.T) {
	s := State{0, -1, 0, 0}
	assert.False(t, s.Decrement(Right))
	assert.Equal(t, -1, s.Count(Right))
	assert.True(t, s.Empty())

	s = State{2, -1, 0, 0}
	assert.False(t, s.Empty())
}

func TestStateIsCopiedByValue(t *testing.T) {
	initial := NewState(3, 3, 3, 3)
	working := initial
	working.Decrement(Down)

	assert.Equal(t, 3, initial.Count(Down))
	assert.Equal(t, 2, working.Count(Down))
}

func TestStateMaxLaneTieBreak(t *testing.T) {
	testCases := []struct {
		name     string
		state    State
		expected Lane
	}{
		{"single_max", NewState(1, 5, 2, 3), Right},
		{"tie_lowest_index_wins", NewState(2, 4, 0, 4), Right},
		{"all_equal", NewState(2, 2, 2, 2), Up},
		{"last_lane", NewState(0, 0, 0, 1), Left},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.state.MaxLane())
		})
	}
}

func TestStateAddAndString(t *testing.T) {
	s := NewState(5, 2, -1, 3)
	s.Add(Right, 1)
	s.Add(Down, -4)
	s.Add(NoLane, 2)

	assert.Equal(t, "UP=5 RIGHT=3 DOWN=0 LEFT=3", s.String())
	assert.False(t, s.Empty())

	var drained State
	assert.True(t, drained.Empty())
}

func TestLaneJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Priority Lane `json:"priority"`
		None     Lane `json:"none"`
	}{Left, NoLane})
	require.NoError(t, err)
	assert.JSONEq(t, `{"priority":"LEFT","none":"NONE"}`, string(b))

	var got struct{ A, B, C Lane }
	require.NoError(t, json.Unmarshal([]byte(`{"A":"down","B":"NONE","C":"1"}`), &got))
	assert.Equal(t, Down, got.A)
	assert.Equal(t, NoLane, got.B)
	assert.Equal(t, Right, got.C)

	assert.Error(t, json.Unmarshal([]byte(`{"A":"north"}`), &got))
}
