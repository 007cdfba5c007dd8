package match3

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSwipeDirection(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float64
		want   Direction
		ok     bool
	}{
		{"right", 1, 0, DirRight, true},
		{"slightly up right", 1, 0.5, DirRight, true},
		{"up", 0, 1, DirUp, true},
		{"steep up right", 0.5, 1, DirUp, true},
		{"down", 0, -1, DirDown, true},
		{"steep down right", 0.5, -1, DirDown, true},
		{"left", -1, 0, DirLeft, true},
		{"up left", -1, 0.8, DirLeft, true},
		{"too short", 0.3, 0.2, DirUp, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SwipeDirection(tt.dx, tt.dy, DefaultSwipeDistance)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCoordStep(t *testing.T) {
	c := C(2, 2)
	assert.Equal(t, C(2, 3), c.Step(DirUp))
	assert.Equal(t, C(3, 2), c.Step(DirRight))
	assert.Equal(t, C(2, 1), c.Step(DirDown))
	assert.Equal(t, C(1, 2), c.Step(DirLeft))
	assert.True(t, c.Adjacent(C(2, 3)))
	assert.False(t, c.Adjacent(C(3, 3)))
	assert.False(t, c.Adjacent(c))
}

func TestParseColor(t *testing.T) {
	for _, c := range append(RegularColors(), Bomb) {
		got, ok := ParseColor(c.String())
		assert.True(t, ok, c.String())
		assert.Equal(t, c, got)
	}
	_, ok := ParseColor("teal")
	assert.False(t, ok)
}
