package scroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeGate bool

func (g fakeGate) Fetching() bool { return bool(g) }

func TestPosition_NearBottom(t *testing.T) {
	tests := []struct {
		name string
		pos  Position
		want bool
	}{
		{"empty list", Position{Offset: 0, Visible: 20, Total: 0}, false},
		{"top of long list", Position{Offset: 0, Visible: 10, Total: 100}, false},
		{"inside threshold", Position{Offset: 80, Visible: 10, Total: 100}, true},
		{"exact edge", Position{Offset: 75, Visible: 15, Total: 100}, true},
		{"just outside", Position{Offset: 74, Visible: 15, Total: 100}, false},
		{"short list fits", Position{Offset: 0, Visible: 20, Total: 5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pos.NearBottom(10))
		})
	}
}

func TestSentinel_FiresOncePerArrival(t *testing.T) {
	s := New(10)
	bottom := Position{Offset: 85, Visible: 10, Total: 100}

	assert.True(t, s.Observe(bottom, fakeGate(false)))
	assert.False(t, s.Observe(bottom, fakeGate(false)), "repeat observation must not refire")
	assert.False(t, s.Observe(Position{Offset: 86, Visible: 10, Total: 100}, fakeGate(false)))

	// leave and come back
	assert.False(t, s.Observe(Position{Offset: 10, Visible: 10, Total: 100}, fakeGate(false)))
	assert.True(t, s.Observe(bottom, fakeGate(false)))
}

func TestSentinel_SuppressedWhileFetching(t *testing.T) {
	s := New(10)
	bottom := Position{Offset: 85, Visible: 10, Total: 100}

	assert.False(t, s.Observe(bottom, fakeGate(true)))
	// still armed, fires once the fetch settles
	assert.True(t, s.Observe(bottom, fakeGate(false)))
}

func TestSentinel_RearmsWhenListGrows(t *testing.T) {
	s := New(10)
	assert.True(t, s.Observe(Position{Offset: 15, Visible: 10, Total: 20}, fakeGate(false)))
	assert.False(t, s.Observe(Position{Offset: 15, Visible: 10, Total: 20}, fakeGate(false)))

	// page 2 appended while the viewport sat at the bottom
	assert.False(t, s.Observe(Position{Offset: 15, Visible: 10, Total: 40}, fakeGate(false)))
	assert.True(t, s.Observe(Position{Offset: 35, Visible: 10, Total: 40}, fakeGate(false)))
}

func TestSentinel_Reset(t *testing.T) {
	s := New(0)
	assert.Equal(t, DefaultThreshold, s.Threshold)

	bottom := Position{Offset: 0, Visible: 10, Total: 5}
	assert.True(t, s.Observe(bottom, nil))
	assert.False(t, s.Observe(bottom, nil))
	s.Reset()
	assert.True(t, s.Observe(bottom, nil))
}
