package ultrasonic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/banshee-data/path.decider/internal/canbus"
	"github.com/banshee-data/path.decider/internal/timeutil"
)

func TestMessageManager_Parse(t *testing.T) {
	m := NewMessageManager(5)
	fixed := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	m.SetClock(timeutil.NewMockClock(fixed))

	m.Parse(0x301, []byte{0x00, 0x64, 0x00, 0xC8, 0x01, 0x2C, 0x01, 0x90})
	// Only entrance 4 exists in the second block.
	m.Parse(0x302, []byte{0x02, 0x58, 0x03, 0x20})
	// Past the last entrance and below the block: ignored.
	m.Parse(0x303, []byte{0xFF, 0xFF})
	m.Parse(0x300, []byte{0xFF, 0xFF})

	got := m.SensorData()
	assert.Equal(t, []float64{0.1, 0.2, 0.3, 0.4, 0.6}, got.Ranges)
	assert.Equal(t, fixed, got.UpdatedAt)
}

func TestMessageManager_ShortFrame(t *testing.T) {
	m := NewMessageManager(4)
	m.Parse(0x301, []byte{0x03, 0xE8, 0x07})
	assert.Equal(t, []float64{1.0, 0, 0, 0}, m.SensorData().Ranges)

	m.Parse(0x301, nil)
	assert.Equal(t, 1.0, m.SensorData().Ranges[0])
}

func TestMessageManager_SnapshotIsCopy(t *testing.T) {
	m := NewMessageManager(1)
	m.Parse(0x301, []byte{0x00, 0x0A})
	snap := m.SensorData()
	snap.Ranges[0] = 99
	assert.Equal(t, 0.01, m.SensorData().Ranges[0])
}

func TestMessageManager_CanClient(t *testing.T) {
	m := NewMessageManager(1)
	assert.Nil(t, m.CanClient())
	c := canbus.NewFakeClient()
	m.SetCanClient(c)
	assert.Same(t, c, m.CanClient())
}
