package ultrasonic

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/banshee-data/path.decider/internal/canbus"
	"github.com/banshee-data/path.decider/internal/timeutil"
)

// BaseFrameID is the id of the frame carrying entrances 0..3; frame
// BaseFrameID+k carries entrances 4k..4k+3.
const BaseFrameID = 0x301

const rangesPerFrame = 4

// SensorData is a snapshot of the latest decoded ranges in metres.
type SensorData struct {
	Ranges    []float64
	UpdatedAt time.Time
}

// MessageManager decodes range frames into per-entrance distances.
type MessageManager struct {
	entranceNum int
	clock       timeutil.Clock

	mu        sync.RWMutex
	client    canbus.Client
	ranges    []float64
	updatedAt time.Time
}

// NewMessageManager returns a manager for entranceNum probes.
func NewMessageManager(entranceNum int) *MessageManager {
	return &MessageManager{
		entranceNum: entranceNum,
		clock:       timeutil.RealClock{},
		ranges:      make([]float64, entranceNum),
	}
}

// SetClock replaces the clock used to stamp updates.
func (m *MessageManager) SetClock(c timeutil.Clock) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = c
}

// SetCanClient attaches the client the radar is reached through.
func (m *MessageManager) SetCanClient(c canbus.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.client = c
}

// CanClient returns the attached client.
func (m *MessageManager) CanClient() canbus.Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.client
}

// Parse implements canbus.MessageManager. Each frame holds up to four
// big-endian uint16 ranges in millimetres; entrances past entranceNum and
// frames outside the range block are ignored.
func (m *MessageManager) Parse(id uint32, data []byte) {
	if id < BaseFrameID {
		return
	}
	first := int(id-BaseFrameID) * rangesPerFrame
	if first >= m.entranceNum {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	updated := false
	for j := 0; j < rangesPerFrame; j++ {
		idx := first + j
		if idx >= m.entranceNum || len(data) < 2*j+2 {
			break
		}
		mm := binary.BigEndian.Uint16(data[2*j:])
		m.ranges[idx] = float64(mm) / 1000.0
		updated = true
	}
	if updated {
		m.updatedAt = m.clock.Now()
	}
}

// SensorData returns a copy of the latest ranges.
func (m *MessageManager) SensorData() SensorData {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return SensorData{
		Ranges:    append([]float64(nil), m.ranges...),
		UpdatedAt: m.updatedAt,
	}
}
