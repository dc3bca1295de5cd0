package canbus

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrClientNotStarted is returned by Send and Receive before Start.
	ErrClientNotStarted = errors.New("can client not started")
	// ErrClientClosed is returned by Receive once the client is stopped.
	ErrClientClosed = errors.New("can client closed")
)

// Brand names accepted in CardParameter.Brand.
const (
	BrandFake  = "FAKE"
	BrandSLCAN = "SLCAN"
)

// Client is a CAN card. Receive blocks until at least one frame arrives, the
// context ends, or the client stops.
type Client interface {
	Start() error
	Stop() error
	Send(frames []Frame) error
	Receive(ctx context.Context) ([]Frame, error)
}

// CardParameter selects and configures a CAN card.
type CardParameter struct {
	Brand     string `json:"brand"`
	Type      string `json:"type,omitempty"`
	ChannelID int    `json:"channel_id,omitempty"`
	Interface string `json:"interface,omitempty"`
	// Port is the serial device path for SLCAN adapters.
	Port string `json:"port,omitempty"`
	// Bitrate is the CAN bus bit rate in bits/s; 0 means 500000.
	Bitrate int `json:"bitrate,omitempty"`
	// Serial holds the adapter's serial line settings.
	Serial PortOptions `json:"serial"`
}

// NormalizedBrand returns Brand upper-cased and trimmed.
func (p CardParameter) NormalizedBrand() string {
	return strings.ToUpper(strings.TrimSpace(p.Brand))
}

func (p CardParameter) String() string {
	return fmt.Sprintf("brand=%s type=%s channel=%d interface=%s port=%s bitrate=%d",
		p.NormalizedBrand(), p.Type, p.ChannelID, p.Interface, p.Port, p.Bitrate)
}
