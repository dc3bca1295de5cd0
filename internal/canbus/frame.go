// Package canbus is a thin CAN client boundary: frames, a client factory
// keyed by card brand, a serial-line (SLCAN) client, an in-memory client,
// and the receiver loop that feeds frames to a message manager.
package canbus

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

const (
	// MaxStandardID is the largest 11-bit identifier.
	MaxStandardID = 0x7FF
	// MaxExtendedID is the largest 29-bit identifier.
	MaxExtendedID = 0x1FFFFFFF
	// MaxDataLen is the classic CAN payload limit.
	MaxDataLen = 8
)

// Frame is one classic CAN data frame.
type Frame struct {
	ID       uint32
	Extended bool
	Data     []byte
}

// Validate checks the identifier range and payload length.
func (f Frame) Validate() error {
	if len(f.Data) > MaxDataLen {
		return fmt.Errorf("frame 0x%X: data length %d exceeds %d", f.ID, len(f.Data), MaxDataLen)
	}
	if !f.Extended && f.ID > MaxStandardID {
		return fmt.Errorf("frame 0x%X: standard id exceeds 0x%X", f.ID, MaxStandardID)
	}
	if f.ID > MaxExtendedID {
		return fmt.Errorf("frame 0x%X: id exceeds 0x%X", f.ID, MaxExtendedID)
	}
	return nil
}

func (f Frame) String() string {
	return fmt.Sprintf("0x%03X [%d] % X", f.ID, len(f.Data), f.Data)
}

// EncodeSLCAN renders f as an SLCAN transmit command without the trailing
// carriage return: tIIILDD.. for standard and TIIIIIIIILDD.. for extended ids.
func EncodeSLCAN(f Frame) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}
	var b strings.Builder
	if f.Extended {
		fmt.Fprintf(&b, "T%08X", f.ID)
	} else {
		fmt.Fprintf(&b, "t%03X", f.ID)
	}
	fmt.Fprintf(&b, "%d", len(f.Data))
	b.WriteString(strings.ToUpper(hex.EncodeToString(f.Data)))
	return b.String(), nil
}

// ParseSLCAN decodes one received SLCAN frame line. A trailing carriage
// return is ignored.
func ParseSLCAN(line string) (Frame, error) {
	line = strings.TrimRight(line, "\r")
	if line == "" {
		return Frame{}, fmt.Errorf("empty slcan line")
	}
	var idLen int
	var f Frame
	switch line[0] {
	case 't':
		idLen = 3
	case 'T':
		idLen = 8
		f.Extended = true
	default:
		return Frame{}, fmt.Errorf("unsupported slcan command %q", line[0])
	}
	if len(line) < 1+idLen+1 {
		return Frame{}, fmt.Errorf("slcan line %q too short", line)
	}
	id, err := strconv.ParseUint(line[1:1+idLen], 16, 32)
	if err != nil {
		return Frame{}, fmt.Errorf("slcan line %q: bad id: %w", line, err)
	}
	f.ID = uint32(id)

	dlc := int(line[1+idLen] - '0')
	if dlc < 0 || dlc > MaxDataLen {
		return Frame{}, fmt.Errorf("slcan line %q: bad length", line)
	}
	payload := line[2+idLen:]
	// Some adapters append a 4-digit timestamp after the data.
	if len(payload) < 2*dlc {
		return Frame{}, fmt.Errorf("slcan line %q: want %d data bytes", line, dlc)
	}
	f.Data, err = hex.DecodeString(payload[:2*dlc])
	if err != nil {
		return Frame{}, fmt.Errorf("slcan line %q: bad data: %w", line, err)
	}
	return f, f.Validate()
}
