package canbus

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"go.bug.st/serial"
)

// Port is the part of a serial port the SLCAN client uses.
type Port interface {
	io.ReadWriteCloser
}

// PortOpener opens the serial device at path.
type PortOpener func(path string, mode *serial.Mode) (Port, error)

// OpenSerialPort opens a real serial device with go.bug.st/serial.
func OpenSerialPort(path string, mode *serial.Mode) (Port, error) {
	return serial.Open(path, mode)
}

var slcanBitrates = map[int]string{
	10000:   "S0",
	20000:   "S1",
	50000:   "S2",
	100000:  "S3",
	125000:  "S4",
	250000:  "S5",
	500000:  "S6",
	800000:  "S7",
	1000000: "S8",
}

// SLCANClient talks to a serial-line CAN adapter (Lawicel protocol).
type SLCANClient struct {
	param   CardParameter
	open    PortOpener
	bitrate string
	mode    *serial.Mode

	writeMu sync.Mutex

	mu      sync.Mutex
	port    Port
	frames  chan Frame
	done    chan struct{}
	wg      sync.WaitGroup
	started bool
}

// NewSLCANClient validates p and returns a stopped client. open is used by
// Start to reach the adapter; pass OpenSerialPort for hardware.
func NewSLCANClient(p CardParameter, open PortOpener) (*SLCANClient, error) {
	if p.Port == "" {
		return nil, fmt.Errorf("slcan: serial port path is required")
	}
	if open == nil {
		return nil, fmt.Errorf("slcan: port opener is required")
	}
	bitrate := p.Bitrate
	if bitrate == 0 {
		bitrate = 500000
	}
	code, ok := slcanBitrates[bitrate]
	if !ok {
		return nil, fmt.Errorf("slcan: unsupported bitrate %d", bitrate)
	}
	mode, err := p.Serial.SerialMode()
	if err != nil {
		return nil, fmt.Errorf("slcan: %w", err)
	}
	return &SLCANClient{param: p, open: open, bitrate: code, mode: mode}, nil
}

// Start opens the port, sets the bit rate and opens the CAN channel.
func (c *SLCANClient) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return nil
	}

	port, err := c.open(c.param.Port, c.mode)
	if err != nil {
		return fmt.Errorf("slcan: open %s: %w", c.param.Port, err)
	}
	// Close first in case the adapter was left open by a previous run.
	for _, cmd := range []string{"C", c.bitrate, "O"} {
		if err := c.write(port, cmd); err != nil {
			port.Close()
			return fmt.Errorf("slcan: command %q: %w", cmd, err)
		}
	}

	c.port = port
	c.frames = make(chan Frame, 256)
	c.done = make(chan struct{})
	c.started = true
	c.wg.Add(1)
	go c.readLoop(port, c.frames, c.done)
	diagf("slcan client started on %s (%s)", c.param.Port, c.bitrate)
	return nil
}

// Stop closes the CAN channel and the port and waits for the reader.
func (c *SLCANClient) Stop() error {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return nil
	}
	c.started = false
	close(c.done)
	port := c.port
	c.mu.Unlock()

	werr := c.write(port, "C")
	cerr := port.Close()
	c.wg.Wait()
	diagf("slcan client stopped on %s", c.param.Port)
	if werr != nil {
		return fmt.Errorf("slcan: close channel: %w", werr)
	}
	return cerr
}

// Send writes each frame as a transmit command.
func (c *SLCANClient) Send(frames []Frame) error {
	c.mu.Lock()
	port, started := c.port, c.started
	c.mu.Unlock()
	if !started {
		return ErrClientNotStarted
	}
	for _, f := range frames {
		cmd, err := EncodeSLCAN(f)
		if err != nil {
			return err
		}
		if err := c.write(port, cmd); err != nil {
			return fmt.Errorf("slcan: send %s: %w", f, err)
		}
	}
	return nil
}

// Receive blocks for the next frame and returns it with any others already
// buffered.
func (c *SLCANClient) Receive(ctx context.Context) ([]Frame, error) {
	c.mu.Lock()
	frames, started := c.frames, c.started
	c.mu.Unlock()
	if !started {
		return nil, ErrClientNotStarted
	}

	var batch []Frame
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case f, ok := <-frames:
		if !ok {
			return nil, ErrClientClosed
		}
		batch = append(batch, f)
	}
	for len(batch) < cap(frames) {
		select {
		case f, ok := <-frames:
			if !ok {
				return batch, nil
			}
			batch = append(batch, f)
		default:
			return batch, nil
		}
	}
	return batch, nil
}

func (c *SLCANClient) write(port Port, cmd string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	line := cmd + "\r"
	n, err := port.Write([]byte(line))
	if err != nil {
		return err
	}
	if n != len(line) {
		return io.ErrShortWrite
	}
	return nil
}

func (c *SLCANClient) readLoop(port Port, frames chan<- Frame, done <-chan struct{}) {
	defer c.wg.Done()
	defer close(frames)

	scan := bufio.NewScanner(port)
	scan.Split(splitSLCAN)
	for scan.Scan() {
		line := scan.Text()
		if line == "" || (line[0] != 't' && line[0] != 'T') {
			// command acks ("", "z", "Z") and bell errors
			continue
		}
		f, err := ParseSLCAN(line)
		if err != nil {
			opsf("slcan %s: %v", c.param.Port, err)
			continue
		}
		select {
		case frames <- f:
		case <-done:
			return
		}
	}
	select {
	case <-done:
	default:
		if err := scan.Err(); err != nil {
			opsf("slcan %s: read: %v", c.param.Port, err)
		}
	}
}

// splitSLCAN splits on carriage return or BEL, the SLCAN line terminators.
func splitSLCAN(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\a"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
