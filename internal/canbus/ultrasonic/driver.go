// Package ultrasonic is the ultrasonic radar CAN driver: it loads the card
// configuration, wires a CAN client to the range message manager, and runs
// the receiver.
package ultrasonic

import (
	"context"

	"go.uber.org/multierr"

	"github.com/banshee-data/path.decider/internal/canbus"
	"github.com/banshee-data/path.decider/internal/monitoring"
	"github.com/banshee-data/path.decider/internal/timeutil"
)

// DefaultName is the driver name reported when none is configured.
const DefaultName = "ultrasonic_radar"

// Option configures a Driver.
type Option func(*Driver)

// WithName overrides DefaultName.
func WithName(name string) Option {
	return func(d *Driver) { d.name = name }
}

// WithClientFactory replaces the default CAN client factory.
func WithClientFactory(f *canbus.ClientFactory) Option {
	return func(d *Driver) { d.factory = f }
}

// WithMonitorLogger sets where INFO/ERROR status entries are published.
func WithMonitorLogger(m *monitoring.MonitorLogger) Option {
	return func(d *Driver) { d.monitor = m }
}

// WithClock sets the clock used to stamp ranges and monitor entries.
func WithClock(c timeutil.Clock) Option {
	return func(d *Driver) { d.clock = c }
}

// Driver owns the CAN client, message manager and receiver for one radar.
type Driver struct {
	name    string
	factory *canbus.ClientFactory
	monitor *monitoring.MonitorLogger
	clock   timeutil.Clock

	conf     Config
	client   canbus.Client
	manager  *MessageManager
	receiver canbus.Receiver
}

// NewDriver returns an uninitialized driver.
func NewDriver(opts ...Option) *Driver {
	d := &Driver{name: DefaultName}
	for _, opt := range opts {
		opt(d)
	}
	if d.factory == nil {
		d.factory = canbus.NewDefaultClientFactory()
	}
	if d.clock == nil {
		d.clock = timeutil.RealClock{}
	}
	if d.monitor == nil {
		d.monitor = monitoring.NewMonitorLogger(d.name, 0)
		d.monitor.SetClock(d.clock)
	}
	return d
}

// Name returns the driver name.
func (d *Driver) Name() string { return d.name }

// Config returns the loaded configuration.
func (d *Driver) Config() Config { return d.conf }

// Monitor returns the monitor logger status entries are published to.
func (d *Driver) Monitor() *monitoring.MonitorLogger { return d.monitor }

// Init loads confPath, creates the CAN client, the message manager and
// binds the receiver. Every failure is published and returned as a
// *DriverError.
func (d *Driver) Init(confPath string) error {
	conf, err := LoadConfig(confPath)
	if err != nil {
		monitoring.Logf("%s: %v", d.name, err)
		return d.OnError("Unable to load canbus conf file: " + confPath)
	}
	d.conf = conf
	monitoring.Logf("The canbus conf file is loaded: %s", confPath)
	monitoring.Logf("Canbus conf: %s entrance_num=%d", conf.CANConf.CardParameter, conf.EntranceNum)

	client, err := d.factory.Create(conf.CANConf.CardParameter)
	if err != nil || client == nil {
		if err != nil {
			monitoring.Logf("%s: %v", d.name, err)
		}
		return d.OnError("Failed to create can client.")
	}
	d.client = client
	monitoring.Logf("Can client is successfully created.")

	d.manager = NewMessageManager(conf.EntranceNum)
	d.manager.SetClock(d.clock)
	d.manager.SetCanClient(client)
	monitoring.Logf("Sensor message manager is successfully created.")

	if err := d.receiver.Init(client, d.manager, conf.CANConf.EnableReceiverLog); err != nil {
		monitoring.Logf("%s: %v", d.name, err)
		return d.OnError("Failed to init can receiver.")
	}
	monitoring.Logf("The can receiver is successfully initialized.")
	return nil
}

// Start starts the client, then the receiver, and publishes
// "Canbus is started.".
func (d *Driver) Start(ctx context.Context) error {
	if d.client == nil {
		return d.OnError("Failed to start can client")
	}
	if err := d.client.Start(); err != nil {
		monitoring.Logf("%s: %v", d.name, err)
		return d.OnError("Failed to start can client")
	}
	monitoring.Logf("Can client is started.")

	if err := d.receiver.Start(ctx); err != nil {
		monitoring.Logf("%s: %v", d.name, err)
		return d.OnError("Failed to start can receiver.")
	}
	monitoring.Logf("Can receiver is started.")

	monitoring.NewLogBuffer(d.monitor).Info("Canbus is started.").Publish()
	return nil
}

// Stop stops the receiver and then the client.
func (d *Driver) Stop() error {
	err := d.receiver.Stop()
	if d.client != nil {
		err = multierr.Append(err, d.client.Stop())
	}
	return err
}

// OnError publishes msg as an ERROR entry and returns it as a canbus
// DriverError.
func (d *Driver) OnError(msg string) error {
	monitoring.NewLogBuffer(d.monitor).Error(msg).Publish()
	return &DriverError{Code: ErrorCodeCanbus, Msg: msg}
}

// SensorData returns the latest decoded ranges, or an empty snapshot before
// Init.
func (d *Driver) SensorData() SensorData {
	if d.manager == nil {
		return SensorData{}
	}
	return d.manager.SensorData()
}

// ReceiverRunning reports whether frames are being consumed.
func (d *Driver) ReceiverRunning() bool { return d.receiver.IsRunning() }
