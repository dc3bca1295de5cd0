// Command ultrasonic-radar runs the ultrasonic radar CAN driver until it is
// interrupted, logging the latest ranges periodically.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/banshee-data/path.decider/internal/canbus"
	"github.com/banshee-data/path.decider/internal/canbus/ultrasonic"
	"github.com/banshee-data/path.decider/internal/monitoring"
	"github.com/banshee-data/path.decider/internal/timeutil"
	"github.com/banshee-data/path.decider/internal/version"
)

var (
	confPath    = flag.String("conf", "config/ultrasonic_radar_conf.json", "Driver configuration file")
	interval    = flag.Duration("interval", 5*time.Second, "How often to log the latest ranges (0 disables)")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("ultrasonic-radar"))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *confPath, *interval, canbus.NewDefaultClientFactory(), timeutil.RealClock{}); err != nil {
		log.Fatalf("ultrasonic-radar: %v", err)
	}
}

// run drives the radar until ctx is done.
func run(ctx context.Context, conf string, every time.Duration, factory *canbus.ClientFactory, clock timeutil.Clock) error {
	d := ultrasonic.NewDriver(ultrasonic.WithClientFactory(factory), ultrasonic.WithClock(clock))
	if err := d.Init(conf); err != nil {
		return err
	}
	if err := d.Start(ctx); err != nil {
		return err
	}
	monitoring.Logf("%s running with %d entrances", d.Name(), d.Config().EntranceNum)

	var tick <-chan time.Time
	if every > 0 {
		t := clock.NewTicker(every)
		defer t.Stop()
		tick = t.C()
	}

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-tick:
			logRanges(d, clock)
		}
	}

	monitoring.Logf("%s stopping", d.Name())
	return d.Stop()
}

func logRanges(d *ultrasonic.Driver, clock timeutil.Clock) {
	data := d.SensorData()
	if data.UpdatedAt.IsZero() {
		monitoring.Logf("no ranges received yet (receiver running=%t)", d.ReceiverRunning())
		return
	}
	parts := make([]string, len(data.Ranges))
	for i, r := range data.Ranges {
		parts[i] = fmt.Sprintf("%.3f", r)
	}
	monitoring.Logf("ranges [%s] m, %s old", strings.Join(parts, " "), clock.Since(data.UpdatedAt).Round(time.Millisecond))
}
