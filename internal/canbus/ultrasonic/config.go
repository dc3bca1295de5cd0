package ultrasonic

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/path.decider/internal/canbus"
)

// MaxEntrances is the number of probes the radar controller can report.
const MaxEntrances = 12

// CANConf selects the CAN card and receiver logging.
type CANConf struct {
	CardParameter     canbus.CardParameter `json:"can_card_parameter"`
	EnableReceiverLog bool                 `json:"enable_receiver_log"`
}

// Config is the driver configuration file.
type Config struct {
	CANConf     CANConf `json:"can_conf"`
	EntranceNum int     `json:"entrance_num"`
}

// Validate checks the entrance count and that a card brand is named.
func (c Config) Validate() error {
	if c.EntranceNum < 1 || c.EntranceNum > MaxEntrances {
		return fmt.Errorf("entrance_num must be between 1 and %d, got %d", MaxEntrances, c.EntranceNum)
	}
	if c.CANConf.CardParameter.NormalizedBrand() == "" {
		return fmt.Errorf("can_card_parameter.brand is required")
	}
	return nil
}

// LoadConfig reads and validates a JSON driver configuration.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}
