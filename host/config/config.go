package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"sidetone/core"
)

// Defaults match the Trinket keyer board
const (
	DefaultDevice   = "/dev/ttyACM0"
	DefaultBaud     = 250000
	DefaultTonePin  = 4
	DefaultToneFreq = 700
	DefaultMinFreq  = 500
	DefaultMaxFreq  = 2000
)

type Config struct {
	Serial SerialConfig `yaml:"serial"`
	Tone   ToneConfig   `yaml:"tone"`
}

type SerialConfig struct {
	Device      string        `yaml:"device"`
	Baud        int           `yaml:"baud"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

type ToneConfig struct {
	Pin     uint32 `yaml:"pin"`
	Freq    uint32 `yaml:"freq"`
	MinFreq uint32 `yaml:"min_freq"`
	MaxFreq uint32 `yaml:"max_freq"`

	// Duration bounds one-shot tones; zero plays until stopped
	Duration time.Duration `yaml:"duration"`
}

// MaxDuration is the longest tone the firmware can time
const MaxDuration = core.MaxToneMS * time.Millisecond

// Default returns the configuration used when no file is given
func Default() Config {
	cfg := Config{
		Tone: ToneConfig{Pin: DefaultTonePin},
	}
	cfg.applyDefaults()
	return cfg
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	// Keys absent from the file keep their defaults; pin 0 is a real pin
	cfg := Default()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Serial.Device == "" {
		c.Serial.Device = DefaultDevice
	}
	if c.Serial.Baud <= 0 {
		c.Serial.Baud = DefaultBaud
	}
	if c.Serial.ReadTimeout <= 0 {
		c.Serial.ReadTimeout = 100 * time.Millisecond
	}
	if c.Tone.MinFreq == 0 {
		c.Tone.MinFreq = DefaultMinFreq
	}
	if c.Tone.MaxFreq == 0 {
		c.Tone.MaxFreq = DefaultMaxFreq
	}
	if c.Tone.Freq == 0 {
		c.Tone.Freq = DefaultToneFreq
	}
}

// Validate checks the sidetone range and that the default frequency lies in it
func (c Config) Validate() error {
	if c.Tone.MinFreq > c.Tone.MaxFreq {
		return fmt.Errorf("tone.min_freq (%d) exceeds tone.max_freq (%d)", c.Tone.MinFreq, c.Tone.MaxFreq)
	}
	if err := c.CheckFreq(c.Tone.Freq); err != nil {
		return fmt.Errorf("tone.freq: %w", err)
	}
	if c.Tone.Duration < 0 {
		return fmt.Errorf("tone.duration must not be negative")
	}
	if c.Tone.Duration > MaxDuration {
		return fmt.Errorf("tone.duration exceeds %v", MaxDuration)
	}
	return nil
}

// CheckDuration reports whether d fits the firmware's tone timer
func CheckDuration(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("negative duration %v", d)
	}
	if d > MaxDuration {
		return fmt.Errorf("duration %v exceeds %v", d, MaxDuration)
	}
	return nil
}

// CheckFreq reports whether hz lies within the configured sidetone range
func (c Config) CheckFreq(hz uint32) error {
	if hz < c.Tone.MinFreq || hz > c.Tone.MaxFreq {
		return fmt.Errorf("%d Hz outside sidetone range %d-%d Hz", hz, c.Tone.MinFreq, c.Tone.MaxFreq)
	}
	return nil
}
