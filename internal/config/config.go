// Package config loads controller settings from an optional YAML file.
// Every field has a default, so a missing file or a partial file is fine.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/headlight-controller/internal/adc"
	"github.com/sweeney/headlight-controller/internal/diag"
	"github.com/sweeney/headlight-controller/internal/gpio"
	"github.com/sweeney/headlight-controller/internal/logic"
	"github.com/sweeney/headlight-controller/internal/mqtt"
)

// Config is the complete controller configuration.
type Config struct {
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	GPIO       GPIOConfig       `yaml:"gpio"`
	ADC        ADCConfig        `yaml:"adc"`
	MQTT       MQTTConfig       `yaml:"mqtt"`
	HTTP       HTTPConfig       `yaml:"http"`
	Diag       DiagConfig       `yaml:"diag"`
}

// ThresholdsConfig holds the decision thresholds. Durations are milliseconds.
type ThresholdsConfig struct {
	TickMs      int64   `yaml:"tick_ms"`
	PotOnMax    float64 `yaml:"pot_on_max"`
	PotOffMin   float64 `yaml:"pot_off_min"`
	DayLightMin float64 `yaml:"day_light_min"`
	DayDwellMs  int64   `yaml:"day_dwell_ms"`
	DuskDwellMs int64   `yaml:"dusk_dwell_ms"`
}

// GPIOConfig selects the chip and line offsets.
type GPIOConfig struct {
	Chip       string `yaml:"chip"`
	Ignition   int    `yaml:"ignition"`
	Driver     int    `yaml:"driver"`
	Indicator  int    `yaml:"indicator"`
	HeadlightL int    `yaml:"headlight_left"`
	HeadlightR int    `yaml:"headlight_right"`
	ActiveLow  bool   `yaml:"active_low"`
}

// ADCConfig configures the SPI converter.
type ADCConfig struct {
	SpeedHz      int   `yaml:"speed_hz"`
	ChipSelect   uint8 `yaml:"chip_select"`
	PotChannel   uint8 `yaml:"pot_channel"`
	LightChannel uint8 `yaml:"light_channel"`
	Smoothing    int   `yaml:"smoothing"` // selector moving average window; the light sensor is read raw
}

// MQTTConfig configures the event publisher.
type MQTTConfig struct {
	Broker      string `yaml:"broker"` // empty disables publishing
	ClientID    string `yaml:"client_id"`
	HeartbeatMs int64  `yaml:"heartbeat_ms"` // 0 disables heartbeats
}

// HTTPConfig configures the status page.
type HTTPConfig struct {
	Addr string `yaml:"addr"` // empty disables the server
}

// DiagConfig configures the diagnostic line output.
type DiagConfig struct {
	Port       string `yaml:"port"` // serial device; empty writes to stdout
	Baud       int    `yaml:"baud"`
	EveryTicks int    `yaml:"every_ticks"` // 0 disables diagnostics
	Queue      int    `yaml:"queue"`
}

// Default returns the stock configuration.
func Default() Config {
	th := logic.DefaultThresholds()
	pins := gpio.DefaultPins()
	return Config{
		Thresholds: ThresholdsConfig{
			TickMs:      th.TickPeriod.Milliseconds(),
			PotOnMax:    th.PotOnMax,
			PotOffMin:   th.PotOffMin,
			DayLightMin: th.DayLightMin,
			DayDwellMs:  th.DayDwell.Milliseconds(),
			DuskDwellMs: th.DuskDwell.Milliseconds(),
		},
		GPIO: GPIOConfig{
			Chip:       pins.Chip,
			Ignition:   pins.Ignition,
			Driver:     pins.Driver,
			Indicator:  pins.Indicator,
			HeadlightL: pins.HeadlightL,
			HeadlightR: pins.HeadlightR,
		},
		ADC: ADCConfig{
			SpeedHz:      adc.DefaultHz,
			PotChannel:   adc.DefaultPotChannel,
			LightChannel: adc.DefaultLightChannel,
			Smoothing:    1,
		},
		MQTT: MQTTConfig{
			ClientID:    mqtt.DefaultClientID,
			HeartbeatMs: 900000,
		},
		HTTP: HTTPConfig{
			Addr: ":80",
		},
		Diag: DiagConfig{
			Baud:       diag.DefaultBaud,
			EveryTicks: 1,
			Queue:      diag.DefaultQueue,
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the controller cannot run with.
func (c Config) Validate() error {
	if err := c.LogicThresholds().Validate(); err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}

	lines := map[int]string{}
	for _, l := range []struct {
		name   string
		offset int
	}{
		{"ignition", c.GPIO.Ignition},
		{"driver", c.GPIO.Driver},
		{"indicator", c.GPIO.Indicator},
		{"headlight_left", c.GPIO.HeadlightL},
		{"headlight_right", c.GPIO.HeadlightR},
	} {
		if l.offset < 0 {
			return fmt.Errorf("gpio %s: negative offset %d", l.name, l.offset)
		}
		if other, ok := lines[l.offset]; ok {
			return fmt.Errorf("gpio %s: offset %d already used by %s", l.name, l.offset, other)
		}
		lines[l.offset] = l.name
	}
	if c.GPIO.Chip == "" {
		return errors.New("gpio chip must be set")
	}

	if c.ADC.PotChannel >= adc.Channels || c.ADC.LightChannel >= adc.Channels {
		return fmt.Errorf("adc channels must be below %d", adc.Channels)
	}
	if c.ADC.PotChannel == c.ADC.LightChannel {
		return fmt.Errorf("adc pot and light share channel %d", c.ADC.PotChannel)
	}
	if c.ADC.SpeedHz <= 0 {
		return errors.New("adc speed_hz must be positive")
	}

	if c.MQTT.HeartbeatMs < 0 {
		return errors.New("mqtt heartbeat_ms must not be negative")
	}
	if c.Diag.EveryTicks < 0 {
		return errors.New("diag every_ticks must not be negative")
	}
	if c.Diag.Baud <= 0 {
		return errors.New("diag baud must be positive")
	}
	return nil
}

// LogicThresholds converts the thresholds section for the decision logic.
func (c Config) LogicThresholds() logic.Thresholds {
	t := c.Thresholds
	return logic.Thresholds{
		PotOnMax:    t.PotOnMax,
		PotOffMin:   t.PotOffMin,
		DayLightMin: t.DayLightMin,
		DayDwell:    time.Duration(t.DayDwellMs) * time.Millisecond,
		DuskDwell:   time.Duration(t.DuskDwellMs) * time.Millisecond,
		TickPeriod:  time.Duration(t.TickMs) * time.Millisecond,
	}
}

// Pins converts the gpio section.
func (c Config) Pins() gpio.Pins {
	return gpio.Pins{
		Chip:       c.GPIO.Chip,
		Ignition:   c.GPIO.Ignition,
		Driver:     c.GPIO.Driver,
		Indicator:  c.GPIO.Indicator,
		HeadlightL: c.GPIO.HeadlightL,
		HeadlightR: c.GPIO.HeadlightR,
		ActiveLow:  c.GPIO.ActiveLow,
	}
}

// Heartbeat returns the heartbeat interval.
func (c Config) Heartbeat() time.Duration {
	return time.Duration(c.MQTT.HeartbeatMs) * time.Millisecond
}
