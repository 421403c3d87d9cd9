// Command headlight-controller polls the vehicle inputs, drives the headlights
// and publishes state changes to MQTT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/headlight-controller/internal/adc"
	"github.com/sweeney/headlight-controller/internal/config"
	"github.com/sweeney/headlight-controller/internal/diag"
	"github.com/sweeney/headlight-controller/internal/gpio"
	"github.com/sweeney/headlight-controller/internal/logic"
	"github.com/sweeney/headlight-controller/internal/mqtt"
	"github.com/sweeney/headlight-controller/internal/sensor"
	"github.com/sweeney/headlight-controller/internal/status"
	"github.com/sweeney/headlight-controller/internal/web"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults if empty)")
	broker := flag.String("broker", "", "MQTT broker address (overrides config, empty disables)")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (overrides config, 0 to disable)")
	httpAddr := flag.String("http", ":80", "HTTP status address (overrides config, empty to disable)")
	diagPort := flag.String("diag-port", "", "Serial device for diagnostic lines (overrides config, empty for stdout)")
	printState := flag.Bool("print-state", false, "Print current inputs and exit")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}

	// Only flags given on the command line replace config values.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "broker":
			cfg.MQTT.Broker = *broker
		case "heartbeat":
			cfg.MQTT.HeartbeatMs = heartbeat.Milliseconds()
		case "http":
			cfg.HTTP.Addr = *httpAddr
		case "diag-port":
			cfg.Diag.Port = *diagPort
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("fatal: %v", err)
	}

	if err := run(cfg, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config.Config, printState bool) error {
	th := cfg.LogicThresholds()

	reader, err := openSensors(cfg)
	if err != nil {
		return err
	}
	defer reader.Close()

	if printState {
		s, err := reader.Read()
		if err != nil {
			return fmt.Errorf("read inputs: %w", err)
		}
		fmt.Println(formatSample(s, th))
		return nil
	}

	act, err := gpio.NewRealActuator(cfg.Pins())
	if err != nil {
		return fmt.Errorf("init outputs: %w", err)
	}
	// Close switches every output off.
	defer act.Close()

	dw, err := openDiag(cfg.Diag)
	if err != nil {
		return err
	}
	if dw != nil {
		defer dw.Close()
	}

	var publisher interface {
		mqtt.Publisher
		mqtt.ConnectionStatus
	} = mqtt.NopPublisher{}
	if cfg.MQTT.Broker != "" {
		publisher = mqtt.NewRealPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID)
	} else {
		log.Printf("mqtt disabled: no broker configured")
	}
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	statusCfg := status.ConfigFromThresholds(th)
	statusCfg.HeartbeatMs = cfg.MQTT.HeartbeatMs
	statusCfg.Broker = cfg.MQTT.Broker
	statusCfg.HTTPAddr = cfg.HTTP.Addr
	statusCfg.DiagPort = cfg.Diag.Port
	tracker := status.NewTracker(time.Now(), statusCfg)
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP.Addr)
	}

	log.Printf("started: tick=%v pot=[%.2f,%.2f] day>%.2f dwell day=%v dusk=%v broker=%q heartbeat=%v",
		th.TickPeriod, th.PotOnMax, th.PotOffMin, th.DayLightMin, th.DayDwell, th.DuskDwell, cfg.MQTT.Broker, cfg.Heartbeat())

	ticker := time.NewTicker(th.TickPeriod)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(loopDeps{
		reader:     reader,
		actuator:   act,
		diag:       dw,
		diagEvery:  cfg.Diag.EveryTicks,
		publisher:  publisher,
		mqttStatus: publisher,
		tracker:    tracker,
		thresholds: th,
		heartbeat:  cfg.Heartbeat(),
		now:        time.Now,
	}, ticker.C, sigCh)
}

// openSensors opens the GPIO inputs and the converter and combines them.
func openSensors(cfg config.Config) (sensor.Reader, error) {
	digital, err := gpio.NewRealReader(cfg.Pins())
	if err != nil {
		return nil, fmt.Errorf("init gpio: %w", err)
	}
	analog, err := adc.NewMCP3008(cfg.ADC.SpeedHz, cfg.ADC.ChipSelect)
	if err != nil {
		digital.Close()
		return nil, fmt.Errorf("init adc: %w", err)
	}
	return sensor.NewBoardReader(digital, analog, sensor.Channels{
		Pot:       cfg.ADC.PotChannel,
		Light:     cfg.ADC.LightChannel,
		Smoothing: cfg.ADC.Smoothing,
	}), nil
}

// openDiag returns nil when diagnostics are disabled.
func openDiag(c config.DiagConfig) (*diag.Writer, error) {
	if c.EveryTicks == 0 {
		return nil, nil
	}
	if c.Port == "" {
		// Hide Close so the writer never closes stdout.
		return diag.NewWriter(struct{ io.Writer }{os.Stdout}, c.Queue), nil
	}
	port, err := diag.OpenSerial(c.Port, c.Baud)
	if err != nil {
		return nil, err
	}
	log.Printf("diagnostics on %s at %d baud", c.Port, c.Baud)
	return diag.NewWriter(port, c.Queue), nil
}

type loopDeps struct {
	reader     sensor.Reader
	actuator   gpio.Actuator
	diag       *diag.Writer // nil disables
	diagEvery  int
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	thresholds logic.Thresholds
	heartbeat  time.Duration
	now        func() time.Time
}

func runLoop(d loopDeps, tick <-chan time.Time, sig <-chan os.Signal) error {
	controller := logic.NewController(d.thresholds, d.now())
	var ticks int

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: d.now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if d.tracker != nil {
				if d.mqttStatus != nil {
					d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
				}
				snap := d.tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := d.publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			t := d.now()
			s, err := d.reader.Read()
			if err != nil {
				// Outputs hold their last value.
				log.Printf("input read error: %v", err)
				if d.tracker != nil {
					d.tracker.RecordReadError()
				}
				continue
			}

			out, events := controller.Step(logic.Input{
				Ignition: s.Ignition,
				Driver:   s.Driver,
				Pot:      s.Pot,
				Ambient:  s.Ambient,
				Time:     t,
			})
			ticks++

			if err := d.actuator.SetIgnitionIndicator(out.IgnitionIndicator); err != nil {
				log.Printf("indicator write error: %v", err)
			}
			if err := d.actuator.SetHeadlights(out.Headlight); err != nil {
				log.Printf("headlight write error: %v", err)
			}

			if d.diag != nil && d.diagEvery > 0 && ticks%d.diagEvery == 0 {
				d.diag.Pot(out.Pot)
			}

			for _, event := range events {
				log.Printf("event: %s (engine=%s mode=%s headlight=%s)",
					event.Type, mqtt.EngineString(event.Running), event.Mode, mqtt.OnOff(event.Headlight))
				if err := d.publisher.Publish(event); err != nil {
					log.Printf("publish error: %v", err)
				}
			}

			if d.tracker != nil {
				d.tracker.Update(out, controller.HysteresisState(), controller.EventCountsSnapshot())
				if d.mqttStatus != nil {
					d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
				}
			}

			if hbData := controller.CheckHeartbeat(t, d.heartbeat); hbData != nil {
				log.Printf("heartbeat: uptime=%v engine_start=%d engine_stop=%d headlight_on=%d headlight_off=%d mode_change=%d",
					hbData.Uptime, hbData.Counts.EngineStart, hbData.Counts.EngineStop,
					hbData.Counts.HeadlightOn, hbData.Counts.HeadlightOff, hbData.Counts.ModeChange)

				hbEvent := mqtt.SystemEvent{
					Timestamp: hbData.Timestamp,
					Event:     "HEARTBEAT",
				}
				if d.tracker != nil {
					// Refresh network info for heartbeat
					if net := readNetworkInfo(); net != nil {
						d.tracker.SetNetwork(net)
					}
					snap := d.tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
				}
				if err := d.publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

// formatSample renders one reading for --print-state.
func formatSample(s sensor.Sample, th logic.Thresholds) string {
	return fmt.Sprintf("Ignition: %s, Driver: %s, Pot: %.2f (%s), Ambient: %.2f (%s)",
		mqtt.OnOff(s.Ignition), mqtt.OnOff(s.Driver),
		logic.Clamp(s.Pot), logic.Classify(s.Pot, th),
		logic.Clamp(s.Ambient), lightString(s.Ambient, th))
}

func lightString(ambient float64, th logic.Thresholds) string {
	if logic.Clamp(ambient) > th.DayLightMin {
		return "DAY"
	}
	return "DUSK"
}
