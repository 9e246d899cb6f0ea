package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pulseio/lmt01"
)

const testYaml = `gpio: GPIO17
conversion: equation
interval: 5
history: 42
debug:
  flag: debug
  file: stderr
webserver:
  url: http://0.0.0.0:8080
  webservices:
    version: true
    health: false
    data: true
    chart: true
mqtt:
  connection: tcp://127.0.0.1:1883
  topic: cellar/temperature
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	f := filepath.Join(t.TempDir(), "lmt01d.yaml")
	if err := os.WriteFile(f, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return f
}

func TestLoadConfig(t *testing.T) {
	cfg := NewConfig()
	cfg.Flag.ConfigFile = writeConfig(t, testYaml)

	if err := cfg.LoadConfig(); err != nil {
		t.Fatal(err)
	}
	if cfg.Gpio != "GPIO17" {
		t.Errorf("Gpio = %q", cfg.Gpio)
	}
	if cfg.Conversion != lmt01.Equation {
		t.Errorf("Conversion = %v", cfg.Conversion)
	}
	if cfg.Interval != 5*time.Second {
		t.Errorf("Interval = %v", cfg.Interval)
	}
	if cfg.History != 42 {
		t.Errorf("History = %d", cfg.History)
	}
	if cfg.Webserver.Webservices["health"] {
		t.Error("health webservice not disabled")
	}
	if cfg.MQTT.Topic != "cellar/temperature" {
		t.Errorf("MQTT.Topic = %q", cfg.MQTT.Topic)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	cfg.Flag.ConfigFile = writeConfig(t, "gpio: GPIO4\n")

	if err := cfg.LoadConfig(); err != nil {
		t.Fatal(err)
	}
	if cfg.Conversion != lmt01.LookupTable {
		t.Errorf("Conversion = %v, want lookup table default", cfg.Conversion)
	}
	if cfg.Interval != 10*time.Second {
		t.Errorf("Interval = %v", cfg.Interval)
	}
}

func TestLoadConfigBadConversion(t *testing.T) {
	cfg := NewConfig()
	cfg.Flag.ConfigFile = writeConfig(t, "conversion: thermodynamics\n")

	if err := cfg.LoadConfig(); err == nil {
		t.Fatal("LoadConfig accepted an unknown conversion")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg := NewConfig()
	cfg.Flag.ConfigFile = filepath.Join(t.TempDir(), "nope.yaml")

	if err := cfg.LoadConfig(); err == nil {
		t.Fatal("LoadConfig succeeded with a missing file")
	}
}
