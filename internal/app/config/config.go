// Package config loads the lmt01d daemon configuration.
package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/womat/debug"
	"gopkg.in/yaml.v2"

	"github.com/pulseio/lmt01"
)

// Config defines the struct of the global config and of the configuration
// file.
type Config struct {
	// Gpio is the pin the sensor's conditioned output is wired to, e.g.
	// "GPIO4".
	Gpio string `yaml:"gpio"`
	// ConversionString selects the pulse to temperature conversion,
	// "equation" or "lut".
	ConversionString string               `yaml:"conversion"`
	Conversion       lmt01.ConversionMode `yaml:"-"`
	// IntervalInt is the seconds between readings.
	IntervalInt int           `yaml:"interval"`
	Interval    time.Duration `yaml:"-"`
	// History is the number of readings kept for the /chart endpoint.
	History   int             `yaml:"history"`
	Flag      FlagConfig      `yaml:"-"`
	Debug     DebugConfig     `yaml:"debug"`
	Webserver WebserverConfig `yaml:"webserver"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
}

// FlagConfig defines the configured command line flags.
type FlagConfig struct {
	Debug      string
	ConfigFile string
}

// WebserverConfig defines the struct of the webserver configuration.
type WebserverConfig struct {
	URL         string          `yaml:"url"`
	Webservices map[string]bool `yaml:"webservices"`
}

// MQTTConfig defines the struct of the mqtt client configuration.
type MQTTConfig struct {
	Connection string `yaml:"connection"`
	Topic      string `yaml:"topic"`
}

// DebugConfig defines the struct of the debug configuration.
type DebugConfig struct {
	File       io.WriteCloser `yaml:"-"`
	Flag       int            `yaml:"-"`
	FlagString string         `yaml:"flag"`
	FileString string         `yaml:"file"`
}

// NewConfig returns the default configuration.
func NewConfig() *Config {
	return &Config{
		Gpio:             "GPIO4",
		ConversionString: "lut",
		IntervalInt:      10,
		History:          360,
		Flag:             FlagConfig{},
		Debug: DebugConfig{
			FileString: "stderr",
			FlagString: "standard",
		},
		Webserver: WebserverConfig{
			URL: "http://0.0.0.0:4000",
			Webservices: map[string]bool{
				"version": true,
				"health":  true,
				"data":    true,
				"chart":   true,
			},
		},
		MQTT: MQTTConfig{
			Connection: "",
			Topic:      "home/lmt01/temperature",
		},
	}
}

// LoadConfig reads the configuration file and applies the command line
// overrides.
func (c *Config) LoadConfig() error {
	if err := c.readConfigFile(); err != nil {
		return fmt.Errorf("error reading config file %q: %w", c.Flag.ConfigFile, err)
	}

	if c.Flag.Debug != "" {
		c.Debug.FlagString = c.Flag.Debug
	}
	if err := c.setDebugConfig(); err != nil {
		return fmt.Errorf("unable to open debug file %q: %w", c.Debug.FileString, err)
	}

	switch c.ConversionString {
	case "equation":
		c.Conversion = lmt01.Equation
	case "lut", "lookup-table":
		c.Conversion = lmt01.LookupTable
	default:
		return fmt.Errorf("unknown conversion %q", c.ConversionString)
	}

	if c.IntervalInt < 1 {
		return fmt.Errorf("interval must be at least 1s, got %ds", c.IntervalInt)
	}
	c.Interval = time.Duration(c.IntervalInt) * time.Second

	if c.History < 1 {
		c.History = 1
	}

	return nil
}

func (c *Config) readConfigFile() error {
	file, err := os.Open(c.Flag.ConfigFile)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	decoder := yaml.NewDecoder(file)
	if err = decoder.Decode(c); err != nil {
		return err
	}

	return nil
}

func (c *Config) setDebugConfig() (err error) {
	switch c.Debug.FlagString {
	case "trace", "full":
		c.Debug.Flag = debug.Full
	case "debug":
		c.Debug.Flag = debug.Warning | debug.Info | debug.Error | debug.Fatal | debug.Debug
	case "standard":
		c.Debug.Flag = debug.Standard
	}

	switch c.Debug.FileString {
	case "stderr":
		c.Debug.File = os.Stderr
	case "stdout":
		c.Debug.File = os.Stdout
	default:
		if c.Debug.File, err = os.OpenFile(c.Debug.FileString, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666); err != nil {
			return
		}
	}

	return
}
