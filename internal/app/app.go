// Package app is where the lmt01d daemon is wired up: sensor polling, web
// services and mqtt publishing.
package app

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/pulseio/lmt01"
	"github.com/pulseio/lmt01/gpiopulse"
	"github.com/pulseio/lmt01/internal/app/config"
	"github.com/pulseio/lmt01/internal/chart"
	"github.com/pulseio/lmt01/internal/mqtt"
)

// Reading is one acquired measurement, as served by /data and published to
// mqtt.
type Reading struct {
	Time    time.Time `json:"time"`
	Pulses  uint32    `json:"pulses"`
	Celsius float64   `json:"celsius"`
}

// App is the main application struct.
type App struct {
	// web is the fiber web framework instance
	web *fiber.App

	// config is the application configuration
	config *config.Config

	// urlParsed contains the parsed Config.Webserver.URL parameter
	urlParsed *url.URL

	// mqtt is the handler to the mqtt broker
	mqtt *mqtt.Handler

	// dev is the handle to the sensor
	dev *lmt01.Dev

	mu      sync.Mutex
	last    Reading
	history []chart.Sample

	// shutdown signals the poll loop to stop
	shutdown chan struct{}
}

// New checks the web server URL and initializes the main app structure.
func New(cfg *config.Config) (*App, error) {
	u, err := url.Parse(cfg.Webserver.URL)
	if err != nil {
		debug.ErrorLog.Printf("Error parsing url %q: %s", cfg.Webserver.URL, err.Error())
		return &App{}, err
	}

	return &App{
		config:    cfg,
		urlParsed: u,
		web:       fiber.New(),
		shutdown:  make(chan struct{}),
	}, nil
}

// Run starts the application.
func (app *App) Run() error {
	if err := app.init(); err != nil {
		return err
	}

	go app.runWebServer()
	go app.poll()

	return nil
}

// init opens the sensor and the mqtt connection and registers the routes.
func (app *App) init() (err error) {
	if _, err = host.Init(); err != nil {
		debug.ErrorLog.Printf("can't init periph host: %v", err)
		return err
	}

	p := gpioreg.ByName(app.config.Gpio)
	if p == nil {
		err = fmt.Errorf("can't find pin %q", app.config.Gpio)
		debug.ErrorLog.Print(err)
		return err
	}

	counter, err := gpiopulse.New(p)
	if err != nil {
		debug.ErrorLog.Printf("can't open pulse counter: %v", err)
		return err
	}

	if app.dev, err = lmt01.New(counter, &lmt01.Opts{Mode: app.config.Conversion}); err != nil {
		debug.ErrorLog.Printf("can't open lmt01: %v", err)
		return err
	}

	if app.mqtt, err = mqtt.New(app.config.MQTT.Connection, app.config.MQTT.Topic); err != nil {
		debug.ErrorLog.Printf("can't open mqtt broker: %v", err)
		return err
	}

	// initDefaultRoutes should always be called last because it may access
	// handlers initialized above.
	app.initDefaultRoutes()

	return nil
}

// poll acquires one reading per interval, records it and publishes it to
// mqtt. It is designed to run in a separate go function, see Run().
func (app *App) poll() {
	ticker := time.NewTicker(app.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-app.shutdown:
			return
		case <-ticker.C:
			pulses, err := app.dev.ReadPulseCount()
			if err != nil {
				debug.ErrorLog.Printf("reading pulse count: %v", err)
				continue
			}
			t, err := lmt01.PulsesToTemperature(pulses, app.config.Conversion)
			if err != nil {
				debug.ErrorLog.Printf("converting %d pulses: %v", pulses, err)
				continue
			}

			r := Reading{Time: time.Now(), Pulses: pulses, Celsius: t.Celsius()}
			debug.DebugLog.Printf("reading: %d pulses, %.2f°C", r.Pulses, r.Celsius)
			app.record(r)

			if payload, err := json.Marshal(r); err == nil {
				app.mqtt.Publish(payload)
			}
		}
	}
}

// record stores the reading as the current one and appends it to the
// history ring.
func (app *App) record(r Reading) {
	app.mu.Lock()
	defer app.mu.Unlock()

	app.last = r
	if len(app.history) == app.config.History {
		copy(app.history, app.history[1:])
		app.history = app.history[:len(app.history)-1]
	}
	app.history = append(app.history, chart.Sample{
		Time:        r.Time,
		Temperature: celsius(r.Celsius),
	})
}

func celsius(c float64) physic.Temperature {
	return physic.ZeroCelsius + physic.Temperature(c*float64(physic.Kelvin))
}

// Close releases the sensor and the mqtt connection.
func (app *App) Close() error {
	close(app.shutdown)

	if app.mqtt != nil {
		_ = app.mqtt.Disconnect()
	}
	if app.dev != nil {
		_ = app.dev.Halt()
	}
	return nil
}
