package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/pulseio/lmt01"
	"github.com/pulseio/lmt01/gpiopulse"
	"github.com/pulseio/lmt01/termstrip"
)

func main() {
	cliApp := &cli.App{
		Name:  "lmt01temp",
		Usage: "read the TI LMT01 temperature sensor on a GPIO pin",
		UsageText: "lmt01temp [--pin NAME] [--mode equation|lut] [--watch] [--interval DURATION]" +
			"\n\nEXAMPLE:" +
			"\n\twatch the sensor on GPIO4 as a terminal thermometer" +
			"\n\t\tlmt01temp --watch",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "pin", Aliases: []string{"p"}, Value: "GPIO4", Usage: "gpio pin `NAME` the sensor output is wired to"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "lut", Usage: "conversion `MODE`, equation or lut"},
			&cli.BoolFlag{Name: "watch", Aliases: []string{"w"}, Usage: "keep reading and show a live thermometer bar"},
			&cli.DurationFlag{Name: "interval", Aliases: []string{"i"}, Value: time.Second, Usage: "`DURATION` between readings with --watch"},
			&cli.BoolFlag{Name: "pulses", Usage: "print the raw pulse count instead of a temperature"},
		},
		Action: run,
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "lmt01temp: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	var mode lmt01.ConversionMode
	switch ctx.String("mode") {
	case "equation":
		mode = lmt01.Equation
	case "lut", "lookup-table":
		mode = lmt01.LookupTable
	default:
		return fmt.Errorf("unknown conversion mode %q", ctx.String("mode"))
	}

	if _, err := host.Init(); err != nil {
		return err
	}

	p := gpioreg.ByName(ctx.String("pin"))
	if p == nil {
		return fmt.Errorf("can't find pin %q", ctx.String("pin"))
	}
	c, err := gpiopulse.New(p)
	if err != nil {
		return err
	}

	d, err := lmt01.New(c, &lmt01.Opts{Mode: mode})
	if err != nil {
		return err
	}
	defer d.Halt()

	if ctx.Bool("pulses") {
		pulses, err := d.ReadPulseCount()
		if err != nil {
			return err
		}
		fmt.Println(pulses)
		return nil
	}

	if !ctx.Bool("watch") {
		e := physic.Env{}
		if err := d.Sense(&e); err != nil {
			return err
		}
		fmt.Printf("%.2f°C\n", e.Temperature.Celsius())
		return nil
	}

	return watch(d, ctx.Duration("interval"))
}

// watch renders readings on a terminal thermometer bar until interrupted.
func watch(d *lmt01.Dev, interval time.Duration) error {
	ch, err := d.SenseContinuous(interval)
	if err != nil {
		return err
	}

	strip := termstrip.New(nil)
	defer strip.Halt()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	for {
		select {
		case <-quit:
			return nil
		case e, ok := <-ch:
			if !ok {
				return nil
			}
			if err := strip.Show(e.Temperature); err != nil {
				return err
			}
		}
	}
}
