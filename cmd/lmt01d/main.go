package main

import (
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/urfave/cli/v2"
	"github.com/womat/debug"

	"github.com/pulseio/lmt01/internal/app"
	"github.com/pulseio/lmt01/internal/app/config"
)

const defaultConfigFile = "/etc/lmt01d/" + app.MODULE + ".yaml"

func main() {
	exitCode := 1
	defer func() {
		os.Exit(exitCode)
	}()

	// cfg holds the application configuration
	cfg := config.NewConfig()

	cliApp := &cli.App{
		Name:    app.MODULE,
		Usage:   "Temperature daemon for the TI LMT01 pulse-count sensor",
		Version: app.VERSION,
		Description: "Read the LMT01 temperature sensor over a GPIO pulse counter and expose the" +
			"\n readings over a small web API and mqtt.",
		UsageText: "lmt01d [--config <file>] [--log error|debug|trace]" +
			"\n\nEXAMPLE:" +
			"\n\tstart the daemon with the configuration file lmt01d.yaml" +
			"\n\t\tlmt01d --config /etc/lmt01d/lmt01d.yaml",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Destination: &cfg.Flag.ConfigFile, Value: defaultConfigFile, Usage: "load configuration from `FILE`"},
			&cli.StringFlag{Name: "log", Aliases: []string{"l"}, Destination: &cfg.Flag.Debug, Value: "standard", Usage: "`LEVEL` defines the log level (fatal|info|warning|error|debug|trace)"},
		},
		Action: func(ctx *cli.Context) error {
			if err := cfg.LoadConfig(); err != nil {
				return err
			}

			debug.SetDebug(cfg.Debug.File, cfg.Debug.Flag)
			defer func() {
				debug.InfoLog.Printf("closing debug file %s", cfg.Debug.FileString)
				_ = cfg.Debug.File.Close()
			}()

			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer func() {
				debug.InfoLog.Printf("closing app %s", app.Version())
				_ = a.Close()
			}()

			debug.InfoLog.Printf("starting app %s", app.Version())
			if err = a.Run(); err != nil {
				return err
			}

			// capture exit signals to ensure resources are released on exit.
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(quit)

			sig := <-quit
			debug.InfoLog.Printf("Got %s signal. Aborting...", sig)

			return nil
		},
	}

	sort.Sort(cli.FlagsByName(cliApp.Flags))
	sort.Sort(cli.CommandsByName(cliApp.Commands))

	if err := cliApp.Run(os.Args); err != nil {
		debug.FatalLog.Print(err)
		exitCode = 1
		return
	}

	exitCode = 0
}
