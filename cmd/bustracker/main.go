package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/chitransit/bustracker"
	"github.com/chitransit/bustracker/config"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Missing .env is fine; the key can come from config.yml or the
	// real environment.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "bustracker",
		Usage: "Query the CTA Bus Tracker API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "config.yml",
				Usage: "path to the configuration file",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log request URLs and timings",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				log.Logger = log.Logger.Level(zerolog.DebugLevel)
			} else {
				log.Logger = log.Logger.Level(zerolog.InfoLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			timeCommand(),
			vehiclesCommand(),
			routesCommand(),
			directionsCommand(),
			stopsCommand(),
			patternsCommand(),
			predictionsCommand(),
			bulletinsCommand(),
			etaCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}

func newClient(c *cli.Context) (*bustracker.Client, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	var opts []bustracker.Option
	if cfg.BaseURL != "" {
		opts = append(opts, bustracker.WithBaseURL(cfg.BaseURL))
	}
	if cfg.TimeoutMS > 0 {
		timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
		opts = append(opts, bustracker.WithTransport(bustracker.NewHTTPTransportWithTimeout(timeout)))
	}
	return bustracker.NewClient(cfg.APIKey, opts...), nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func timeCommand() *cli.Command {
	return &cli.Command{
		Name:  "time",
		Usage: "show the tracker's clock and its skew from this machine",
		Action: func(c *cli.Context) error {
			client, err := newClient(c)
			if err != nil {
				return err
			}
			st, err := client.ServerTime()
			if err != nil {
				return err
			}
			return printJSON(map[string]any{
				"serverTime":  st.Time.Format(time.RFC3339),
				"skew":        st.Skew.String(),
				"skewWarning": st.SkewWarning,
			})
		},
	}
}

func vehiclesCommand() *cli.Command {
	return &cli.Command{
		Name:  "vehicles",
		Usage: "fetch vehicle positions by vehicle id or route",
		Flags: []cli.Flag{
			&cli.IntSliceFlag{Name: "vid", Usage: "vehicle id (repeatable, up to 10)"},
			&cli.StringSliceFlag{Name: "rt", Usage: "route designator (repeatable, up to 10)"},
		},
		Action: func(c *cli.Context) error {
			client, err := newClient(c)
			if err != nil {
				return err
			}
			var vehicles []bustracker.Vehicle
			if routes := c.StringSlice("rt"); len(routes) > 0 {
				vehicles, err = client.VehiclesByRoute(routes...)
			} else {
				vehicles, err = client.VehiclesByID(c.IntSlice("vid")...)
			}
			if err != nil {
				return err
			}
			return printJSON(vehicles)
		},
	}
}

func routesCommand() *cli.Command {
	return &cli.Command{
		Name:  "routes",
		Usage: "list every route",
		Action: func(c *cli.Context) error {
			client, err := newClient(c)
			if err != nil {
				return err
			}
			routes, err := client.Routes()
			if err != nil {
				return err
			}
			return printJSON(routes)
		},
	}
}

func directionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "directions",
		Usage: "list the directions a route runs in",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "rt", Required: true},
		},
		Action: func(c *cli.Context) error {
			client, err := newClient(c)
			if err != nil {
				return err
			}
			directions, err := client.Directions(c.String("rt"))
			if err != nil {
				return err
			}
			return printJSON(directions)
		},
	}
}

func stopsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stops",
		Usage: "list the stops for a route and direction",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "rt", Required: true},
			&cli.StringFlag{Name: "dir", Required: true},
		},
		Action: func(c *cli.Context) error {
			client, err := newClient(c)
			if err != nil {
				return err
			}
			stops, err := client.Stops(c.String("rt"), c.String("dir"))
			if err != nil {
				return err
			}
			return printJSON(stops)
		},
	}
}

func patternsCommand() *cli.Command {
	return &cli.Command{
		Name:  "patterns",
		Usage: "fetch route patterns by pattern id or by route and direction",
		Flags: []cli.Flag{
			&cli.IntSliceFlag{Name: "pid", Usage: "pattern id (repeatable, up to 10)"},
			&cli.StringFlag{Name: "rt"},
			&cli.StringFlag{Name: "dir"},
		},
		Action: func(c *cli.Context) error {
			client, err := newClient(c)
			if err != nil {
				return err
			}
			var patterns []bustracker.Pattern
			if pids := c.IntSlice("pid"); len(pids) > 0 {
				patterns, err = client.PatternsByID(pids...)
			} else {
				patterns, err = client.PatternsByRoute(c.String("rt"), c.String("dir"))
			}
			if err != nil {
				return err
			}
			return printJSON(patterns)
		},
	}
}

func predictionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "predictions",
		Usage: "fetch arrival predictions by stop id or vehicle id",
		Flags: []cli.Flag{
			&cli.IntSliceFlag{Name: "stpid", Usage: "stop id (repeatable, up to 10)"},
			&cli.IntSliceFlag{Name: "vid", Usage: "vehicle id (repeatable, up to 10)"},
		},
		Action: func(c *cli.Context) error {
			client, err := newClient(c)
			if err != nil {
				return err
			}
			var predictions []bustracker.Prediction
			if stpids := c.IntSlice("stpid"); len(stpids) > 0 {
				predictions, err = client.PredictionsByStop(stpids...)
			} else {
				predictions, err = client.PredictionsByVehicle(c.IntSlice("vid")...)
			}
			if err != nil {
				return err
			}
			return printJSON(predictions)
		},
	}
}

func bulletinsCommand() *cli.Command {
	return &cli.Command{
		Name:  "bulletins",
		Usage: "fetch service bulletins by route or stop id",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "rt", Usage: "route designator (repeatable, up to 10)"},
			&cli.IntSliceFlag{Name: "stpid", Usage: "stop id (repeatable, up to 10)"},
		},
		Action: func(c *cli.Context) error {
			client, err := newClient(c)
			if err != nil {
				return err
			}
			var bulletins []bustracker.ServiceBulletin
			if stpids := c.IntSlice("stpid"); len(stpids) > 0 {
				bulletins, err = client.BulletinsByStop(stpids...)
			} else {
				bulletins, err = client.BulletinsByRoute(c.StringSlice("rt")...)
			}
			if err != nil {
				return err
			}
			return printJSON(bulletins)
		},
	}
}

func etaCommand() *cli.Command {
	return &cli.Command{
		Name:  "eta",
		Usage: "show live minutes-to-arrival for a stop, measured against the tracker's clock",
		Flags: []cli.Flag{
			&cli.IntSliceFlag{Name: "stpid", Required: true, Usage: "stop id (repeatable, up to 10)"},
		},
		Action: func(c *cli.Context) error {
			client, err := newClient(c)
			if err != nil {
				return err
			}
			predictions, err := client.PredictionsByStop(c.IntSlice("stpid")...)
			if err != nil {
				return err
			}
			st, err := client.ServerTime()
			if err != nil {
				return err
			}

			type etaEntry struct {
				Route       string `json:"route"`
				Destination string `json:"destination"`
				StopName    string `json:"stopName"`
				VehicleID   int    `json:"vehicleId"`
				Minutes     int    `json:"minutes"`
				Delayed     bool   `json:"delayed"`
			}
			entries := make([]etaEntry, 0, len(predictions))
			for _, p := range predictions {
				entries = append(entries, etaEntry{
					Route:       p.Route,
					Destination: p.Destination,
					StopName:    p.StopName,
					VehicleID:   p.VehicleID,
					Minutes:     bustracker.MinutesToArrival(p, st.Time),
					Delayed:     p.Delayed,
				})
			}
			return printJSON(entries)
		},
	}
}
