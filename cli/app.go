// Package cli contains the substrata command line interface.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	// Flags.
	generalFlagConfig = "config"
	generalFlagDebug  = "debug"

	probeFlagPosition    = "position"
	probeFlagOrigin      = "origin"
	probeFlagDirection   = "direction"
	probeFlagMaxDistance = "max-distance"
	probeFlagTolerance   = "tolerance"

	verifyFlagRays    = "rays"
	verifyFlagSeed    = "seed"
	verifyFlagWorkers = "workers"
)

func newApp() *cli.App {
	return &cli.App{
		Name:            "substrata",
		Usage:           "query a movable ground collision surface",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    generalFlagConfig,
				Aliases: []string{"c"},
				Usage:   "load ground configuration from `FILE`; the stock ground is used when omitted",
			},
			&cli.BoolFlag{
				Name:    generalFlagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "probe",
				Usage:     "move the ground and cast one world space ray against it",
				UsageText: "substrata [global options] probe --origin x,y,z [--direction x,y,z] [--position x,y]",
				Flags: []cli.Flag{
					&cli.Float64SliceFlag{
						Name:  probeFlagPosition,
						Usage: "world `X,Y` to move the ground to before probing",
					},
					&cli.Float64SliceFlag{
						Name:     probeFlagOrigin,
						Required: true,
						Usage:    "world `X,Y,Z` the ray starts from",
					},
					&cli.Float64SliceFlag{
						Name:  probeFlagDirection,
						Value: cli.NewFloat64Slice(0, 0, -1),
						Usage: "world `X,Y,Z` the ray points along",
					},
					&cli.Float64Flag{
						Name:  probeFlagMaxDistance,
						Usage: "stop the ray after this world distance; unbounded when zero",
					},
				},
				Action: ProbeAction,
			},
			{
				Name:      "on-ground",
				Usage:     "report whether a world point touches the ground",
				UsageText: "substrata [global options] on-ground --origin x,y,z [--tolerance t] [--position x,y]",
				Flags: []cli.Flag{
					&cli.Float64SliceFlag{
						Name:  probeFlagPosition,
						Usage: "world `X,Y` to move the ground to before probing",
					},
					&cli.Float64SliceFlag{
						Name:     probeFlagOrigin,
						Required: true,
						Usage:    "world `X,Y,Z` to test",
					},
					&cli.Float64Flag{
						Name:  probeFlagTolerance,
						Value: 0.01,
						Usage: "vertical distance within which the point counts as touching",
					},
				},
				Action: OnGroundAction,
			},
			{
				Name:  "verify",
				Usage: "check the ground index against an exhaustive search with random rays",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  verifyFlagRays,
						Value: 10000,
						Usage: "number of random rays to cast",
					},
					&cli.Int64Flag{
						Name:  verifyFlagSeed,
						Value: 1,
						Usage: "seed for the random rays",
					},
					&cli.IntFlag{
						Name:  verifyFlagWorkers,
						Value: 4,
						Usage: "number of goroutines sharing the index",
					},
				},
				Action: VerifyAction,
			},
			{
				Name:   "schema",
				Usage:  "print the JSON schema of the ground configuration",
				Action: SchemaAction,
			},
		},
	}
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app := newApp()
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
