package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/JerryBerry12/substrata/config"
	"github.com/JerryBerry12/substrata/ground"
	"github.com/JerryBerry12/substrata/logging"
)

// printf prints a message with no prefix.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	printf(w, "%s", out)
	return nil
}

// floatsFlag returns the values of a Float64SliceFlag, which must hold exactly n numbers.
func floatsFlag(cCtx *cli.Context, name string, n int) ([]float64, error) {
	values := cCtx.Float64Slice(name)
	if len(values) != n {
		return nil, errors.Errorf("--%s takes %d comma separated numbers, got %d", name, n, len(values))
	}
	return values, nil
}

func vectorFlag(cCtx *cli.Context, name string) (r3.Vector, error) {
	v, err := floatsFlag(cCtx, name, 3)
	if err != nil {
		return r3.Vector{}, err
	}
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}, nil
}

func positionFlag(cCtx *cli.Context, name string) (r3.Vector, error) {
	v, err := floatsFlag(cCtx, name, 2)
	if err != nil {
		return r3.Vector{}, err
	}
	return r3.Vector{X: v[0], Y: v[1]}, nil
}

func newLogger(cCtx *cli.Context) logging.Logger {
	// Logs go to stderr so stdout stays parseable.
	logger := logging.NewBlankLogger("substrata")
	logger.AddAppender(logging.NewWriterAppender(cCtx.App.ErrWriter))
	if !cCtx.Bool(generalFlagDebug) {
		logger.SetLevel(logging.INFO)
	}
	return logger
}

// loadGround builds the ground from the --config file, or the stock ground, and moves it to
// --position when the command has that flag set.
func loadGround(cCtx *cli.Context) (*ground.Ground, error) {
	logger := newLogger(cCtx)
	cfg := config.Default()
	if path := cCtx.String(generalFlagConfig); path != "" {
		read, err := config.Read(path)
		if err != nil {
			return nil, err
		}
		cfg = *read
		if cfg.LogLevel != "" && !cCtx.Bool(generalFlagDebug) {
			level, err := logging.LevelFromString(cfg.LogLevel)
			if err != nil {
				return nil, err
			}
			logger.SetLevel(level)
		}
	}

	g, err := ground.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	if cCtx.IsSet(probeFlagPosition) {
		pos, err := positionFlag(cCtx, probeFlagPosition)
		if err != nil {
			return nil, err
		}
		if err := g.Reposition(pos); err != nil {
			return nil, err
		}
	}
	return g, nil
}
