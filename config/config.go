// Package config defines how a ground surface is configured and reads that configuration from
// JSON files.
package config

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/JerryBerry12/substrata/logging"
	"github.com/JerryBerry12/substrata/utils"
)

const (
	// DefaultScale is the uniform scale applied to the unit patch.
	DefaultScale = 10.
	// DefaultHeightOffset lifts the surface slightly above z=0 so it does not z-fight with
	// whatever is drawn at the world floor.
	DefaultHeightOffset = .001
)

// Vector is a JSON friendly 3D vector.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// R3 converts the vector for use with the geometry packages.
func (v Vector) R3() r3.Vector {
	return r3.Vector{X: v.X, Y: v.Y, Z: v.Z}
}

// NewVector converts an r3.Vector into a Vector.
func NewVector(v r3.Vector) Vector {
	return Vector{X: v.X, Y: v.Y, Z: v.Z}
}

// Patch describes the subdivision of the unit square the surface is built from.
type Patch struct {
	Cols int `json:"cols" jsonschema:"minimum=1,default=1"`
	Rows int `json:"rows" jsonschema:"minimum=1,default=1"`
}

// Config describes a movable ground surface. Scale and height offset are fixed for the life of
// the surface; only the horizontal position changes after construction.
type Config struct {
	Patch           Patch   `json:"patch"`
	Scale           Vector  `json:"scale"`
	HeightOffset    float64 `json:"height_offset"`
	InitialPosition Vector  `json:"initial_position"`
	LogLevel        string  `json:"log_level,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
}

// Default returns the configuration of the stock ground: one cell, scaled by 10 and sitting a
// millimeter above the origin.
func Default() Config {
	return Config{
		Patch:        Patch{Cols: 1, Rows: 1},
		Scale:        Vector{X: DefaultScale, Y: DefaultScale, Z: DefaultScale},
		HeightOffset: DefaultHeightOffset,
	}
}

// Validate returns every problem with the config combined into one error.
func (c *Config) Validate() error {
	var errs error
	if c.Patch.Cols < 1 {
		errs = multierr.Append(errs, errors.Errorf("patch.cols must be at least 1, got %d", c.Patch.Cols))
	}
	if c.Patch.Rows < 1 {
		errs = multierr.Append(errs, errors.Errorf("patch.rows must be at least 1, got %d", c.Patch.Rows))
	}
	for i, s := range []float64{c.Scale.X, c.Scale.Y, c.Scale.Z} {
		if !utils.IsFinite(s) || s <= 0 {
			errs = multierr.Append(errs, errors.Errorf("scale.%c must be a positive finite number, got %v", "xyz"[i], s))
		}
	}
	if !utils.IsFinite(c.HeightOffset) {
		errs = multierr.Append(errs, errors.Errorf("height_offset must be finite, got %v", c.HeightOffset))
	}
	if !utils.IsFinite(c.InitialPosition.X, c.InitialPosition.Y, c.InitialPosition.Z) {
		errs = multierr.Append(errs, errors.New("initial_position must be finite"))
	}
	if c.LogLevel != "" {
		if _, err := logging.LevelFromString(c.LogLevel); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}
