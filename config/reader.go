package config

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/a8m/envsubst"
	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
)

// Read reads a config from the given file. Environment variables referenced as ${VAR} are
// expanded before the JSON is decoded.
func Read(filePath string) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read config file %q", filePath)
	}
	cfg, err := FromReader(bytes.NewReader(buf))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid config file %q", filePath)
	}
	return cfg, nil
}

// FromReader decodes a config from r. Fields left out of the document keep their default value
// and unknown fields are rejected. The result is validated before it is returned.
func FromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "cannot parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Schema returns the JSON schema of a config document.
func Schema() *jsonschema.Schema {
	return jsonschema.Reflect(&Config{})
}
