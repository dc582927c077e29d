package config

import (
	"bytes"
	"io"
	"os"

	"gopkg.in/yaml.v3"
	"tlog.app/go/errors"
)

type (
	Config struct {
		// Strict fails on unrecognized characters instead of dropping them.
		Strict bool `yaml:"strict"`

		// CheckScope rejects identifiers used before declaration.
		CheckScope bool `yaml:"check_scope"`

		// Predeclared names are visible from the very beginning.
		Predeclared []string `yaml:"predeclared"`

		// Verbosity is a tlog topics filter.
		Verbosity string `yaml:"verbosity"`
	}
)

func Default() Config {
	return Config{
		Strict:     true,
		CheckScope: true,
	}
}

// Load reads yaml file over the Default config.
func Load(name string) (c Config, err error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return c, errors.Wrap(err, "read file")
	}

	return Parse(data)
}

func Parse(data []byte) (c Config, err error) {
	c = Default()

	d := yaml.NewDecoder(bytes.NewReader(data))
	d.KnownFields(true)

	err = d.Decode(&c)
	if errors.Is(err, io.EOF) {
		return c, nil
	}
	if err != nil {
		return c, errors.Wrap(err, "decode yaml")
	}

	return c, nil
}
