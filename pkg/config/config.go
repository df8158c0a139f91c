// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package config loads gorpn player settings from TOML.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/lassandro/gorpn/pkg/program"
)

// 30 seconds at the classic 8kHz bytebeat rate
const DEFAULT_COUNT = 8000 * 30

var ErrUnknownKey = errors.New("Unknown configuration key")

type Config struct {
	// One of byte, uint32, float32, float32byte
	Output string `toml:"output"`
	// First value of t
	Start int32 `toml:"start"`
	// Number of samples to render
	Count int `toml:"count"`
	// Clear the machine before every sample
	Reset bool `toml:"reset"`
}

func Default() Config {
	return Config{
		Output: "byte",
		Count:  DEFAULT_COUNT,
	}
}

// Parse decodes TOML over the defaults.
func Parse(data string) (*Config, error) {
	result := Default()

	md, err := toml.Decode(data, &result)

	if err != nil {
		return nil, err
	}

	return finish(&result, md)
}

func Load(path string) (*Config, error) {
	result := Default()

	md, err := toml.DecodeFile(path, &result)

	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	cfg, err := finish(&result, md)

	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

func finish(cfg *Config, md toml.MetaData) (*Config, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))

		for i, key := range undecoded {
			keys[i] = key.String()
		}

		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.Count < 0 {
		return fmt.Errorf("count must not be negative: %d", cfg.Count)
	}

	_, err := program.ParseOutput(cfg.Output)
	return err
}

func (cfg *Config) OutputMode() program.Output {
	output, err := program.ParseOutput(cfg.Output)

	if err != nil {
		return program.OUTPUT_BYTE
	}

	return output
}
