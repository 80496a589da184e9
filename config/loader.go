/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	EnvPrefix     = "ECFDASH_"
	EnvConfigPath = EnvPrefix + "CONFIG"
)

// Load builds a Config by layering, from lowest to highest precedence:
//  1. defaults
//  2. the YAML file named by ECFDASH_CONFIG, if set
//  3. ECFDASH_* environment variables; a double underscore separates
//     nested keys, e.g. ECFDASH_API__BASE_URL -> api.base_url
func Load() (*Config, error) {
	return LoadFile(os.Getenv(EnvConfigPath))
}

// LoadFile is Load with an explicit config file path; an empty path skips
// the file layer.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: reading %v: %w", ErrLoadConfig, path, err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: reading environment: %w", ErrLoadConfig, err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
