// Copyright © 2024 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"laptudirm.com/x/reversi/pkg/engine"
)

// Config is the configuration file of the reversi commands.
type Config struct {
	Engine engine.Settings `yaml:"engine"`

	Models struct {
		Directory string `yaml:"directory"`
		UseNewest bool   `yaml:"use-newest"`
	} `yaml:"models"`

	Arena struct {
		Games       int `yaml:"games"`
		Concurrency int `yaml:"concurrency"`

		// Openings is an opening book file, played in the given Order.
		Openings string `yaml:"openings"`
		Order    string `yaml:"order"`
	} `yaml:"arena"`
}

// ModelDirectory returns the configured model directory, which defaults to
// the data directory's models directory.
func (config *Config) ModelDirectory() string {
	if config.Models.Directory != "" {
		return config.Models.Directory
	}

	return ModelDirectory
}

// ParseConfig parses a configuration file. Missing fields take the value
// they have in the base configuration.
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(BaseConfigFile, &config); err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadConfig loads the configuration file at the given path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return config, nil
}
