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

// Package common contains the on-disk state shared by the reversi commands:
// the data directory, the configuration file, and the model directory.
package common

import (
	_ "embed"
	"path/filepath"

	"github.com/adrg/xdg"

	"laptudirm.com/x/reversi/pkg/oracle"
)

//go:embed config.yaml
var BaseConfigFile []byte

var (
	Directory = filepath.Join(xdg.DataHome, "reversi")

	ConfigFile     = filepath.Join(Directory, "config.yaml")
	ModelDirectory = filepath.Join(Directory, "models")
)

// Setup creates the data directory, and the configuration file and best
// model if they are missing.
func Setup() {
	TryMkdir(Directory)
	TryMkdir(ModelDirectory)
	TryMkdir(filepath.Join(ModelDirectory, oracle.NextGenerationDirectory))

	TryCreate(ConfigFile, BaseConfigFile)
	TryCreate(filepath.Join(ModelDirectory, oracle.BestWeightFile), oracle.DefaultModelFile)
}
