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

package engine

import (
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultTimePerMove = 1 // seconds
	DefaultSearchDepth = 5

	// The engine has HandshakeAttempts polls of HandshakePollInterval each
	// to acknowledge the protover command.
	HandshakePollInterval = 250 * time.Millisecond
	HandshakeAttempts     = 60

	DefaultHandshakeTimeout = HandshakeAttempts * HandshakePollInterval
	DefaultMoveTimeout      = 30 * time.Second

	// OptionFile is the name of the engine's option file, which is passed
	// to the engine if it is present in the engine's working directory.
	OptionFile = "edax.ini"
)

// DefaultArgs are the arguments which put edax into xboard mode with a
// single search thread.
var DefaultArgs = []string{"-xboard", "-n", "1"}

// Settings contains the configuration of an engine process. The zero value
// of every field other than Path selects its default.
type Settings struct {
	Name string   `yaml:"name"`
	Path string   `yaml:"path"`
	Args []string `yaml:"args"`
	Dir  string   `yaml:"dir"`
	Env  []string `yaml:"env"`

	TimePerMove int  `yaml:"time-per-move"`
	SearchDepth int  `yaml:"search-depth"`
	Debug       bool `yaml:"debug"`

	HandshakeTimeout time.Duration `yaml:"handshake-timeout"`
	MoveTimeout      time.Duration `yaml:"move-timeout"`
}

func (settings Settings) name() string {
	if settings.Name != "" {
		return settings.Name
	}

	return filepath.Base(settings.Path)
}

// dir returns the working directory of the engine, which defaults to the
// directory containing the executable.
func (settings Settings) dir() string {
	if settings.Dir != "" {
		return settings.Dir
	}

	return filepath.Dir(settings.Path)
}

func (settings Settings) arguments() []string {
	args := settings.Args
	if args == nil {
		args = DefaultArgs
	}

	args = append([]string(nil), args...)

	options := filepath.Join(settings.dir(), OptionFile)
	if _, err := os.Stat(options); err == nil {
		args = append(args, "option-file", options)
	}

	return args
}

func (settings Settings) timePerMove() int {
	if settings.TimePerMove > 0 {
		return settings.TimePerMove
	}

	return DefaultTimePerMove
}

func (settings Settings) searchDepth() int {
	if settings.SearchDepth > 0 {
		return settings.SearchDepth
	}

	return DefaultSearchDepth
}

func (settings Settings) handshakeTimeout() time.Duration {
	if settings.HandshakeTimeout > 0 {
		return settings.HandshakeTimeout
	}

	return DefaultHandshakeTimeout
}

func (settings Settings) moveTimeout() time.Duration {
	if settings.MoveTimeout > 0 {
		return settings.MoveTimeout
	}

	return DefaultMoveTimeout
}
