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

// Package oracle implements the move oracle which plays against the human,
// and the repository its models are loaded from.
package oracle

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"laptudirm.com/x/reversi/pkg/board"
)

// DefaultModelFile is the model which is installed as the best model when
// no model exists.
//
//go:embed default.yaml
var DefaultModelFile []byte

var ErrBadModel = errors.New("oracle: malformed model")

// DefaultScale is used for models which don't specify a scale.
const DefaultScale = 100

// Model is a weight table evaluation model.
type Model struct {
	Name string `yaml:"name"`

	// Weights holds the value of owning each square.
	Weights []float64 `yaml:"weights"`
	// Mobility is the value of each legal move the player has over its
	// opponent.
	Mobility float64 `yaml:"mobility"`
	// Scale maps scores into values: value = tanh(score / scale).
	Scale float64 `yaml:"scale,omitempty"`

	// Digest is the hex sha256 of the file the model was loaded from.
	Digest string `yaml:"-"`
}

// ParseModel parses a yaml model file.
func ParseModel(data []byte) (*Model, error) {
	var model Model
	if err := yaml.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadModel, err)
	}

	if len(model.Weights) != board.N {
		return nil, fmt.Errorf("%w: %d weights", ErrBadModel, len(model.Weights))
	}

	if model.Scale <= 0 {
		model.Scale = DefaultScale
	}

	model.Digest = Digest(data)
	return &model, nil
}

// LoadModel loads the model file at the given path.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	model, err := ParseModel(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return model, nil
}

// DefaultModel returns the built-in model.
func DefaultModel() *Model {
	model, err := ParseModel(DefaultModelFile)
	if err != nil {
		panic(err)
	}

	return model
}

// Digest returns the hex sha256 of the given data.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// fileDigest returns the digest of the file at path, or "" if it can't be
// read.
func fileDigest(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	return Digest(data)
}
