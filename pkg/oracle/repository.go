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

package oracle

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"laptudirm.com/x/reversi/pkg/internal/util"
)

const (
	BestWeightFile = "model_best_weight.yaml"

	NextGenerationDirectory  = "next_generation"
	NextGenerationWeightFile = "model_weight.yaml"
)

// Repository loads models from a model directory, which contains the best
// model and a next_generation directory with one directory per generation.
// Generations are ordered by the natural order of their names.
type Repository struct {
	dir string
	log *logrus.Entry

	mu    sync.Mutex
	model *Model
}

func NewRepository(dir string, logger *logrus.Entry) *Repository {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Repository{
		dir: dir,
		log: logger.WithField("models", dir),
	}
}

// Model returns the loaded model, or nil if none has been loaded.
func (repo *Repository) Model() *Model {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return repo.model
}

func (repo *Repository) BestPath() string {
	return filepath.Join(repo.dir, BestWeightFile)
}

// TryLoadBest loads the best model, and reports whether it was loaded.
func (repo *Repository) TryLoadBest() bool {
	return repo.load(repo.BestPath())
}

// TryReloadNewest loads the model of the newest generation if it differs
// from the loaded model, and reports whether it was loaded.
func (repo *Repository) TryReloadNewest() bool {
	generations := repo.NextGenerations()
	if len(generations) == 0 {
		repo.log.Debug("No next generation model exists")
		return false
	}

	newest := generations[len(generations)-1]
	path := filepath.Join(repo.dir, NextGenerationDirectory, newest, NextGenerationWeightFile)

	digest := fileDigest(path)
	if model := repo.Model(); model != nil && model.Digest == digest {
		repo.log.Debug("The newest model is not changed")
		return false
	}

	repo.log.Debugf("Loading weight from %s", newest)
	return repo.load(path)
}

// NextGenerations returns the names of the next generation directories in
// natural order.
func (repo *Repository) NextGenerations() []string {
	entries, err := os.ReadDir(filepath.Join(repo.dir, NextGenerationDirectory))
	if err != nil {
		return nil
	}

	var generations []string
	for _, entry := range entries {
		if entry.IsDir() {
			generations = append(generations, entry.Name())
		}
	}

	util.SortAlphanum(generations)
	return generations
}

func (repo *Repository) load(path string) bool {
	model, err := LoadModel(path)
	if err != nil {
		repo.log.WithError(err).Debug("Loading model failed")
		return false
	}

	repo.mu.Lock()
	repo.model = model
	repo.mu.Unlock()

	repo.log.WithField("digest", model.Digest[:12]).Infof("Loaded model %q", model.Name)
	return true
}
