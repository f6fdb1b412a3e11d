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
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"laptudirm.com/x/reversi/pkg/board"
)

// modelFile returns a model file whose weights are all zero except for the
// given squares.
func modelFile(name string, mobility float64, weights map[board.Square]float64) []byte {
	values := make([]string, board.N)
	for sq := range values {
		values[sq] = fmt.Sprint(weights[board.Square(sq)])
	}

	return []byte(fmt.Sprintf("name: %s\nweights: [%s]\nmobility: %v\n",
		name, strings.Join(values, ", "), mobility))
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func newRepository(dir string) *Repository {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return NewRepository(dir, logrus.NewEntry(logger))
}

func generation(dir, name string) string {
	return filepath.Join(dir, NextGenerationDirectory, name, NextGenerationWeightFile)
}

func TestParseModel(t *testing.T) {
	model, err := ParseModel(modelFile("test", 2, map[board.Square]float64{0: 7}))
	if err != nil {
		t.Fatalf("ParseModel: %v", err)
	}

	if model.Name != "test" || model.Weights[0] != 7 || model.Mobility != 2 {
		t.Errorf("ParseModel() = %+v", model)
	}

	if model.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", model.Scale, DefaultScale)
	}

	if len(model.Digest) != 64 {
		t.Errorf("Digest = %q, want a hex sha256", model.Digest)
	}

	for _, data := range []string{
		"name: short\nweights: [1, 2, 3]\n",
		"weights: {",
	} {
		if _, err := ParseModel([]byte(data)); !errors.Is(err, ErrBadModel) {
			t.Errorf("ParseModel(%q) = %v, want %v", data, err, ErrBadModel)
		}
	}
}

func TestDefaultModel(t *testing.T) {
	model := DefaultModel()
	if model.Name != "default" || len(model.Weights) != board.N {
		t.Fatalf("DefaultModel() = %+v", model)
	}

	if model.Weights[0] != 100 || model.Weights[63] != 100 {
		t.Errorf("corner weights = %v, %v", model.Weights[0], model.Weights[63])
	}
}

func TestTryLoadBest(t *testing.T) {
	dir := t.TempDir()
	repo := newRepository(dir)

	if repo.TryLoadBest() {
		t.Fatal("TryLoadBest() = true without a model")
	}

	if repo.Model() != nil {
		t.Fatal("Model() != nil without a model")
	}

	writeFile(t, repo.BestPath(), DefaultModelFile)
	if !repo.TryLoadBest() {
		t.Fatal("TryLoadBest() = false")
	}

	if model := repo.Model(); model == nil || model.Name != "default" {
		t.Errorf("Model() = %+v", model)
	}

	writeFile(t, repo.BestPath(), []byte("name: broken\n"))
	if repo.TryLoadBest() {
		t.Error("TryLoadBest() = true for a broken model")
	}

	if repo.Model().Name != "default" {
		t.Error("broken model replaced the loaded one")
	}
}

func TestTryReloadNewest(t *testing.T) {
	dir := t.TempDir()
	repo := newRepository(dir)

	if repo.TryReloadNewest() {
		t.Fatal("TryReloadNewest() = true without generations")
	}

	writeFile(t, generation(dir, "gen9"), modelFile("gen9", 0, nil))
	writeFile(t, generation(dir, "gen10"), modelFile("gen10", 0, nil))
	writeFile(t, filepath.Join(dir, NextGenerationDirectory, "gen99.txt"), []byte("not a generation"))

	if got := repo.NextGenerations(); len(got) != 2 || got[1] != "gen10" {
		t.Fatalf("NextGenerations() = %v", got)
	}

	if !repo.TryReloadNewest() || repo.Model().Name != "gen10" {
		t.Fatalf("TryReloadNewest() did not load gen10: %+v", repo.Model())
	}

	if repo.TryReloadNewest() {
		t.Error("TryReloadNewest() = true for an unchanged model")
	}

	writeFile(t, generation(dir, "gen10"), modelFile("gen10", 1, nil))
	if !repo.TryReloadNewest() || repo.Model().Mobility != 1 {
		t.Error("TryReloadNewest() did not reload a changed model")
	}

	writeFile(t, generation(dir, "gen11"), modelFile("gen11", 0, nil))
	if !repo.TryReloadNewest() || repo.Model().Name != "gen11" {
		t.Errorf("TryReloadNewest() did not load gen11: %+v", repo.Model())
	}
}

func TestPlayerAction(t *testing.T) {
	tests := []struct {
		name    string
		weights map[board.Square]float64
		own     uint64
		enemy   uint64
		want    board.Square
	}{
		{"d6", map[board.Square]float64{19: 10}, board.StartBlack, board.StartWhite, 19},
		{"f4", map[board.Square]float64{37: 10}, board.StartBlack, board.StartWhite, 37},
		{"tie", nil, board.StartBlack, board.StartWhite, 19},
		{"white", map[board.Square]float64{43: 10}, board.StartWhite, board.StartBlack, 43},
		{"no moves", nil, 1 << 0, 0, board.Pass},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			model, err := ParseModel(modelFile(test.name, 0, test.weights))
			if err != nil {
				t.Fatal(err)
			}

			if got := NewPlayer(model).Action(test.own, test.enemy); got != test.want {
				t.Errorf("Action() = %v, want %v", got, test.want)
			}
		})
	}
}

func TestPlayerEvaluate(t *testing.T) {
	player := NewPlayer(DefaultModel())
	own, enemy := board.StartBlack, board.StartWhite

	item := player.Evaluate(own, enemy)
	if item.Action != player.Action(own, enemy) {
		t.Errorf("Evaluate().Action = %v, want %v", item.Action, player.Action(own, enemy))
	}

	moves := board.LegalMoves(own, enemy)
	if len(item.Values) != 4 {
		t.Errorf("len(Values) = %d, want 4", len(item.Values))
	}

	best := math.Inf(-1)
	for sq, value := range item.Values {
		if moves&sq.Bit() == 0 {
			t.Errorf("value for illegal move %v", sq)
		}

		if value <= -1 || value >= 1 {
			t.Errorf("value of %v = %v, want in (-1, 1)", sq, value)
		}

		best = math.Max(best, value)
	}

	if item.Values[item.Action] != best {
		t.Errorf("action %v is not the best valued move", item.Action)
	}

	if empty := player.Evaluate(1<<0, 0); empty.Action != board.Pass || len(empty.Values) != 0 {
		t.Errorf("Evaluate() without moves = %+v", empty)
	}
}

func TestPlayerGame(t *testing.T) {
	player := NewPlayer(DefaultModel())
	pos := board.Start()

	for moves := 0; !pos.Done(); moves++ {
		if moves > board.N {
			t.Fatal("game did not end")
		}

		if _, err := pos.Step(player.Action(pos.Orient())); err != nil {
			t.Fatalf("move %d: %v", moves, err)
		}
	}
}
