package arena

import (
	"bytes"
	"context"
	"errors"
	"math/bits"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"

	"laptudirm.com/x/reversi/pkg/board"
	"laptudirm.com/x/reversi/pkg/game"
)

func firstMove(own, enemy uint64) board.Square {
	moves := board.LegalMoves(own, enemy)
	if moves == 0 {
		return board.Pass
	}

	return board.Square(bits.TrailingZeros64(moves))
}

type firstOracle struct{}

func (firstOracle) Action(own, enemy uint64) board.Square {
	return firstMove(own, enemy)
}

func (firstOracle) Evaluate(own, enemy uint64) game.HistoryItem {
	return game.HistoryItem{Action: firstMove(own, enemy)}
}

type badOracle struct{ firstOracle }

func (badOracle) Action(uint64, uint64) board.Square {
	return 0
}

// stubEngine plays its first legal move, or fails with err.
type stubEngine struct {
	err     error
	initErr error
	move    board.Square

	shutdowns *atomic.Int32
}

func (stub *stubEngine) Initialize(context.Context) error {
	return stub.initErr
}

func (stub *stubEngine) RequestMove(_ context.Context, mover, opponent uint64) (board.Square, error) {
	if stub.err != nil {
		return board.Pass, stub.err
	}

	if stub.move != board.Pass {
		return stub.move, nil
	}

	return firstMove(mover, opponent), nil
}

func (stub *stubEngine) Shutdown() error {
	if stub.shutdowns != nil {
		stub.shutdowns.Add(1)
	}

	return nil
}

func quietLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logrus.NewEntry(logger)
}

func TestPlay(t *testing.T) {
	for _, color := range []board.Color{board.Black, board.White} {
		result, err := Play(context.Background(), firstOracle{}, &stubEngine{move: board.Pass}, color, "")
		if err != nil {
			t.Fatalf("Play(%s): %v", color, err)
		}

		if result.Oracle != color {
			t.Errorf("Oracle = %v, want %v", result.Oracle, color)
		}

		if result.Black+result.White == 0 {
			t.Fatal("no stones counted")
		}

		oracle, engine := result.Black, result.White
		if color == board.White {
			oracle, engine = engine, oracle
		}

		want := Draw
		switch {
		case oracle > engine:
			want = Win
		case oracle < engine:
			want = Loss
		}

		if result.Result != want {
			t.Errorf("Play(%s) = %v with %d-%d, want %v", color, result.Result, result.Black, result.White, want)
		}
	}
}

func TestPlayForfeit(t *testing.T) {
	tests := []struct {
		name   string
		engine *stubEngine
		color  board.Color
	}{
		{"timeout as white", &stubEngine{err: errors.New("engine: read i/o timeout"), move: board.Pass}, board.Black},
		{"timeout as black", &stubEngine{err: errors.New("engine: read i/o timeout"), move: board.Pass}, board.White},
		{"illegal move", &stubEngine{move: 0}, board.White},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result, err := Play(context.Background(), firstOracle{}, test.engine, test.color, "")
			if err != nil {
				t.Fatalf("Play: %v", err)
			}

			if result.Result != Win || !strings.Contains(result.Reason, "forfeit") {
				t.Errorf("Play() = %v (%s), want a forfeit win", result.Result, result.Reason)
			}
		})
	}
}

func TestPlayErrors(t *testing.T) {
	initErr := errors.New("engine: unavailable")
	if _, err := Play(context.Background(), firstOracle{}, &stubEngine{initErr: initErr}, board.Black, ""); !errors.Is(err, initErr) {
		t.Errorf("Play() with a dead engine = %v, want %v", err, initErr)
	}

	if _, err := Play(context.Background(), badOracle{}, &stubEngine{move: board.Pass}, board.Black, ""); !errors.Is(err, ErrOracleMove) {
		t.Errorf("Play() with an illegal oracle = %v, want %v", err, ErrOracleMove)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := &stubEngine{err: context.Canceled, move: board.Pass}
	if _, err := Play(ctx, firstOracle{}, engine, board.White, ""); !errors.Is(err, context.Canceled) {
		t.Errorf("Play() with a canceled context = %v, want %v", err, context.Canceled)
	}
}

func TestRun(t *testing.T) {
	var engines, shutdowns atomic.Int32
	var reported int

	summary, err := Run(context.Background(), Config{
		Games:       6,
		Concurrency: 3,
		NewOracle:   func() game.Oracle { return firstOracle{} },
		NewEngine: func() game.Engine {
			engines.Add(1)
			return &stubEngine{err: errors.New("engine: read i/o timeout"), move: board.Pass, shutdowns: &shutdowns}
		},
		Logger:   quietLogger(),
		OnResult: func(GameResult) { reported++ },
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Wins != 6 || summary.Draws != 0 || summary.Losses != 0 {
		t.Errorf("Run() = %d/%d/%d, want 6/0/0", summary.Wins, summary.Draws, summary.Losses)
	}

	if engines.Load() != 6 || shutdowns.Load() != 6 {
		t.Errorf("%d engines created, %d shut down, want 6", engines.Load(), shutdowns.Load())
	}

	if reported != 6 || len(summary.Games) != 6 {
		t.Errorf("%d results reported, %d recorded, want 6", reported, len(summary.Games))
	}

	for _, result := range summary.Games {
		want := board.Black
		if result.Number%2 == 0 {
			want = board.White
		}

		if result.Oracle != want {
			t.Errorf("game %d: oracle played %v, want %v", result.Number, result.Oracle, want)
		}
	}
}

func TestRunAborts(t *testing.T) {
	summary, err := Run(context.Background(), Config{
		Games:       4,
		Concurrency: 2,
		NewOracle:   func() game.Oracle { return badOracle{} },
		NewEngine:   func() game.Engine { return &stubEngine{move: board.Pass} },
		Logger:      quietLogger(),
	})

	if !errors.Is(err, ErrOracleMove) {
		t.Fatalf("Run() = %v, want %v", err, ErrOracleMove)
	}

	if summary.Wins+summary.Draws+summary.Losses != 0 {
		t.Errorf("aborted games were counted: %+v", summary)
	}
}

func TestReport(t *testing.T) {
	summary := &Summary{Wins: 3, Draws: 1, Losses: 1}

	var buf bytes.Buffer
	summary.Report(&buf)

	if !strings.Contains(buf.String(), "Wins") || !strings.Contains(buf.String(), "70.0%") {
		t.Errorf("Report() =\n%s", buf.String())
	}
}

func TestResultString(t *testing.T) {
	for result, want := range map[Result]string{
		Win:        "1-0",
		Draw:       "1/2-1/2",
		Loss:       "0-1",
		Result(42): "?-?",
	} {
		if got := result.String(); got != want {
			t.Errorf("Result(%d).String() = %q, want %q", int(result), got, want)
		}
	}
}
