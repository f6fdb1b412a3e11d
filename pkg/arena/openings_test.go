package arena

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"laptudirm.com/x/reversi/pkg/board"
	"laptudirm.com/x/reversi/pkg/game"
)

const testBook = `# perpendicular and parallel openings
f4d3
f4f3

f4d3c6
`

func TestParseBook(t *testing.T) {
	book, err := ParseBook([]byte(testBook), "sequential")
	if err != nil {
		t.Fatalf("ParseBook: %v", err)
	}

	for _, want := range []string{"f4d3", "f4f3", "f4d3c6", "f4d3"} {
		if got := book.Current(); got != want {
			t.Errorf("Current() = %q, want %q", got, want)
		}

		book.Next()
	}

	random, err := ParseBook([]byte(testBook), "random")
	if err != nil {
		t.Fatalf("ParseBook: %v", err)
	}

	for i := 0; i < 10; i++ {
		if _, err := OpeningPosition(random.Current()); err != nil {
			t.Errorf("random opening %q: %v", random.Current(), err)
		}

		random.Next()
	}

	for _, data := range []string{"", "# only comments\n", "f4a1\n", "f4d\n"} {
		if _, err := ParseBook([]byte(data), ""); err == nil {
			t.Errorf("ParseBook(%q) accepted a bad book", data)
		}
	}
}

func TestNewBook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openings.txt")
	if _, err := NewBook(path, ""); err == nil {
		t.Fatal("NewBook() of a missing file succeeded")
	}

	if err := os.WriteFile(path, []byte(testBook), 0644); err != nil {
		t.Fatal(err)
	}

	book, err := NewBook(path, "")
	if err != nil || book.Current() != "f4d3" {
		t.Fatalf("NewBook() = %v, %v", book, err)
	}
}

func TestOpeningPosition(t *testing.T) {
	pos, err := OpeningPosition("")
	if err != nil || pos != board.Start() {
		t.Errorf("OpeningPosition(\"\") = %+v, %v", pos, err)
	}

	pos, err = OpeningPosition("f4 d3")
	if err != nil {
		t.Fatalf("OpeningPosition: %v", err)
	}

	if black, white := pos.Count(); black != 3 || white != 3 || pos.Next != board.Black {
		t.Errorf("after f4d3: %d-%d, %s to move", black, white, pos.Next)
	}

	// ranks count from the bottom row, so f5 flips nothing for black
	if _, err := OpeningPosition("f5"); !errors.Is(err, board.ErrIllegalMove) {
		t.Errorf("OpeningPosition(\"f5\") = %v, want %v", err, board.ErrIllegalMove)
	}

	if _, err := OpeningPosition("a1"); !errors.Is(err, board.ErrIllegalMove) {
		t.Errorf("OpeningPosition(\"a1\") = %v, want %v", err, board.ErrIllegalMove)
	}

	if _, err := OpeningPosition("z9"); !errors.Is(err, board.ErrBadToken) {
		t.Errorf("OpeningPosition(\"z9\") = %v, want %v", err, board.ErrBadToken)
	}
}

func TestRunOpenings(t *testing.T) {
	book, err := ParseBook([]byte("f4d3\nf4f3\n"), "")
	if err != nil {
		t.Fatal(err)
	}

	summary, err := Run(context.Background(), Config{
		Games:       4,
		Concurrency: 2,
		NewOracle:   func() game.Oracle { return firstOracle{} },
		NewEngine:   func() game.Engine { return &stubEngine{move: board.Pass} },
		Book:        book,
		Logger:      quietLogger(),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := map[int]string{1: "f4d3", 2: "f4d3", 3: "f4f3", 4: "f4f3"}
	for _, result := range summary.Games {
		if result.Opening != want[result.Number] {
			t.Errorf("game %d opening = %q, want %q", result.Number, result.Opening, want[result.Number])
		}
	}

	if len(summary.Games) != 4 {
		t.Errorf("%d games played, want 4", len(summary.Games))
	}
}
