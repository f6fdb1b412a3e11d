package arena

import (
	"bufio"
	"bytes"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"laptudirm.com/x/reversi/pkg/board"
)

// Book is an opening book: a list of move sequences like "f4d3c6", one per
// line. Blank lines and lines starting with '#' are ignored.
type Book struct {
	entries  []string
	strategy string
	current  int
}

// NewBook loads the opening book in the given file. The strategy "random"
// picks openings at random; any other strategy plays them in order.
func NewBook(name string, strategy string) (*Book, error) {
	file, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}

	return ParseBook(file, strategy)
}

// ParseBook parses an opening book. Every opening is checked for legality.
func ParseBook(data []byte, strategy string) (*Book, error) {
	book := Book{strategy: strategy}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for line := 1; scanner.Scan(); line++ {
		entry := strings.Trim(scanner.Text(), "\n\r\t ")
		if entry == "" || strings.HasPrefix(entry, "#") {
			continue
		}

		if _, err := OpeningPosition(entry); err != nil {
			return nil, fmt.Errorf("opening book line %d: %w", line, err)
		}

		book.entries = append(book.entries, entry)
	}

	if len(book.entries) == 0 {
		return nil, fmt.Errorf("opening book has no openings")
	}

	if strategy == "random" {
		book.current = rand.Intn(len(book.entries))
	}

	return &book, nil
}

func (book *Book) Next() {
	switch book.strategy {
	case "random":
		book.current = rand.Intn(len(book.entries))
	default:
		book.current = (book.current + 1) % len(book.entries)
	}
}

func (book *Book) Current() string {
	return book.entries[book.current]
}

// OpeningPosition plays the given move sequence from the starting position.
func OpeningPosition(opening string) (board.Position, error) {
	pos := board.Start()

	opening = strings.ReplaceAll(opening, " ", "")
	if len(opening)%2 != 0 {
		return pos, fmt.Errorf("%w: %q", board.ErrBadToken, opening)
	}

	for i := 0; i < len(opening); i += 2 {
		sq, err := board.ParseMoveToken(opening[i : i+2])
		if err != nil {
			return pos, err
		}

		if _, err := pos.Step(sq); err != nil {
			return pos, err
		}
	}

	if pos.Done() {
		return pos, fmt.Errorf("opening %q ends the game", opening)
	}

	return pos, nil
}
