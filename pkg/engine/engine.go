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

// Package engine implements a client for reversi engines, like edax, which
// speak the xboard protocol over their standard input and output.
package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"laptudirm.com/x/reversi/pkg/board"
)

var (
	// ErrEngineUnavailable is returned when the engine's executable is
	// missing or can't be started, or when the process exits on startup.
	ErrEngineUnavailable = errors.New("engine: unavailable")

	// ErrHandshakeTimeout is returned when a started engine doesn't
	// acknowledge the protocol version in time.
	ErrHandshakeTimeout = errors.New("engine: handshake timeout")

	// ErrEngineTimeout is returned when a move request runs out of time.
	ErrEngineTimeout = errors.New("engine: read i/o timeout")

	// ErrNotActive is returned by requests made while the client isn't in
	// the Active state.
	ErrNotActive = errors.New("engine: not active")

	// ErrClosed is returned by operations cut short by Shutdown.
	ErrClosed = errors.New("engine: closed")

	// ErrNotStarted and ErrProcessDead classify failed writes to the engine.
	ErrNotStarted  = errors.New("engine: process not started")
	ErrProcessDead = errors.New("engine: process is dead")
)

var (
	featurePattern = regexp.MustCompile(`^feature\s`)
	movePattern    = regexp.MustCompile(`^move\s*:?\s*(\S+)`)
)

// pendingLines is the number of output lines buffered between the reader
// and the requester.
const pendingLines = 256

// Client is a client for a single engine process. A Client starts in the
// Uninitialized state, and its process is started by Initialize. A Client
// serves move requests only while it is Active.
type Client struct {
	settings Settings
	log      *logrus.Entry

	state atomic.Int32

	// mu guards the process and its input
	mu     sync.Mutex
	cmd    *exec.Cmd
	writer *bufio.Writer

	features map[string]string

	// lines is the hand-off between the reader and requests
	lines      chan string
	readerDone chan struct{}
	closed     chan struct{}
	closeOnce  sync.Once

	// requests are served one at a time
	request sync.Mutex
}

// New creates a new Client with the given settings. The logger may be nil,
// in which case the standard logger is used.
func New(settings Settings, logger *logrus.Entry) *Client {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Client{
		settings: settings,
		log:      logger.WithField("engine", settings.name()),

		features: make(map[string]string),

		lines:      make(chan string, pendingLines),
		readerDone: make(chan struct{}),
		closed:     make(chan struct{}),
	}
}

// State returns the current lifecycle state of the engine.
func (client *Client) State() State {
	return State(client.state.Load())
}

// Settings returns the settings the client was created with.
func (client *Client) Settings() Settings {
	return client.settings
}

// Features returns the features announced by the engine so far.
func (client *Client) Features() map[string]string {
	client.mu.Lock()
	defer client.mu.Unlock()

	features := make(map[string]string, len(client.features))
	for name, value := range client.features {
		features[name] = value
	}

	return features
}

func (client *Client) transition(from, to State) bool {
	return client.state.CompareAndSwap(int32(from), int32(to))
}

// Initialize starts the engine process and performs the protocol handshake.
// An unavailable engine is a normal outcome, reported by an error matching
// ErrEngineUnavailable or ErrHandshakeTimeout, after which the Client is in
// the Failed state.
func (client *Client) Initialize(ctx context.Context) error {
	if !client.transition(Uninitialized, Starting) {
		if client.State() == Closed {
			return ErrClosed
		}

		return fmt.Errorf("engine: initialize in state %s", client.State())
	}

	client.log.WithFields(logrus.Fields{
		"path": client.settings.Path,
		"dir":  client.settings.dir(),
	}).Debug("Initialising engine")

	if err := client.start(); err != nil {
		client.fail()
		return err
	}

	if !client.transition(Starting, Handshaking) {
		return ErrClosed
	}

	if err := client.handshake(ctx); err != nil {
		client.fail()
		return err
	}

	client.command("variant reversi")
	client.command("setboard %s", board.EncodePosition(board.StartBlack, board.StartWhite))
	client.command("st %d", client.settings.timePerMove())
	client.command("sd %d", client.settings.searchDepth())

	if !client.transition(Handshaking, Active) {
		return ErrClosed
	}

	client.log.Debug("Engine is active")
	return nil
}

func (client *Client) start() error {
	path := client.settings.Path
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrEngineUnavailable, path)
	}

	process := exec.Command(path, client.settings.arguments()...)
	process.Dir = client.settings.dir()

	if len(client.settings.Env) > 0 {
		process.Env = append(os.Environ(), client.settings.Env...)
	}

	if client.settings.Debug {
		process.Stderr = os.Stderr
	}

	stdin, err := process.StdinPipe()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}

	stdout, err := process.StdoutPipe()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}

	if err := process.Start(); err != nil {
		return fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}

	client.mu.Lock()
	select {
	case <-client.closed:
		// shut down while the process was starting
		client.mu.Unlock()
		_ = process.Process.Kill()
		_ = process.Wait()
		return ErrClosed
	default:
	}

	client.cmd = process
	client.writer = bufio.NewWriter(stdin)
	client.mu.Unlock()

	go client.read(bufio.NewReader(stdout))
	return nil
}

// read is the engine's only reader. It hands every line of output to the
// requests, and stops at the end of the output or on an i/o error.
func (client *Client) read(reader *bufio.Reader) {
	defer close(client.readerDone)

	for {
		line, err := reader.ReadString('\n')

		if line = strings.Trim(line, " \n\t\r"); line != "" {
			client.trace("(%s)> %s", client.settings.name(), line)

			select {
			case client.lines <- line:
			case <-client.closed:
				// nobody is listening anymore
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				client.log.Debug("EOF reached in engine output")
			} else {
				client.log.WithError(err).Warn("Engine output reader stopped")
			}

			break
		}
	}

	if err := client.cmd.Wait(); err != nil {
		client.log.WithError(err).Debug("Engine process exited")
	}
}

func (client *Client) handshake(ctx context.Context) error {
	client.command("protover 2")

	timeout := client.settings.handshakeTimeout()
	line, err := client.await(ctx, featurePattern, timeout)
	switch {
	case err == nil:
	case errors.Is(err, ErrProcessDead):
		return fmt.Errorf("%w: process exited during handshake", ErrEngineUnavailable)
	case errors.Is(err, ErrEngineTimeout):
		return fmt.Errorf("%w: no response within %s", ErrHandshakeTimeout, timeout)
	default:
		return err
	}

	client.addFeatures(line)
	return nil
}

func (client *Client) addFeatures(line string) {
	client.mu.Lock()
	defer client.mu.Unlock()

	for name, value := range parseFeatures(line) {
		client.log.WithField(name, value).Trace("Engine feature")
		client.features[name] = value
	}
}

// RequestMove sends the given position to the engine and returns the move
// it chooses for the mover. The bitboards have to be oriented as (mover,
// opponent), since the notation always puts the 'p' stones to move.
func (client *Client) RequestMove(ctx context.Context, mover, opponent uint64) (board.Square, error) {
	client.request.Lock()
	defer client.request.Unlock()

	if state := client.State(); state != Active {
		return board.Pass, fmt.Errorf("%w: %s", ErrNotActive, state)
	}

	client.drain()
	client.command("setboard %s", board.EncodePosition(mover, opponent))
	client.command("st %d", client.settings.timePerMove())
	client.command("sd %d", client.settings.searchDepth())
	client.command("go")

	return client.retrieve(ctx)
}

// SendOpponentMove tells the engine that its opponent played on (x, y) and
// returns the engine's reply.
func (client *Client) SendOpponentMove(ctx context.Context, x, y int) (board.Square, error) {
	sq := board.CoordToSquareIndex(x, y)
	if !sq.Valid() {
		return board.Pass, fmt.Errorf("engine: opponent move (%d, %d) is off the board", x, y)
	}

	client.request.Lock()
	defer client.request.Unlock()

	if state := client.State(); state != Active {
		return board.Pass, fmt.Errorf("%w: %s", ErrNotActive, state)
	}

	client.drain()
	client.command("usermove %s", board.MoveToken(sq))
	return client.retrieve(ctx)
}

// RequestOpeningMove asks the engine to make the first move of the game.
func (client *Client) RequestOpeningMove(ctx context.Context) (board.Square, error) {
	return client.requestGo(ctx)
}

// RequestAfterPass asks the engine to move after its opponent passed.
func (client *Client) RequestAfterPass(ctx context.Context) (board.Square, error) {
	return client.requestGo(ctx)
}

func (client *Client) requestGo(ctx context.Context) (board.Square, error) {
	client.request.Lock()
	defer client.request.Unlock()

	if state := client.State(); state != Active {
		return board.Pass, fmt.Errorf("%w: %s", ErrNotActive, state)
	}

	client.drain()
	client.command("go")
	return client.retrieve(ctx)
}

// retrieve waits for the engine to announce its move.
func (client *Client) retrieve(ctx context.Context) (board.Square, error) {
	line, err := client.await(ctx, movePattern, client.settings.moveTimeout())
	if err != nil {
		return board.Pass, err
	}

	token := movePattern.FindStringSubmatch(line)[1]
	move, err := board.ParseMoveToken(token)
	if err != nil {
		return board.Pass, fmt.Errorf("engine: bad move line %q: %w", line, err)
	}

	client.log.WithField("move", move).Debug("Engine moved")
	return move, nil
}

// drain discards output left over from previous requests, so that a late
// reply isn't mistaken for the answer to the next request.
func (client *Client) drain() {
	for {
		select {
		case line := <-client.lines:
			if featurePattern.MatchString(line) {
				client.addFeatures(line)
				continue
			}

			client.log.WithField("line", line).Debug("Discarding stale engine output")
		default:
			return
		}
	}
}

// await waits for a line of output matching the given pattern, for at most
// timeout. It fails early if the client is shut down, the context is done,
// or the engine's output ends.
func (client *Client) await(ctx context.Context, pattern *regexp.Regexp, timeout time.Duration) (string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case line := <-client.lines:
			if pattern.MatchString(line) {
				return line, nil
			}

		case <-client.readerDone:
			// the reader hands over everything it read before stopping
			for {
				select {
				case line := <-client.lines:
					if pattern.MatchString(line) {
						return line, nil
					}
				default:
					return "", fmt.Errorf("%w: %w", ErrEngineTimeout, ErrProcessDead)
				}
			}

		case <-timer.C:
			return "", fmt.Errorf("%w: no response within %s", ErrEngineTimeout, timeout)

		case <-client.closed:
			return "", ErrClosed

		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// Write sends a command to the engine. The error tells apart an engine that
// was never started (ErrNotStarted), one whose process has died
// (ErrProcessDead), and other i/o errors.
func (client *Client) Write(format string, a ...any) error {
	client.mu.Lock()
	defer client.mu.Unlock()

	if client.writer == nil {
		return ErrNotStarted
	}

	command := fmt.Sprintf(format, a...)
	client.trace("(%s)< %s", client.settings.name(), command)

	if _, err := client.writer.WriteString(command + "\n"); err != nil {
		return classifyWriteError(err)
	}

	if err := client.writer.Flush(); err != nil {
		return classifyWriteError(err)
	}

	return nil
}

func classifyWriteError(err error) error {
	if errors.Is(err, os.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, syscall.EPIPE) {
		return fmt.Errorf("%w: %v", ErrProcessDead, err)
	}

	return fmt.Errorf("engine: write: %w", err)
}

// command writes a command, logging instead of returning errors. A command
// that didn't reach the engine shows up as a timeout of the next request.
func (client *Client) command(format string, a ...any) {
	if err := client.Write(format, a...); err != nil {
		client.log.WithError(err).Warn("Engine command failed")
	}
}

func (client *Client) trace(format string, a ...any) {
	if client.settings.Debug {
		client.log.Infof(format, a...)
		return
	}

	client.log.Debugf(format, a...)
}

// fail moves a starting client to the Failed state and stops its process.
func (client *Client) fail() {
	for {
		state := client.State()
		if state == Failed || state == Closed {
			return
		}

		if client.transition(state, Failed) {
			break
		}
	}

	client.log.Debug("Engine failed")
	client.kill()
}

func (client *Client) kill() error {
	client.mu.Lock()
	cmd := client.cmd
	client.mu.Unlock()

	if cmd == nil {
		return nil
	}

	err := cmd.Process.Kill()
	if errors.Is(err, os.ErrProcessDone) {
		err = nil
	}

	// the reader may be blocked on a full buffer, which nobody else empties
	// once the client has failed
	for {
		select {
		case <-client.lines:
		case <-client.readerDone:
			return err
		}
	}
}

// Shutdown stops the engine process and moves the client to the Closed
// state. Requests waiting for the engine fail with ErrClosed. It is safe
// to call Shutdown more than once.
func (client *Client) Shutdown() error {
	var err error
	client.closeOnce.Do(func() {
		client.state.Store(int32(Closed))
		close(client.closed)

		// the engine might be dead already, which is fine
		_ = client.Write("quit")

		err = client.kill()
		client.log.Debug("Engine shut down")
	})

	return err
}
