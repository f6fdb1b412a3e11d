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

package game

import "fmt"

// Event is a notification sent to the observers of an Orchestrator.
type Event int

const (
	// Updated is sent at the start of every turn.
	Updated Event = iota
	// AIToMove is sent when the oracle has to move next. The move itself is
	// played by a separate call to ApplyAIMove.
	AIToMove
	// Over is sent when neither player has a legal move.
	Over
	// Pass is sent after a move which left the opponent without a move.
	Pass
)

func (event Event) String() string {
	switch event {
	case Updated:
		return "update"
	case AIToMove:
		return "ai_move"
	case Over:
		return "over"
	case Pass:
		return "pass"
	default:
		return fmt.Sprintf("Event(%d)", int(event))
	}
}

// Observer is a callback which receives the events of a game.
type Observer func(Event)
