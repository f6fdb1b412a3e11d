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

// State is the lifecycle state of an engine process.
type State int32

const (
	Uninitialized State = iota
	Starting
	Handshaking
	Active
	Failed
	Closed
)

func (state State) String() string {
	switch state {
	case Uninitialized:
		return "uninitialized"
	case Starting:
		return "starting"
	case Handshaking:
		return "handshaking"
	case Active:
		return "active"
	case Failed:
		return "failed"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}
