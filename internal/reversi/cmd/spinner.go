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

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/sirupsen/logrus"
)

// SPIN is the spinner.CharSets index used by the command line.
const SPIN = 31

// spin runs work while showing a spinner with the given message on the
// standard error. The spinner is hidden when trace logging is enabled, so it
// doesn't garble the engine's output.
func spin(message string, work func() error) error {
	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		return work()
	}

	s := spinner.New(
		spinner.CharSets[SPIN], 100*time.Millisecond,
		spinner.WithWriter(os.Stderr),
		spinner.WithSuffix(fmt.Sprintf(" %s", message)),
	)

	s.Start() // Start the ~working~ spinner.
	defer s.Stop()

	return work()
}
