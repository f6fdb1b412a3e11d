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

import "strings"

// parseFeatures parses an xboard feature line, like
//
//	feature setboard=1 myname="Edax 4.4" done=1
//
// into a map of feature names to values. Values may be double-quoted.
func parseFeatures(line string) map[string]string {
	features := make(map[string]string)

	fields := splitQuoted(strings.TrimPrefix(line, "feature"))
	for _, field := range fields {
		name, value, _ := strings.Cut(field, "=")
		if name == "" {
			continue
		}

		features[name] = value
	}

	return features
}

// splitQuoted splits s around runs of spaces which are not inside double
// quotes, and removes the quotes.
func splitQuoted(s string) []string {
	var fields []string
	var field strings.Builder

	quoted, inField := false, false
	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
			inField = true
		case (r == ' ' || r == '\t') && !quoted:
			if inField {
				fields = append(fields, field.String())
				field.Reset()
				inField = false
			}
		default:
			field.WriteRune(r)
			inField = true
		}
	}

	if inField {
		fields = append(fields, field.String())
	}

	return fields
}
