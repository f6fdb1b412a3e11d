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

package util

import (
	"regexp"
	"sort"
	"strconv"
)

var chunkifyRegexp = regexp.MustCompile(`(\d+|\D+)`)

func chunkify(s string) []string {
	return chunkifyRegexp.FindAllString(s, -1)
}

// AlphanumCompare compares two strings in natural order, where runs of
// digits are compared by their numeric value: "gen9" < "gen10". It returns
// -1, 0 or +1.
func AlphanumCompare(a, b string) int {
	chunksA := chunkify(a)
	chunksB := chunkify(b)

	for i := 0; i < len(chunksA) && i < len(chunksB); i++ {
		chunkA, chunkB := chunksA[i], chunksB[i]

		// If both chunks are numeric, compare them as integers
		intA, errA := strconv.Atoi(chunkA)
		intB, errB := strconv.Atoi(chunkB)
		if errA == nil && errB == nil {
			switch {
			case intA < intB:
				return -1
			case intA > intB:
				return +1
			}

			continue
		}

		switch {
		case chunkA < chunkB:
			return -1
		case chunkA > chunkB:
			return +1
		}
	}

	// one is a prefix of the other, the shorter one comes first
	switch {
	case len(chunksA) < len(chunksB):
		return -1
	case len(chunksA) > len(chunksB):
		return +1
	default:
		return 0
	}
}

// AlphanumLess reports whether a precedes b in natural order.
func AlphanumLess(a, b string) bool {
	return AlphanumCompare(a, b) < 0
}

// SortAlphanum sorts the given strings in natural order.
func SortAlphanum(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return AlphanumLess(names[i], names[j])
	})
}
