/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package layout

// A minimal single-axis flex solver. Items with Grow == 0 keep their Basis;
// remaining space is split among growing items by weight. Negative free space
// shrinks growing items to zero first; fixed items never shrink, so callers
// can detect over-constrained input by a zero-length flexible span.

// Item is one participant along the axis.
type Item struct {
	Basis float64 // fixed main-axis size (used directly when Grow == 0)
	Grow  float64 // weight for distributing free space
}

// Span is the solved offset/length of an item along the axis.
type Span struct {
	Offset float64
	Length float64
}

// Solve lays the items out sequentially along an axis of the given total
// length, top-to-bottom with no gaps. It is a pure function: identical inputs
// yield identical spans.
func Solve(total float64, items []Item) []Span {
	fixed := 0.0
	growSum := 0.0
	for _, it := range items {
		if it.Grow > 0 {
			growSum += it.Grow
		} else {
			fixed += it.Basis
		}
	}
	free := total - fixed
	if free < 0 {
		free = 0
	}

	spans := make([]Span, len(items))
	offset := 0.0
	for i, it := range items {
		length := it.Basis
		if it.Grow > 0 {
			length = free * it.Grow / growSum
		}
		spans[i] = Span{Offset: offset, Length: length}
		offset += length
	}
	return spans
}
