/*
 * Copyright 2026 The percept Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package percept

const (
	// minWeight/maxWeight bound each counter to a 6-bit saturating range.
	minWeight = -32
	maxWeight = 31
)

// weightTable is a fixed-capacity array of small signed saturating counters.
// Indexing is a direct map with collisions by design: distinct feature
// values may share a counter (aliasing), which the adaptive resizer keeps
// bounded.
type weightTable struct {
	weights []int8
	mask    uint64
}

func newWeightTable(size int64) *weightTable {
	if size <= 0 {
		panic("weightTable: bad size")
	}
	// Power of 2 so the modulo is a mask.
	size = next2Power(size)
	return &weightTable{
		weights: make([]int8, size),
		mask:    uint64(size - 1),
	}
}

func (t *weightTable) size() int64 {
	return int64(len(t.weights))
}

// index hashes a feature value together with the accessing program counter
// into a counter slot.
func (t *weightTable) index(value, pc, pcMask uint64) uint64 {
	return (value ^ (pc & pcMask)) & t.mask
}

func (t *weightTable) read(i uint64) int8 {
	return t.weights[i]
}

func (t *weightTable) write(i uint64, v int) {
	t.weights[i] = clampWeight(v)
}

// resize remaps every counter to oldIndex % newSize. Growth preserves all
// values in place and zero-fills the new capacity; shrinking folds trained
// slots together (zero counters carry no information and are skipped, so
// they never clobber a trained one).
func (t *weightTable) resize(newSize int64) {
	newSize = next2Power(newSize)
	if newSize < 1 {
		newSize = 1
	}
	next := make([]int8, newSize)
	m := uint64(newSize - 1)
	for i, w := range t.weights {
		if w != 0 {
			next[uint64(i)&m] = w
		}
	}
	t.weights = next
	t.mask = m
}

func (t *weightTable) clear() {
	for i := range t.weights {
		t.weights[i] = 0
	}
}

func clampWeight(v int) int8 {
	if v > maxWeight {
		return maxWeight
	}
	if v < minWeight {
		return minWeight
	}
	return int8(v)
}

// next2Power rounds x up to the next power of 2, if it's not already one.
func next2Power(x int64) int64 {
	x--
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	x |= x >> 8
	x |= x >> 16
	x |= x >> 32
	x++
	return x
}
