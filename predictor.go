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

// predictor owns one weight table per feature and combines them into a
// single utility score. Higher scores mean the line is more likely to be
// reused soon; strongly negative sums mark eviction candidates.
type predictor struct {
	tables [numFeatures]*weightTable
	// usage counts weight updates per feature since the last resize
	// evaluation. It is the aliasing-pressure signal the resizer reads.
	usage    [numFeatures]uint64
	initSize int64
	pcMask   uint64
	leak     float64
}

func newPredictor(tableSize int64, pcMask uint64, leak float64) *predictor {
	p := &predictor{
		initSize: next2Power(tableSize),
		pcMask:   pcMask,
		leak:     leak,
	}
	for id := range p.tables {
		p.tables[id] = newWeightTable(tableSize)
	}
	return p
}

// reset returns every table to a zeroed array of the initial capacity and
// clears the usage counters.
func (p *predictor) reset() {
	for id, t := range p.tables {
		if t.size() != p.initSize {
			p.tables[id] = newWeightTable(p.initSize)
		} else {
			t.clear()
		}
		p.usage[id] = 0
	}
}

// predict sums the participating counters and applies leaky rectification:
// positive sums pass through, negative sums are compressed by the leak
// factor so strongly-negative predictions keep their sign but not their
// magnitude.
func (p *predictor) predict(f featureVector, pc uint64) float64 {
	sum := 0
	for id, t := range p.tables {
		sum += int(t.read(t.index(f[featureID(id)], pc, p.pcMask)))
	}
	if sum > 0 {
		return float64(sum)
	}
	return p.leak * float64(sum)
}

// train pushes each participating counter one unit toward retain when the
// access was judged correct and toward evict otherwise, saturating at the
// counter bounds.
func (p *predictor) train(f featureVector, pc uint64, correct bool) {
	delta := 1
	if !correct {
		delta = -1
	}
	for id, t := range p.tables {
		i := t.index(f[featureID(id)], pc, p.pcMask)
		t.write(i, int(t.read(i))+delta)
		p.usage[id]++
	}
}

// evaluateResize applies the usage-pressure rule to every table: heavy use
// relative to capacity doubles it (less aliasing), light use on a grown
// table halves it (reclaim memory), never below the initial size. Usage
// counters reset regardless of the action taken.
func (p *predictor) evaluateResize() (grown, shrunk int) {
	for id, t := range p.tables {
		size := t.size()
		switch u := p.usage[id]; {
		case u > uint64(10*size):
			t.resize(size * 2)
			grown++
		case u < uint64(size/10) && size > p.initSize:
			t.resize(size / 2)
			shrunk++
		}
		p.usage[id] = 0
	}
	return grown, shrunk
}
