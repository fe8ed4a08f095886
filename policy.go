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

import "fmt"

// Perceptron is the learned replacement policy. Each instance owns its
// predictor and per-line metadata outright, so multiple cache instances can
// run side by side without sharing state.
type Perceptron struct {
	numSets   uint32
	numWays   uint32
	threshold float64
	tagShift  uint

	pred  *predictor
	lines []lineMeta

	updates        uint64
	resizeInterval uint64

	stats *Metrics
}

var _ Policy = (*Perceptron)(nil)

// NewPerceptron builds a perceptron policy for one cache instance. The
// returned policy is already initialized.
func NewPerceptron(config *Config) (*Perceptron, error) {
	c, err := config.withDefaults()
	if err != nil {
		return nil, err
	}
	p := &Perceptron{
		numSets:        c.NumSets,
		numWays:        c.NumWays,
		threshold:      c.Threshold,
		tagShift:       blockOffsetBits + log2(next2Power(int64(c.NumSets))),
		pred:           newPredictor(c.TableSize, c.IndexMask, c.Leak),
		lines:          make([]lineMeta, int(c.NumSets)*int(c.NumWays)),
		resizeInterval: c.ResizeInterval,
	}
	if c.Log {
		p.stats = newMetrics()
	}
	return p, nil
}

// Initialize resets every weight table to its zeroed baseline capacity,
// every usage counter, and all per-line metadata. Idempotent.
func (p *Perceptron) Initialize() {
	p.pred.reset()
	for i := range p.lines {
		p.lines[i] = lineMeta{}
	}
	p.updates = 0
}

// FindVictim scores every resident way and returns the index to evict.
//
// A way qualifies as a perceptron victim only when its score is nonzero and
// strictly below the confidence threshold; an exactly-zero score comes from
// untrained counters and carries no information. Among qualifiers, the
// minimum score wins. When no way qualifies, the way with the oldest
// last-access cycle is returned instead, so a cold or miscalibrated
// predictor degrades to plain recency.
func (p *Perceptron) FindVictim(set uint32, ctx AccessContext) uint32 {
	if set >= p.numSets {
		panic(fmt.Sprintf("percept: set %d out of range [0, %d)", set, p.numSets))
	}
	base := set * p.numWays
	victim := -1
	victimScore := 0.0
	oldest := uint32(0)
	oldestCycle := ^uint64(0)
	for w := uint32(0); w < p.numWays; w++ {
		line := &p.lines[base+w]
		score := p.pred.predict(p.extract(line, set, ctx.Cycle), line.lastPC)
		if score != 0 && score < p.threshold && (victim < 0 || score < victimScore) {
			victim = int(w)
			victimScore = score
		}
		if line.lastCycle < oldestCycle {
			oldest = w
			oldestCycle = line.lastCycle
		}
	}
	if victim >= 0 {
		p.stats.add(evictLearned, 1)
		return uint32(victim)
	}
	p.stats.add(evictFallback, 1)
	return oldest
}

// UpdateState records the outcome of an access to (set, way): it trains the
// predictor from the line's pre-access state, refreshes the line's
// metadata, and periodically re-evaluates table sizes.
//
// An update counts as correct when the access hit, or when it was a write
// regardless of outcome (dirty lines are worth retaining either way).
func (p *Perceptron) UpdateState(set, way uint32, ctx AccessContext, hit bool) {
	line := p.line(set, way)

	correct := hit || ctx.Type.isWrite()
	p.pred.train(p.extract(line, set, ctx.Cycle), ctx.PC, correct)

	line.lastPC = ctx.PC
	line.lastAddr = ctx.Addr
	line.lastWrite = ctx.Type.isWrite()
	line.lastCycle = ctx.Cycle
	if !hit || !line.valid {
		// The line was (re)filled by this access.
		line.createCycle = ctx.Cycle
		line.valid = true
	}

	if hit {
		p.stats.add(hitAccess, 1)
	} else {
		p.stats.add(missAccess, 1)
	}
	p.stats.add(weightUpdate, 1)

	p.updates++
	if p.updates%p.resizeInterval == 0 {
		grown, shrunk := p.pred.evaluateResize()
		p.stats.add(tableGrow, uint64(grown))
		p.stats.add(tableShrink, uint64(shrunk))
	}
}

// Log returns the lifetime statistics, or nil if logging is disabled.
func (p *Perceptron) Log() *Metrics {
	return p.stats
}

func (p *Perceptron) line(set, way uint32) *lineMeta {
	if set >= p.numSets || way >= p.numWays {
		panic(fmt.Sprintf("percept: (set %d, way %d) out of range [0, %d)x[0, %d)",
			set, way, p.numSets, p.numWays))
	}
	return &p.lines[set*p.numWays+way]
}

func log2(x int64) uint {
	var n uint
	for x > 1 {
		x >>= 1
		n++
	}
	return n
}
