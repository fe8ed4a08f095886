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

// LRU is a pure-recency policy behind the same interface as Perceptron. It
// learns nothing; it exists as a baseline for comparison tests and
// benchmarks, and as the reference behavior of the perceptron's fallback
// path.
type LRU struct {
	numSets uint32
	numWays uint32
	lines   []lineMeta
	stats   *Metrics
}

var _ Policy = (*LRU)(nil)

func NewLRU(config *Config) (*LRU, error) {
	c, err := config.withDefaults()
	if err != nil {
		return nil, err
	}
	l := &LRU{
		numSets: c.NumSets,
		numWays: c.NumWays,
		lines:   make([]lineMeta, int(c.NumSets)*int(c.NumWays)),
	}
	if c.Log {
		l.stats = newMetrics()
	}
	return l, nil
}

func (l *LRU) Initialize() {
	for i := range l.lines {
		l.lines[i] = lineMeta{}
	}
}

// FindVictim returns the way with the oldest last-access cycle. Untouched
// ways carry a zero stamp and therefore go first.
func (l *LRU) FindVictim(set uint32, ctx AccessContext) uint32 {
	if set >= l.numSets {
		panic(fmt.Sprintf("percept: set %d out of range [0, %d)", set, l.numSets))
	}
	base := set * l.numWays
	oldest := uint32(0)
	oldestCycle := ^uint64(0)
	for w := uint32(0); w < l.numWays; w++ {
		if c := l.lines[base+w].lastCycle; c < oldestCycle {
			oldest = w
			oldestCycle = c
		}
	}
	l.stats.add(evictFallback, 1)
	return oldest
}

func (l *LRU) UpdateState(set, way uint32, ctx AccessContext, hit bool) {
	if set >= l.numSets || way >= l.numWays {
		panic(fmt.Sprintf("percept: (set %d, way %d) out of range [0, %d)x[0, %d)",
			set, way, l.numSets, l.numWays))
	}
	line := &l.lines[set*l.numWays+way]
	// Writeback hits don't refresh recency.
	if !hit || ctx.Type != Writeback {
		line.lastCycle = ctx.Cycle
	}
	line.lastPC = ctx.PC
	line.lastAddr = ctx.Addr
	line.lastWrite = ctx.Type.isWrite()
	if !hit || !line.valid {
		line.createCycle = ctx.Cycle
		line.valid = true
	}
	if hit {
		l.stats.add(hitAccess, 1)
	} else {
		l.stats.add(missAccess, 1)
	}
}

func (l *LRU) Log() *Metrics {
	return l.stats
}
