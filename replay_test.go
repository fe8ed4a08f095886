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

import (
	"testing"

	"github.com/cacheml/percept/sim"
	"github.com/stretchr/testify/require"
)

const (
	replaySets = uint32(16)
	replayWays = uint32(4)
)

// replayCache is a minimal set-associative tag store that drives a Policy
// the way a simulator host would: lookup, then either a hit update or a
// victim selection followed by a fill update.
type replayCache struct {
	policy Policy
	tags   []uint64
	valid  []bool
}

func newReplayCache(policy Policy) *replayCache {
	n := int(replaySets) * int(replayWays)
	return &replayCache{
		policy: policy,
		tags:   make([]uint64, n),
		valid:  make([]bool, n),
	}
}

func (c *replayCache) access(block uint64, cycle uint64) {
	set := uint32(block) & (replaySets - 1)
	base := set * replayWays
	ctx := AccessContext{
		PC:    0x400000 + (block%7)*4,
		Addr:  block << blockOffsetBits,
		Type:  Load,
		Cycle: cycle,
	}
	for w := uint32(0); w < replayWays; w++ {
		if c.valid[base+w] && c.tags[base+w] == block {
			c.policy.UpdateState(set, w, ctx, true)
			return
		}
	}
	way := replayWays
	for w := uint32(0); w < replayWays; w++ {
		if !c.valid[base+w] {
			way = w
			break
		}
	}
	if way == replayWays {
		way = c.policy.FindVictim(set, ctx)
	}
	c.tags[base+way] = block
	c.valid[base+way] = true
	c.policy.UpdateState(set, way, ctx, false)
}

func replay(policy Policy, trace []uint64) *Metrics {
	cache := newReplayCache(policy)
	for i, block := range trace {
		cache.access(block, uint64(i+1))
	}
	return policy.Log()
}

// TestZipfReplay replays one skewed trace through the perceptron policy and
// the LRU baseline. The learned policy must stay in the same league as LRU
// on a workload where recency already works well.
func TestZipfReplay(t *testing.T) {
	trace := sim.Collection(sim.NewZipfian(1.25, 2, 1<<12), 1<<15)
	config := &Config{NumSets: replaySets, NumWays: replayWays, Log: true}

	perc, err := NewPerceptron(config)
	require.NoError(t, err)
	lru, err := NewLRU(config)
	require.NoError(t, err)

	pm := replay(perc, trace)
	lm := replay(lru, trace)

	require.Equal(t, uint64(len(trace)), pm.Hits()+pm.Misses())
	require.Equal(t, uint64(len(trace)), lm.Hits()+lm.Misses())
	require.Greater(t, pm.Ratio(), 0.0)
	require.Greater(t, lm.Ratio(), 0.0)
	require.GreaterOrEqual(t, pm.Ratio(), lm.Ratio()-0.15,
		"perceptron %0.3f vs lru %0.3f", pm.Ratio(), lm.Ratio())

	// every miss to a full set produced a victim from one of the two paths
	require.Equal(t, pm.Evictions(),
		pm.LearnedEvictions()+pm.FallbackEvictions())
}

func TestUniformReplayStaysValid(t *testing.T) {
	trace := sim.Collection(sim.NewUniform(1<<12), 1<<13)
	p, err := NewPerceptron(&Config{NumSets: replaySets, NumWays: replayWays, Log: true})
	require.NoError(t, err)
	m := replay(p, trace)
	require.Equal(t, uint64(len(trace)), m.Hits()+m.Misses())
}
