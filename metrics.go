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
	"bytes"
	"fmt"
	"sync/atomic"

	"github.com/dustin/go-humanize"
)

type metricType int

const (
	// The following 2 keep track of access outcomes.
	hitAccess metricType = iota
	missAccess
	// The following 2 keep track of how each victim was chosen.
	evictLearned
	evictFallback
	// The following keeps track of predictor training steps.
	weightUpdate
	// The following 2 keep track of adaptive table resizes.
	tableGrow
	tableShrink
	// This should be the final enum. Other enums should be set before this.
	doNotUse
)

func stringFor(t metricType) string {
	switch t {
	case hitAccess:
		return "hits"
	case missAccess:
		return "misses"
	case evictLearned:
		return "victims-learned"
	case evictFallback:
		return "victims-fallback"
	case weightUpdate:
		return "weight-updates"
	case tableGrow:
		return "table-grows"
	case tableShrink:
		return "table-shrinks"
	default:
		return "unidentified"
	}
}

// Metrics is a snapshot of performance statistics for the lifetime of a
// policy instance. The counters are atomics so a host may read them while
// the simulation loop is still running.
type Metrics struct {
	all [doNotUse]uint64
}

func newMetrics() *Metrics {
	return &Metrics{}
}

func (p *Metrics) add(t metricType, delta uint64) {
	if p == nil {
		return
	}
	atomic.AddUint64(&p.all[t], delta)
}

func (p *Metrics) get(t metricType) uint64 {
	if p == nil {
		return 0
	}
	return atomic.LoadUint64(&p.all[t])
}

// Hits is the number of updates observing an access that hit.
func (p *Metrics) Hits() uint64 {
	return p.get(hitAccess)
}

// Misses is the number of updates observing an access that missed.
func (p *Metrics) Misses() uint64 {
	return p.get(missAccess)
}

// Evictions is the total number of victims produced.
func (p *Metrics) Evictions() uint64 {
	return p.get(evictLearned) + p.get(evictFallback)
}

// LearnedEvictions is the number of victims chosen by perceptron score.
func (p *Metrics) LearnedEvictions() uint64 {
	return p.get(evictLearned)
}

// FallbackEvictions is the number of victims chosen by the recency fallback
// because no way's score cleared the confidence threshold.
func (p *Metrics) FallbackEvictions() uint64 {
	return p.get(evictFallback)
}

// WeightUpdates is the number of predictor training steps performed.
func (p *Metrics) WeightUpdates() uint64 {
	return p.get(weightUpdate)
}

// TableGrows is the number of weight tables doubled under usage pressure.
func (p *Metrics) TableGrows() uint64 {
	return p.get(tableGrow)
}

// TableShrinks is the number of weight tables halved after going idle.
func (p *Metrics) TableShrinks() uint64 {
	return p.get(tableShrink)
}

// Ratio is the number of Hits over all accesses (Hits + Misses).
func (p *Metrics) Ratio() float64 {
	if p == nil {
		return 0.0
	}
	hits, misses := p.get(hitAccess), p.get(missAccess)
	if hits == 0 && misses == 0 {
		return 0.0
	}
	return float64(hits) / float64(hits+misses)
}

// Clear resets all the metrics.
func (p *Metrics) Clear() {
	if p == nil {
		return
	}
	for i := 0; i < int(doNotUse); i++ {
		atomic.StoreUint64(&p.all[i], 0)
	}
}

// String returns a string representation of the metrics.
func (p *Metrics) String() string {
	if p == nil {
		return ""
	}
	var buf bytes.Buffer
	for i := 0; i < int(doNotUse); i++ {
		t := metricType(i)
		fmt.Fprintf(&buf, "%s: %s ", stringFor(t), humanize.Comma(int64(p.get(t))))
	}
	fmt.Fprintf(&buf, "accesses-total: %s ", humanize.Comma(int64(p.get(hitAccess)+p.get(missAccess))))
	fmt.Fprintf(&buf, "hit-ratio: %.2f", p.Ratio())
	return buf.String()
}
