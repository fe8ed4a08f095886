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

// Percept is an adaptive replacement policy for set-associative caches. On
// every miss it picks an eviction victim with an online-learned perceptron
// score instead of a fixed heuristic, and on every access it trains the
// underlying weight tables from the observed outcome. It is meant to be
// driven synchronously by a cycle-level simulator host.
package percept

import "errors"

// AccessType classifies the memory operation behind a cache access.
type AccessType int

const (
	Load AccessType = iota
	Store
	Prefetch
	Writeback
)

func (t AccessType) isWrite() bool {
	return t == Store || t == Writeback
}

// AccessContext carries the host-supplied information about one cache
// access: the accessing program counter, the full address, the operation
// kind, and the simulator's current cycle.
type AccessContext struct {
	PC    uint64
	Addr  uint64
	Type  AccessType
	Cycle uint64
}

// lineMeta is the per-(set, way) record the policy maintains across
// accesses. It is mutated only by UpdateState; scoring reads it.
type lineMeta struct {
	lastPC      uint64
	lastAddr    uint64
	lastWrite   bool
	lastCycle   uint64
	createCycle uint64
	valid       bool
}

// Policy is the interface a cache instance drives, once per access.
//
// The host contract is single-threaded: calls arrive synchronously from one
// simulation loop, so implementations hold no locks. A host sharing one
// instance across cores must serialize externally.
type Policy interface {
	// Initialize resets all learned and per-line state to the constructed
	// baseline. Called once before any access; calling it again is a full
	// reset.
	Initialize()
	// FindVictim returns the way to evict from the given set. It always
	// returns a way in [0, NumWays) and never mutates learned state.
	FindVictim(set uint32, ctx AccessContext) uint32
	// UpdateState records the outcome of an access to (set, way): it
	// refreshes the line's metadata and trains the policy.
	UpdateState(set, way uint32, ctx AccessContext, hit bool)
	// Log returns lifetime statistics, or nil when disabled.
	Log() *Metrics
}

type Config struct {
	// NumSets is the number of sets in the cache this policy serves.
	NumSets uint32
	// NumWays is the associativity of each set.
	NumWays uint32
	// TableSize is the initial capacity of each feature's weight table.
	// Rounded up to a power of 2. Defaults to 256.
	TableSize int64
	// Threshold is the confidence bound for perceptron victim selection: a
	// way qualifies only when its score is strictly below it. Defaults to 3.
	Threshold float64
	// Leak scales negative prediction sums (leaky rectification).
	// Defaults to 0.01.
	Leak float64
	// IndexMask selects the program-counter bits mixed into the weight
	// table index hash. Defaults to 0xffff.
	IndexMask uint64
	// ResizeInterval is the number of UpdateState calls between adaptive
	// resize evaluations. Defaults to 4096.
	ResizeInterval uint64
	// Log is whether to maintain lifetime statistics (with some overhead).
	Log bool
}

// withDefaults fills in the zero-value fields every constructor shares.
func (c *Config) withDefaults() (Config, error) {
	switch {
	case c.NumSets == 0:
		return Config{}, errors.New("NumSets can't be zero.")
	case c.NumWays == 0:
		return Config{}, errors.New("NumWays can't be zero.")
	case c.Threshold < 0:
		return Config{}, errors.New("Threshold can't be negative.")
	case c.Leak < 0 || c.Leak > 1:
		return Config{}, errors.New("Leak must be in [0, 1].")
	}
	out := *c
	if out.TableSize == 0 {
		out.TableSize = 256
	}
	if out.Threshold == 0 {
		out.Threshold = 3
	}
	if out.Leak == 0 {
		out.Leak = 0.01
	}
	if out.IndexMask == 0 {
		out.IndexMask = 0xffff
	}
	if out.ResizeInterval == 0 {
		out.ResizeInterval = 4096
	}
	return out, nil
}
