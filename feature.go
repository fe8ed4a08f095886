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
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// featureID enumerates the signals the predictor learns from. The set is
// closed: each ID owns exactly one weight table for the lifetime of the
// policy instance.
type featureID int

const (
	// featurePC is the program counter of the last access that touched the
	// line.
	featurePC featureID = iota
	// featureSet is the set index of the line.
	featureSet
	// featureWrite is 1 when the last touching access was a write.
	featureWrite
	// featureRecency is the number of cycles since the line was last
	// touched.
	featureRecency
	// featureAge is the number of cycles since the line was filled.
	featureAge
	// featureOffset is the block-offset bits of the last touched address.
	featureOffset
	// featureTag is a fingerprint of the line's tag bits. Tags carry low
	// entropy in their low bits, so they get spread with a real hash before
	// they index a small table.
	featureTag
	// numFeatures should be the final enum. Other enums should be set
	// before this.
	numFeatures
)

func (f featureID) String() string {
	switch f {
	case featurePC:
		return "pc"
	case featureSet:
		return "set"
	case featureWrite:
		return "write"
	case featureRecency:
		return "recency"
	case featureAge:
		return "age"
	case featureOffset:
		return "offset"
	case featureTag:
		return "tag"
	default:
		return "unidentified"
	}
}

// blockOffsetBits assumes 64-byte cache lines, the usual geometry of the
// hosts this policy serves.
const blockOffsetBits = 6

// featureVector maps each featureID to its extracted value.
type featureVector [numFeatures]uint64

// extract derives the feature vector for one resident line. It is pure: it
// reads the line's metadata and the current cycle and mutates nothing.
func (p *Perceptron) extract(line *lineMeta, set uint32, now uint64) featureVector {
	var f featureVector
	f[featurePC] = line.lastPC
	f[featureSet] = uint64(set)
	if line.lastWrite {
		f[featureWrite] = 1
	}
	if now > line.lastCycle {
		f[featureRecency] = now - line.lastCycle
	}
	if now > line.createCycle {
		f[featureAge] = now - line.createCycle
	}
	f[featureOffset] = line.lastAddr & (1<<blockOffsetBits - 1)
	f[featureTag] = tagFingerprint(line.lastAddr >> p.tagShift)
	return f
}

func tagFingerprint(tag uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], tag)
	return xxhash.Sum64(buf[:])
}
