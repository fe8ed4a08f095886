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

// Package sim generates access-address streams for driving replacement
// policies in tests and benchmarks, either synthetically or from trace
// files.
package sim

import (
	"bufio"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/dgryski/go-farm"
	"github.com/pkg/errors"
)

// ErrDone is returned when the underlying trace has no more accesses.
var ErrDone = errors.New("no more accesses in the simulation")

// Simulator is a stream of 64-bit access addresses.
type Simulator func() (uint64, error)

// NewZipfian draws addresses from a Zipfian distribution over [0, n), so a
// small set of hot addresses dominates the stream.
func NewZipfian(s, v float64, n uint64) Simulator {
	z := rand.NewZipf(rand.New(rand.NewSource(time.Now().UnixNano())), s, v, n)
	return func() (uint64, error) {
		return z.Uint64(), nil
	}
}

// NewUniform draws addresses uniformly from [0, n).
func NewUniform(n uint64) Simulator {
	m := int64(n)
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return func() (uint64, error) {
		return uint64(r.Int63n(m)), nil
	}
}

type Parser func(string, error) (uint64, error)

// NewReader streams addresses out of a trace file, one access per line.
// Parse failures are annotated with the offending line number.
func NewReader(parser Parser, file io.Reader) Simulator {
	b := bufio.NewReader(file)
	line := 0
	return func() (uint64, error) {
		line++
		v, err := parser(b.ReadString('\n'))
		if err != nil && err != ErrDone {
			return 0, errors.Wrapf(err, "line %d", line)
		}
		return v, err
	}
}

// ParseLirs parses a line of the LIRS trace format: one decimal block
// number per line.
func ParseLirs(line string, err error) (uint64, error) {
	if line != "" {
		// example: "1\r\n"
		return strconv.ParseUint(strings.TrimSpace(line), 10, 64)
	}
	return 0, ErrDone
}

// ParseKeys parses traces whose lines are arbitrary textual keys, by
// fingerprinting each key into a 64-bit address.
func ParseKeys(line string, err error) (uint64, error) {
	if line != "" {
		return farm.Fingerprint64([]byte(strings.TrimSpace(line))), nil
	}
	return 0, ErrDone
}

// Collection materializes size addresses from the simulator, so the same
// trace can be replayed against multiple policies.
func Collection(simulator Simulator, size uint64) []uint64 {
	collection := make([]uint64, size)
	for i := range collection {
		collection[i], _ = simulator()
	}
	return collection
}
