// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package units

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"
)

const (
	// TickPeriod is the duration of one simulation Tick (10 Hz).
	TickPeriod = time.Second / 10
	// TicksPerSecond is how many Ticks make up one second.
	TicksPerSecond = Tick(time.Second / TickPeriod)
	// TickMax is the highest representable Tick count.
	TickMax = Tick(65535)
)

// Tick is a duration measured in simulation ticks (see TickPeriod).
// Unlike the teacher's wrapping Ticks, Tick saturates: Add/Sub clamp at
// [0, TickMax] instead of wrapping, per spec.md section 3.1.
type Tick uint16

// ToTicks converts a duration in seconds to a Tick count, saturating.
func ToTicks(seconds float32) Tick {
	if seconds <= 0 {
		return 0
	}
	scaled := seconds * float32(float64(time.Second)/float64(TickPeriod))
	if scaled >= float32(TickMax) {
		return TickMax
	}
	return Tick(scaled)
}

// Float returns the Tick count as seconds.
func (t Tick) Float() float32 {
	return float32(t) * float32(float64(TickPeriod)/float64(time.Second))
}

// Add returns t+other, saturating at TickMax.
func (t Tick) Add(other Tick) Tick {
	sum := uint32(t) + uint32(other)
	if sum > uint32(TickMax) {
		return TickMax
	}
	return Tick(sum)
}

// Sub returns t-other, saturating at 0.
func (t Tick) Sub(other Tick) Tick {
	if other >= t {
		return 0
	}
	return t - other
}

func (t Tick) String() string {
	return fmt.Sprintf("%.01fs", t.Float())
}

func (t Tick) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Float())
}

func (t *Tick) UnmarshalJSON(b []byte) error {
	var seconds float32
	if err := json.Unmarshal(b, &seconds); err != nil {
		return err
	}
	if seconds < 0 {
		return fmt.Errorf("ticks: negative seconds %f", seconds)
	}
	*t = ToTicks(seconds)
	return nil
}

// MarshalBinary writes the Tick as a raw little-endian uint16.
func (t Tick) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, uint16(t))
	return buf, nil
}

// UnmarshalBinary reads a Tick from a raw little-endian uint16.
func (t *Tick) UnmarshalBinary(buf []byte) error {
	if len(buf) < 2 {
		return fmt.Errorf("ticks: short buffer")
	}
	*t = Tick(binary.LittleEndian.Uint16(buf))
	return nil
}
