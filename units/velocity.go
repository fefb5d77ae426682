// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package units

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	"github.com/chewxy/math32"
)

const (
	// MeterPerSecond is 1 m/s in Velocity units.
	MeterPerSecond Velocity = 1 << 5
	// VelocityMax is the fastest representable forward speed, in m/s.
	VelocityMax = math32.MaxInt16 / float32(MeterPerSecond)
	// VelocityMin is the fastest representable reverse speed, in m/s (negative).
	VelocityMin = math32.MinInt16 / float32(MeterPerSecond)
)

// Velocity is an 11.5 fixed-point signed velocity, in units of 1/32 m/s.
type Velocity int16

// ToVelocity converts a float in m/s to a Velocity, saturating at the
// representable range.
func ToVelocity(metersPerSecond float32) Velocity {
	scaled := math.Floor(float64(metersPerSecond * float32(MeterPerSecond)))
	if scaled > math.MaxInt16 {
		return math.MaxInt16
	}
	if scaled < math.MinInt16 {
		return math.MinInt16
	}
	return Velocity(scaled)
}

// Float returns the Velocity as a float in m/s.
func (vel Velocity) Float() float32 {
	return float32(vel) * (1.0 / float32(MeterPerSecond))
}

// ClampMagnitude clamps vel to within [-mag, mag].
func (vel Velocity) ClampMagnitude(mag Velocity) Velocity {
	if vel < -mag {
		return -mag
	}
	if vel > mag {
		return mag
	}
	return vel
}

// ClampMin clamps the magnitude of vel to be at least min, preserving sign.
func (vel Velocity) ClampMin(min Velocity) Velocity {
	if vel < 0 {
		if vel > -min {
			return -min
		}
	} else if vel < min {
		return min
	}
	return vel
}

// AddClamped adds a float in m/s to vel and clamps the magnitude to mag.
func (vel Velocity) AddClamped(amount float32, mag Velocity) Velocity {
	v := int64(vel) + int64(amount*float32(MeterPerSecond))
	if v > int64(mag) {
		return mag
	}
	if v < int64(-mag) {
		return -mag
	}
	return Velocity(v)
}

func (vel Velocity) String() string {
	return fmt.Sprintf("%.01f m/s", vel.Float())
}

func (vel Velocity) MarshalJSON() ([]byte, error) {
	return json.Marshal(vel.Float())
}

func (vel *Velocity) UnmarshalJSON(b []byte) error {
	var f float32
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	if f < VelocityMin || f > VelocityMax {
		return fmt.Errorf("velocity out of range [%f, %f]: %f", VelocityMin, VelocityMax, f)
	}
	*vel = ToVelocity(f)
	return nil
}

// MarshalBinary writes the Velocity as a raw little-endian int16.
func (vel Velocity) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, uint16(vel))
	return buf, nil
}

// UnmarshalBinary reads a Velocity from a raw little-endian int16.
func (vel *Velocity) UnmarshalBinary(buf []byte) error {
	if len(buf) < 2 {
		return fmt.Errorf("velocity: short buffer")
	}
	*vel = Velocity(binary.LittleEndian.Uint16(buf))
	return nil
}
